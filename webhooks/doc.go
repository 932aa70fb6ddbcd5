// Package webhooks authenticates and decodes account-change deliveries.
//
// A delivery is verified against the exact bytes received, its event id is
// read from a header, and only then is the body decoded and handed to the
// dispatcher that records it in the event ledger.
package webhooks
