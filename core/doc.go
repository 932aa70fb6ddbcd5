// Package core contains the account-webhooks domain: accounts, the webhook
// event ledger, the account-change event sum type, store contracts and the
// Service that dispatches deliveries. Storage and transport adapters depend on
// this package; core must not depend on them.
package core
