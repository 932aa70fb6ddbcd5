package query

import "strings"

const (
	TypeGetAccount = "account_webhooks.query.account.get"
	TypeGetEvent   = "account_webhooks.query.event.get"
)

type GetAccountMessage struct {
	AccountKey string
}

func (GetAccountMessage) Type() string { return TypeGetAccount }

func (m GetAccountMessage) Validate() error {
	if strings.TrimSpace(m.AccountKey) == "" {
		return queryValidationError("accountKey", "account key is required")
	}
	return nil
}

type GetEventMessage struct {
	EventID string
}

func (GetEventMessage) Type() string { return TypeGetEvent }

func (m GetEventMessage) Validate() error {
	if strings.TrimSpace(m.EventID) == "" {
		return queryValidationError("eventId", "event id is required")
	}
	return nil
}
