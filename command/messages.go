package command

import (
	"strings"

	"github.com/goliatone/go-account-webhooks/core"
)

const (
	TypeCreateAccount  = "account_webhooks.command.account.create"
	TypeReceiveWebhook = "account_webhooks.command.webhook.receive"
)

type CreateAccountMessage struct {
	Request core.CreateAccountRequest
}

func (CreateAccountMessage) Type() string { return TypeCreateAccount }

func (m CreateAccountMessage) Validate() error {
	if strings.TrimSpace(m.Request.AccountKey) == "" {
		return commandValidationError("accountKey", "account key is required")
	}
	if strings.TrimSpace(m.Request.Email) == "" {
		return commandValidationError("email", "email is required")
	}
	return nil
}

// ReceiveWebhookMessage carries a delivery that already passed signature
// verification.
type ReceiveWebhookMessage struct {
	EventID string
	Request core.WebhookRequest
}

func (ReceiveWebhookMessage) Type() string { return TypeReceiveWebhook }

func (m ReceiveWebhookMessage) Validate() error {
	if strings.TrimSpace(m.EventID) == "" {
		return commandValidationError("eventId", "event id is required")
	}
	return commandWrapValidation(m.Request.Validate(), "command: invalid webhook request")
}
