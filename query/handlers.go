package query

import (
	"context"

	"github.com/goliatone/go-account-webhooks/core"
)

type AccountReader interface {
	GetAccount(ctx context.Context, accountKey string) (core.Account, error)
}

type EventReader interface {
	GetEvent(ctx context.Context, eventID string) (core.WebhookEvent, error)
}

// GetAccountQuery returns the public projection of an account.
type GetAccountQuery struct {
	reader AccountReader
}

func NewGetAccountQuery(reader AccountReader) *GetAccountQuery {
	return &GetAccountQuery{reader: reader}
}

func (q *GetAccountQuery) Query(ctx context.Context, msg GetAccountMessage) (core.AccountView, error) {
	if q == nil || q.reader == nil {
		return core.AccountView{}, queryDependencyError("query: account reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.AccountView{}, err
	}
	account, err := q.reader.GetAccount(ctx, msg.AccountKey)
	if err != nil {
		return core.AccountView{}, err
	}
	return core.NewAccountView(account), nil
}

// GetEventQuery returns the inbox view of a ledger entry. Payload is not
// part of the view.
type GetEventQuery struct {
	reader EventReader
}

func NewGetEventQuery(reader EventReader) *GetEventQuery {
	return &GetEventQuery{reader: reader}
}

func (q *GetEventQuery) Query(ctx context.Context, msg GetEventMessage) (core.EventView, error) {
	if q == nil || q.reader == nil {
		return core.EventView{}, queryDependencyError("query: event reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.EventView{}, err
	}
	event, err := q.reader.GetEvent(ctx, msg.EventID)
	if err != nil {
		return core.EventView{}, err
	}
	return core.NewEventView(event), nil
}
