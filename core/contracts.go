package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// AccountStore persists accounts keyed by account key. Every mutation is a
// single-row transaction. Absent accounts are reported with found=false.
type AccountStore interface {
	Save(ctx context.Context, accountKey string, email string) (Account, error)
	FindByAccountKey(ctx context.Context, accountKey string) (Account, bool, error)
	ExistsByAccountKey(ctx context.Context, accountKey string) (bool, error)
	UpdateEmail(ctx context.Context, accountKey string, email string) (Account, bool, error)
	UpdateStatus(ctx context.Context, accountKey string, status AccountStatus) (Account, bool, error)
}

// WebhookEventStore is the idempotent ledger of received deliveries. Save
// returns ErrDuplicateEvent when the event id is already recorded.
type WebhookEventStore interface {
	Save(ctx context.Context, eventID string, eventType EventType, payload string) (WebhookEvent, error)
	ExistsByEventID(ctx context.Context, eventID string) (bool, error)
	FindByEventID(ctx context.Context, eventID string) (WebhookEvent, bool, error)
	UpdateStatus(
		ctx context.Context,
		eventID string,
		status EventStatus,
		errorMessage string,
	) (WebhookEvent, bool, error)
}

type StoreProvider interface {
	AccountStore() AccountStore
	WebhookEventStore() WebhookEventStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
