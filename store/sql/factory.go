package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-account-webhooks/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// RepositoryFactory builds the account and event stores over one bun handle.
// Service construction hands it the persistence client.
type RepositoryFactory struct {
	db       *bun.DB
	accounts *AccountStore
	events   *WebhookEventStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

// NewRepositoryFactoryFromPersistence returns a factory whose stores are ready.
func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{}
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

// BuildStores accepts a *persistence.Client, a *bun.DB or anything exposing
// DB() *bun.DB. Stores are built once; later calls return the same ones.
func (f *RepositoryFactory) BuildStores(client any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.accounts != nil && f.events != nil {
		return f, nil
	}

	db, err := bunHandle(client)
	if err != nil {
		return nil, err
	}
	accounts, err := NewAccountStore(db)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: account store: %w", err)
	}
	events, err := NewWebhookEventStore(db)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: webhook event store: %w", err)
	}

	f.db = db
	f.accounts = accounts
	f.events = events
	return f, nil
}

func (f *RepositoryFactory) AccountStore() core.AccountStore {
	if f == nil || f.accounts == nil {
		return nil
	}
	return f.accounts
}

func (f *RepositoryFactory) WebhookEventStore() core.WebhookEventStore {
	if f == nil || f.events == nil {
		return nil
	}
	return f.events
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func bunHandle(client any) (*bun.DB, error) {
	var db *bun.DB
	switch typed := client.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		db = typed
	case interface{ DB() *bun.DB }:
		db = typed.DB()
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client %T", client)
	}
	if db == nil {
		return nil, fmt.Errorf("sqlstore: persistence client has no bun db")
	}
	return db, nil
}
