package sqlstore

import "github.com/goliatone/go-account-webhooks/core"

var (
	_ core.AccountStore           = (*AccountStore)(nil)
	_ core.WebhookEventStore      = (*WebhookEventStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
