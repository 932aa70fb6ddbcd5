package accountwebhooks

import "github.com/goliatone/go-account-webhooks/core"

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type AccountStore = core.AccountStore
type WebhookEventStore = core.WebhookEventStore
type MetricsRecorder = core.MetricsRecorder

type Account = core.Account
type WebhookEvent = core.WebhookEvent
type WebhookRequest = core.WebhookRequest
type CreateAccountRequest = core.CreateAccountRequest
type DispatchResult = core.DispatchResult

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithAccountStore      = core.WithAccountStore
	WithWebhookEventStore = core.WithWebhookEventStore
	WithNow               = core.WithNow
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}
