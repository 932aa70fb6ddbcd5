package core

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type fixedConfigProvider struct {
	cfg Config
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

func TestNewService_DefaultDependencies(t *testing.T) {
	svc, err := NewService(testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	deps := svc.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.LoggerProvider == nil {
		t.Fatalf("expected default logger provider")
	}
	if deps.ErrorMapper == nil {
		t.Fatalf("expected default error mapper")
	}
	if deps.ConfigProvider == nil {
		t.Fatalf("expected default config provider")
	}
	if deps.OptionsResolver == nil {
		t.Fatalf("expected default options resolver")
	}
	if _, ok := deps.MetricsRecorder.(NopMetricsRecorder); !ok {
		t.Fatalf("expected nop metrics recorder, got %T", deps.MetricsRecorder)
	}
	cfg := svc.Config()
	if cfg.ServiceName != DefaultServiceName {
		t.Fatalf("expected default service_name, got %q", cfg.ServiceName)
	}
	if cfg.Webhook.SignatureHeader != DefaultSignatureHeader || cfg.Webhook.EventIDHeader != DefaultEventIDHeader {
		t.Fatalf("expected default webhook headers, got %#v", cfg.Webhook)
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("expected default max body, got %d", cfg.Server.MaxBodyBytes)
	}
}

func TestNewService_RequiresWebhookSecret(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Fatalf("expected missing webhook secret to fail")
	}
}

func TestConfigValidate_RejectsPaddedWebhookSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhook.Secret = "secret\n"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected padded secret to be rejected")
	}
	cfg.Webhook.Secret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected plain secret to pass, got %v", err)
	}

	loader := EnvLoader{Lookup: func(key string) (string, bool) {
		if key == EnvWebhookSecret {
			return " secret ", true
		}
		return "", false
	}}
	if _, err := NewService(Config{}, WithConfigProvider(NewCfgxConfigProvider(loader))); err == nil {
		t.Fatalf("expected padded secret from env to fail service construction")
	}
}

func TestNewService_WithXOverrides(t *testing.T) {
	customLogger := stubLogger{}
	customProvider := stubLoggerProvider{logger: customLogger}
	sentinel := errors.New("sentinel")
	customMapper := func(error) *goerrors.Error {
		return goerrors.Wrap(sentinel, goerrors.CategoryOperation, "mapped")
	}
	persistenceClient := &struct{ Name string }{Name: "persistence"}
	stores := testStores{accounts: newMemoryAccountStore(), events: newMemoryEventStore()}
	configProvider := &fixedConfigProvider{cfg: Config{ServiceName: "from-provider"}}
	resolved := testConfig()
	resolved.ServiceName = "resolved"
	optionsResolver := &fixedOptionsResolver{cfg: resolved}

	svc, err := NewService(Config{ServiceName: "runtime"},
		WithLogger(customLogger),
		WithLoggerProvider(customProvider),
		WithErrorMapper(customMapper),
		WithPersistenceClient(persistenceClient),
		WithRepositoryFactory(stores),
		WithConfigProvider(configProvider),
		WithOptionsResolver(optionsResolver),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	deps := svc.Dependencies()
	if deps.Logger != customLogger {
		t.Fatalf("expected custom logger override")
	}
	if resolved := deps.LoggerProvider.GetLogger("account-webhooks.override"); resolved != customLogger {
		t.Fatalf("expected logger provider to resolve custom logger")
	}
	if deps.PersistenceClient != persistenceClient {
		t.Fatalf("expected custom persistence client override")
	}
	if deps.ConfigProvider != configProvider {
		t.Fatalf("expected custom config provider override")
	}
	if deps.OptionsResolver != optionsResolver {
		t.Fatalf("expected custom options resolver override")
	}
	if deps.AccountStore != stores.accounts || deps.WebhookEventStore != stores.events {
		t.Fatalf("expected stores resolved from store provider")
	}
	if got := svc.Config().ServiceName; got != "resolved" {
		t.Fatalf("expected options resolver output config, got %q", got)
	}

	_, err = svc.GetAccount(context.Background(), "missing")
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected custom error mapper to be applied, got %v", err)
	}
}

type countingStoreFactory struct {
	stores testStores
	calls  int
	client any
}

func (f *countingStoreFactory) BuildStores(client any) (StoreProvider, error) {
	f.calls++
	f.client = client
	return f.stores, nil
}

func TestNewService_BuildsStoresFromRepositoryFactory(t *testing.T) {
	factory := &countingStoreFactory{stores: testStores{accounts: newMemoryAccountStore(), events: newMemoryEventStore()}}
	client := &struct{}{}
	svc, err := NewService(testConfig(), WithPersistenceClient(client), WithRepositoryFactory(factory))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if factory.calls != 1 || factory.client != client {
		t.Fatalf("expected factory to receive persistence client once, got %d calls", factory.calls)
	}
	if svc.Dependencies().AccountStore != factory.stores.accounts {
		t.Fatalf("expected account store from factory")
	}
}

func TestNewService_ConfigLayeringPrecedence(t *testing.T) {
	provider := NewCfgxConfigProvider(mapRawLoader{values: map[string]any{
		"service_name": "from-config",
		"server": map[string]any{
			"address":        ":9090",
			"max_body_bytes": 2048,
		},
		"webhook": map[string]any{
			"secret": "from-config-secret",
		},
	}})

	svc, err := NewService(Config{ServiceName: "from-runtime"}, WithConfigProvider(provider))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cfg := svc.Config()
	if cfg.ServiceName != "from-runtime" {
		t.Fatalf("expected runtime value to override config/default, got %q", cfg.ServiceName)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected config layer address, got %q", cfg.Server.Address)
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Fatalf("expected config layer max body, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Webhook.Secret != "from-config-secret" {
		t.Fatalf("expected config layer secret, got %q", cfg.Webhook.Secret)
	}
	if cfg.Webhook.SignatureHeader != DefaultSignatureHeader {
		t.Fatalf("expected default signature header retained, got %q", cfg.Webhook.SignatureHeader)
	}
}
