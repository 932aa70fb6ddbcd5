package core

import (
	"fmt"
	"strings"
)

const (
	DefaultServiceName           = "account-webhooks"
	DefaultHTTPAddress           = ":8080"
	DefaultMaxBodyBytes          = int64(1 << 20)
	DefaultShutdownTimeoutSecond = 10
	DefaultSignatureHeader       = "X-Signature"
	DefaultEventIDHeader         = "X-Event-Id"
	DefaultDatabaseURL           = "file:account-webhooks.db?cache=shared&_foreign_keys=on"
)

type ServerConfig struct {
	Address                string   `koanf:"address" mapstructure:"address" yaml:"address"`
	MaxBodyBytes           int64    `koanf:"max_body_bytes" mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	ShutdownTimeoutSeconds int      `koanf:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	AllowedOrigins         []string `koanf:"allowed_origins" mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL   string `koanf:"url" mapstructure:"url" yaml:"url"`
	Debug bool   `koanf:"debug" mapstructure:"debug" yaml:"debug"`
}

type WebhookConfig struct {
	Secret          string `koanf:"secret" mapstructure:"secret" yaml:"secret"`
	SignatureHeader string `koanf:"signature_header" mapstructure:"signature_header" yaml:"signature_header"`
	EventIDHeader   string `koanf:"event_id_header" mapstructure:"event_id_header" yaml:"event_id_header"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name" yaml:"service_name"`
	Server      ServerConfig   `koanf:"server" mapstructure:"server" yaml:"server"`
	Database    DatabaseConfig `koanf:"database" mapstructure:"database" yaml:"database"`
	Webhook     WebhookConfig  `koanf:"webhook" mapstructure:"webhook" yaml:"webhook"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: DefaultServiceName,
		Server: ServerConfig{
			Address:                DefaultHTTPAddress,
			MaxBodyBytes:           DefaultMaxBodyBytes,
			ShutdownTimeoutSeconds: DefaultShutdownTimeoutSecond,
		},
		Database: DatabaseConfig{
			URL: DefaultDatabaseURL,
		},
		Webhook: WebhookConfig{
			SignatureHeader: DefaultSignatureHeader,
			EventIDHeader:   DefaultEventIDHeader,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("core: database.url is required")
	}
	if strings.TrimSpace(c.Webhook.Secret) == "" {
		return fmt.Errorf("core: webhook.secret is required")
	}
	if strings.TrimSpace(c.Webhook.Secret) != c.Webhook.Secret {
		return fmt.Errorf("core: webhook.secret must not have leading or trailing whitespace")
	}
	if strings.TrimSpace(c.Webhook.SignatureHeader) == "" {
		return fmt.Errorf("core: webhook.signature_header is required")
	}
	if strings.TrimSpace(c.Webhook.EventIDHeader) == "" {
		return fmt.Errorf("core: webhook.event_id_header is required")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("core: server.max_body_bytes must be >= 0")
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("core: server.shutdown_timeout_seconds must be >= 0")
	}
	return nil
}
