package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvDatabaseURL            = "DATABASE_URL"
	EnvDatabaseDebug          = "DATABASE_DEBUG"
	EnvWebhookSecret          = "WEBHOOK_SECRET"
	EnvHTTPAddress            = "HTTP_ADDRESS"
	EnvHTTPMaxBodyBytes       = "HTTP_MAX_BODY_BYTES"
	EnvHTTPShutdownTimeoutSec = "HTTP_SHUTDOWN_TIMEOUT_SECONDS"
	EnvHTTPAllowedOrigins     = "HTTP_ALLOWED_ORIGINS"
	EnvConfigFile             = "CONFIG_FILE"
)

// EnvLoader reads the process environment into the raw config shape. Unset
// variables are omitted so lower layers keep their values.
type EnvLoader struct {
	Lookup func(key string) (string, bool)
}

func (l EnvLoader) LoadRaw(context.Context) (map[string]any, error) {
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		if !ok {
			return "", false
		}
		value = strings.TrimSpace(value)
		return value, value != ""
	}

	raw := map[string]any{}
	server := map[string]any{}
	database := map[string]any{}
	webhook := map[string]any{}

	if value, ok := get(EnvHTTPAddress); ok {
		server["address"] = value
	}
	if value, ok := get(EnvHTTPMaxBodyBytes); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("core: parse %s: %w", EnvHTTPMaxBodyBytes, err)
		}
		server["max_body_bytes"] = parsed
	}
	if value, ok := get(EnvHTTPShutdownTimeoutSec); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("core: parse %s: %w", EnvHTTPShutdownTimeoutSec, err)
		}
		server["shutdown_timeout_seconds"] = parsed
	}
	if value, ok := get(EnvHTTPAllowedOrigins); ok {
		origins := splitList(value)
		if len(origins) > 0 {
			server["allowed_origins"] = origins
		}
	}
	if value, ok := get(EnvDatabaseURL); ok {
		database["url"] = value
	}
	if value, ok := get(EnvDatabaseDebug); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("core: parse %s: %w", EnvDatabaseDebug, err)
		}
		database["debug"] = parsed
	}
	if value, ok := lookup(EnvWebhookSecret); ok && strings.TrimSpace(value) != "" {
		webhook["secret"] = value
	}

	if len(server) > 0 {
		raw["server"] = server
	}
	if len(database) > 0 {
		raw["database"] = database
	}
	if len(webhook) > 0 {
		raw["webhook"] = webhook
	}
	return raw, nil
}

// YAMLFileLoader reads a YAML document shaped like Config. A missing file
// yields an empty layer unless Required is set.
type YAMLFileLoader struct {
	Path     string
	Required bool
}

func (l YAMLFileLoader) LoadRaw(context.Context) (map[string]any, error) {
	path := strings.TrimSpace(l.Path)
	if path == "" {
		return map[string]any{}, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !l.Required {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("core: read config file %q: %w", path, err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("core: parse config file %q: %w", path, err)
	}
	return raw, nil
}

// ChainLoader merges loaders in order; later loaders win key by key.
type ChainLoader []RawConfigLoader

func (c ChainLoader) LoadRaw(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	for _, loader := range c {
		if loader == nil {
			continue
		}
		raw, err := loader.LoadRaw(ctx)
		if err != nil {
			return nil, err
		}
		mergeRaw(out, raw)
	}
	return out, nil
}

func mergeRaw(dst map[string]any, src map[string]any) {
	for key, value := range src {
		incoming, incomingIsMap := value.(map[string]any)
		existing, existingIsMap := dst[key].(map[string]any)
		if incomingIsMap && existingIsMap {
			mergeRaw(existing, incoming)
			continue
		}
		if incomingIsMap {
			copied := map[string]any{}
			mergeRaw(copied, incoming)
			dst[key] = copied
			continue
		}
		dst[key] = value
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
