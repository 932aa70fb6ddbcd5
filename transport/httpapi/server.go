package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	accountcommand "github.com/goliatone/go-account-webhooks/command"
	"github.com/goliatone/go-account-webhooks/core"
	accountquery "github.com/goliatone/go-account-webhooks/query"
	"github.com/goliatone/go-account-webhooks/webhooks"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	RouteAccounts      = "/accounts"
	RouteAccount       = "/accounts/{accountKey}"
	RouteWebhook       = "/webhooks/account-changes"
	RouteInboxEvent    = "/inbox/events/{eventId}"
	RouteHealth        = "/health"
	RouteMetrics       = "/metrics"
	defaultMaxBodySize = core.DefaultMaxBodyBytes
)

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Config struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// Handlers are the application entry points served over HTTP.
type Handlers struct {
	CreateAccount *accountcommand.CreateAccountCommand
	GetAccount    *accountquery.GetAccountQuery
	GetEvent      *accountquery.GetEventQuery
	Webhooks      *webhooks.Processor
}

type Server struct {
	config   Config
	handlers Handlers
	pinger   Pinger
	metrics  http.Handler
	logger   glog.Logger
}

type Option func(*Server)

func WithPinger(pinger Pinger) Option {
	return func(s *Server) {
		s.pinger = pinger
	}
}

func WithMetricsHandler(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

func WithLogger(logger glog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(cfg Config, handlers Handlers, opts ...Option) (*Server, error) {
	if handlers.CreateAccount == nil || handlers.GetAccount == nil ||
		handlers.GetEvent == nil || handlers.Webhooks == nil {
		return nil, fmt.Errorf("httpapi: account, event and webhook handlers are required")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodySize
	}
	server := &Server{config: cfg, handlers: handlers}
	for _, opt := range opts {
		if opt != nil {
			opt(server)
		}
	}
	server.logger = glog.Ensure(server.logger)
	return server, nil
}

// Routes builds the chi router for the public surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get(RouteHealth, s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, RouteMetrics, s.metrics)
	}

	r.Post(RouteWebhook, s.receiveWebhook)

	r.Group(func(r chi.Router) {
		if origins := cleanOrigins(s.config.AllowedOrigins); len(origins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: origins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		r.Post(RouteAccounts, s.createAccount)
		r.Get(RouteAccount, s.getAccount)
		r.Get(RouteInboxEvent, s.getEvent)
	})

	return r
}

func cleanOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
