package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	accountwebhooks "github.com/goliatone/go-account-webhooks"
	"github.com/goliatone/go-account-webhooks/adapters/gocommand"
	"github.com/goliatone/go-account-webhooks/adapters/gologger"
	"github.com/goliatone/go-account-webhooks/adapters/prometheus"
	"github.com/goliatone/go-account-webhooks/core"
	"github.com/goliatone/go-account-webhooks/migrations"
	sqlstore "github.com/goliatone/go-account-webhooks/store/sql"
	"github.com/goliatone/go-account-webhooks/transport/httpapi"
)

const envLogLevel = "LOG_LEVEL"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "account-webhooks: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	level, err := gologger.ParseLevel(os.Getenv(envLogLevel))
	if err != nil {
		return err
	}
	loggers := gologger.NewSlogProvider(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	logger := loggers.GetLogger("account-webhooks.main")

	configProvider := core.NewCfgxConfigProvider(core.ChainLoader{
		core.YAMLFileLoader{Path: os.Getenv(core.EnvConfigFile)},
		core.EnvLoader{Lookup: os.LookupEnv},
	})
	defaults := core.DefaultConfig()
	loaded, err := configProvider.Load(ctx, defaults)
	if err != nil {
		return err
	}
	cfg, err := core.GoOptionsResolver{}.Resolve(defaults, loaded, core.Config{})
	if err != nil {
		return err
	}

	client, dialect, err := sqlstore.OpenPersistenceClient(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("close database", "error", closeErr)
		}
	}()
	if err := migrations.Apply(ctx, client, dialect); err != nil {
		return err
	}

	recorder := prometheus.NewRecorder(prometheus.WithProcessCollectors())

	svc, err := accountwebhooks.NewService(cfg,
		core.WithConfigProvider(configProvider),
		core.WithLoggerProvider(loggers),
		core.WithMetricsRecorder(recorder),
		core.WithPersistenceClient(client),
		core.WithRepositoryFactory(sqlstore.NewRepositoryFactory()),
	)
	if err != nil {
		return err
	}

	facade, err := accountwebhooks.NewFacade(svc)
	if err != nil {
		return err
	}
	subscriptions, err := facade.Register(gocommand.NewRegistryAdapter(nil))
	if err != nil {
		return err
	}
	defer subscriptions.Unsubscribe()

	processor, err := facade.WebhookProcessor(cfg.Webhook)
	if err != nil {
		return err
	}

	api, err := httpapi.NewServer(httpapi.Config{
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, httpapi.Handlers{
		CreateAccount: facade.Commands().CreateAccount,
		GetAccount:    facade.Queries().GetAccount,
		GetEvent:      facade.Queries().GetEvent,
		Webhooks:      processor,
	},
		httpapi.WithPinger(client.DB()),
		httpapi.WithMetricsHandler(recorder.Handler()),
		httpapi.WithLogger(loggers.GetLogger("account-webhooks.http")),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "address", cfg.Server.Address, "dialect", dialect)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
