package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/pantry/internal/app"
	"github.com/alexanderramin/pantry/internal/auth"
	"github.com/alexanderramin/pantry/internal/cli"
	"github.com/alexanderramin/pantry/internal/config"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/logging"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domain.Message(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	database, err := db.OpenDB(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	store, err := app.OpenBlobStore(ctx, cfg.Blob)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := service.NewMetricsUseCaseObserver(registry)
	if err != nil {
		return fmt.Errorf("registering use-case metrics: %w", err)
	}
	observer := service.NewMultiUseCaseObserver(service.NewSlogUseCaseObserver(logger), metrics)

	var verifier *auth.Verifier
	if cfg.Auth.JWTSecret != "" {
		verifier, err = auth.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return err
		}
	}

	// A configured token takes precedence over the static user id.
	var session auth.Source = auth.StaticSource{UserID: cfg.Auth.UserID, Email: cfg.Auth.Email}
	if cfg.Auth.Token != "" {
		if verifier == nil {
			return fmt.Errorf("PANTRY_TOKEN is set but no JWT secret is configured")
		}
		session = auth.TokenSource{Verifier: verifier, Token: cfg.Auth.Token}
	}

	logger.Debug("pantry starting",
		"database", database.Dialect,
		"blob_driver", store.Driver(),
	)

	a := &cli.App{
		Services: app.NewServices(database, store, observer),
		Session:  session,
		Verifier: verifier,
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
	}
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}
