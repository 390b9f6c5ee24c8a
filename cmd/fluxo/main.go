package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fluxo/internal/api"
	"fluxo/internal/charts"
	"fluxo/internal/config"
	"fluxo/internal/draft"
	applog "fluxo/internal/log"
	"fluxo/internal/manager"
	"fluxo/internal/modal"
	"fluxo/internal/notify"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := applog.New(applog.Config{
		Level:     logLevel(cfg.LogLevel),
		Component: "fluxo",
	})
	applog.SetDefault(logger)

	drafts, err := draft.NewStore(cfg.DraftDBPath)
	if err != nil {
		logger.Error("Failed to open draft store", applog.FieldError, err)
		os.Exit(1)
	}
	defer drafts.Close()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	client := api.NewClient(cfg.ServerURL,
		api.WithHTTPClient(httpClient),
		api.WithTokenSource(api.NewPageTokenSource(httpClient, cfg.ServerURL+cfg.TokenPagePath)),
		api.WithLogger(logger.WithComponent("api")),
	)

	notifier := notify.New()
	notifier.Subscribe(func(n notify.Notification) {
		logger.Info("Notification", "level", string(n.Level), "message", n.Message)
	})

	mgr := manager.New(client,
		manager.WithReferenceTTL(cfg.ReferenceTTL),
		manager.WithDebounceInterval(cfg.DebounceInterval),
		manager.WithNotifier(notifier),
		manager.WithDraftStore(drafts),
		manager.WithLogger(logger.WithComponent("manager")),
	)

	quick := modal.New(mgr, modal.Hooks{}, logger.WithComponent("modal"))
	chartMgr := charts.NewManager(logger.WithComponent("charts"))

	// Every successful submission invalidates whatever dashboards the
	// host page has mounted.
	mgr.Events().Subscribe(manager.EventTransactionCreated, func(any) {
		logger.Info("Dashboard refresh queued", "charts", chartMgr.Count())
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	if err := mgr.LoadReferenceData(loadCtx); err != nil {
		logger.Error("Reference data load failed", applog.FieldError, err)
	}
	loadCancel()

	// Restore whatever the user was typing before the last reload.
	if form, err := drafts.Load(ctx); err == nil {
		*quick.Form() = form
		logger.Info("Draft restored", "description", form.Description)
	} else if !errors.Is(err, draft.ErrNoDraft) {
		logger.Warn("Draft restore failed", applog.FieldError, err)
	}

	logger.Info("Client ready", "server", cfg.ServerURL)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	mgr.CancelSearch()
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
