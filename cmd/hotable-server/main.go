package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotable/internal/app"
	"hotable/internal/config"
	"hotable/internal/mqtt"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	config.LoadDotEnv()
	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stack, err := app.LoadStack(cfg.NLU)
	if err != nil {
		logger.Error("load corpus failed", "error", err)
		os.Exit(1)
	}
	logger.Info("nlu ready", "strategy", stack.Strategy, "tags", len(stack.Engine.Tags()), "restaurants", len(stack.Profiles))
	for pattern, tags := range stack.Engine.Index().Collisions() {
		logger.Warn("pattern registered under several intents, first wins", "pattern", pattern, "tags", tags)
	}

	repo, err := app.OpenRepository(ctx, cfg, stack, logger)
	if err != nil {
		logger.Error("open restaurant store failed", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	sessions, err := app.OpenSessions(ctx, cfg, logger)
	if err != nil {
		logger.Error("open session store failed", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	var hub *mqtt.Hub
	if cfg.MQTTBrokerURL != "" {
		hub = mqtt.NewHub(mqtt.HubConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, repo, logger)
		if err := hub.Start(ctx); err != nil {
			logger.Error("start mqtt hub failed", "error", err)
			os.Exit(1)
		}
		logger.Info("availability hub started", "broker", cfg.MQTTBrokerURL, "prefix", cfg.MQTTTopicPrefix)
	}

	srv := &server{
		stack:    stack,
		router:   stack.Router(repo, logger),
		repo:     repo,
		sessions: sessions,
		maxBody:  cfg.MaxBodyBytes,
		logger:   logger,
	}
	if hub != nil {
		srv.events = hub
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("hotable server started", "addr", cfg.HTTPAddr, "store", cfg.Store, "sessions", cfg.SessionBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
