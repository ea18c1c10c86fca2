package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"healthguard-backend/internal/chat"
	"healthguard-backend/internal/config"
	"healthguard-backend/internal/database"
	"healthguard-backend/internal/handlers"
	"healthguard-backend/internal/metrics"
	"healthguard-backend/internal/repository"
	"healthguard-backend/internal/router"
	"healthguard-backend/internal/services"
	"healthguard-backend/internal/websocket"
	"healthguard-backend/internal/worker"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration invalid: %v", err)
	}

	base, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer base.Sync()
	logger := base.Sugar()
	logger.Infow("🚀 Starting HealthGuard Backend...", "env", cfg.Env, "provider", cfg.Provider)

	ctx := context.Background()

	// ──── Step 2: Initialize Response Provider ────
	provider, err := services.NewProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("✗ Provider initialization failed", "provider", cfg.Provider, "error", err)
	}
	defer services.CloseProvider(provider)
	logger.Infow("✓ Response provider initialized", "provider", cfg.Provider, "timeout", cfg.ProviderTimeout)

	// ──── Step 3: Initialize Redis Clients (optional) ────
	var (
		previews repository.PreviewRepo
		purger   worker.Purger
		pubsub   *redis.Client
		redisOK  func(context.Context) error
	)
	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatalw("✗ Redis connection failed", "error", err)
		}
		defer redisClients.Close()
		pubsub = redisClients.PubSub
		redisOK = redisClients.Ping
		previews = repository.NewRedisPreviewRepo(redisClients.Store, cfg.PreviewTTL)
		logger.Infow("✓ Redis connected")
	} else {
		mem := repository.NewMemoryPreviewRepo(cfg.PreviewTTL)
		previews = mem
		purger = mem
		logger.Infow("✓ Using in-memory preview storage")
	}

	// ──── Step 4: Initialize Metrics ────
	m := metrics.New()

	// ──── Step 5: Start WebSocket Hub and Session Manager ────
	var sessions *chat.Manager
	validateSession := func(id uuid.UUID) error {
		_, err := sessions.Get(id)
		return err
	}

	hub := websocket.NewHub(pubsub, validateSession, logger)
	logger.Infow("✓ WebSocket hub started", "pubsub", pubsub != nil)

	sessions = chat.NewManager(provider, logger, chat.ManagerConfig{
		SeedWelcome: cfg.SeedWelcome,
		Publisher:   hub,
		Recorder:    m,
	})
	m.RegisterSessions(sessions.Len)

	// ──── Step 6: Start Session Sweeper ────
	sweeper, err := worker.NewSweeper(sessions, worker.SweeperConfig{
		Cron:     cfg.SessionSweepCron,
		IdleTTL:  cfg.SessionIdleTTL,
		Previews: purger,
		Recorder: m,
	}, logger)
	if err != nil {
		logger.Fatalw("✗ Session sweeper initialization failed", "error", err)
	}
	sweeper.Start()

	// ──── Step 7: Start HTTP Server ────
	meta := handlers.NewMetaHandler(cfg.Provider, cfg.MaxUploadSize)
	if redisOK != nil {
		meta.AddCheck("redis", redisOK)
	}

	r := router.New(router.Deps{
		Chat:        handlers.NewChatHandler(sessions, previews, cfg.MaxUploadSize, logger),
		Meta:        meta,
		WebSocket:   hub.HandleWebSocket,
		Metrics:     m.Handler(),
		FrontendURL: cfg.FrontendURL,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Infow("Shutting down...")
		sweeper.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("HTTP server shutdown failed", "error", err)
		}
		hub.Close()
		sessions.CloseAll()
	}()

	logger.Infof("✓ HealthGuard Backend ready on http://localhost:%s", cfg.Port)
	logger.Infof("  API: http://localhost:%s/api/v1", cfg.Port)
	logger.Infof("  WS:  ws://localhost:%s/api/v1/ws?session=<id>", cfg.Port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Server error", "error", err)
	}
	<-shutdownDone
}
