package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/allowance-ledger/pkg/config"
	"github.com/chris/allowance-ledger/pkg/handlers"
	"github.com/chris/allowance-ledger/pkg/logging"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/scheduler"
	"github.com/chris/allowance-ledger/pkg/storage"
	dydbstore "github.com/chris/allowance-ledger/pkg/storage/dynamodb"
	"github.com/chris/allowance-ledger/pkg/storage/memory"
	"github.com/chris/allowance-ledger/pkg/websockets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.RequireTable(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store = memory.New()
	default:
		store, err = dydbstore.Connect(ctx, cfg.TableName, cfg.DynamoDBEndpoint)
		if err != nil {
			log.Fatalf("unable to create DynamoDB store: %v", err)
		}
	}

	// Deployed clients listen through API Gateway; local clients connect to /ws?userId= on this server.
	hub := websockets.NewHub(logger)
	var publisher websockets.Publisher = hub
	if cfg.WebSocketEndpoint != "" {
		publisher, err = websockets.NewPublisher(ctx, store, cfg.WebSocketEndpoint, logger)
		if err != nil {
			log.Fatalf("unable to create websocket publisher: %v", err)
		}
	}

	service := rewards.NewService(store, logger)
	service.OnBalanceChange = func(ctx context.Context, entry *models.BalanceLog) {
		websockets.PublishBalanceChange(ctx, publisher, logger, entry)
	}

	trigger, err := scheduler.NewTrigger(cfg.ResetTime, cfg.ResetWindow, cfg.ResetLocation)
	if err != nil {
		log.Fatalf("invalid reset trigger: %v", err)
	}
	sched := scheduler.New(service, trigger, cfg.SchedulerInterval, logger)
	if cfg.SchedulerEnabled {
		go sched.Run(ctx)
	}

	router := handlers.NewRouter(handlers.Deps{
		Service:        service,
		Catalog:        store,
		Cron:           sched,
		Hub:            hub,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort, "storage", cfg.StorageDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
