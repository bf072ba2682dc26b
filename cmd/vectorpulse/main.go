package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rewired-gh/vectorpulse/internal/config"
	"github.com/rewired-gh/vectorpulse/internal/ingest"
	"github.com/rewired-gh/vectorpulse/internal/ledger"
	"github.com/rewired-gh/vectorpulse/internal/logger"
	"github.com/rewired-gh/vectorpulse/internal/scheduler"
	"github.com/rewired-gh/vectorpulse/internal/store"
	"github.com/rewired-gh/vectorpulse/internal/telegram"
	"github.com/rewired-gh/vectorpulse/internal/vector"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)
	if cfg.Vector.BearerToken == "" {
		logger.Warn("No bearer token configured, requests go out unauthenticated")
	}

	// Initialize the row store and restore the persisted snapshot
	st := store.New(cfg.Storage.FilePath, 0o644, 0o755)
	loaded, err := st.Load()
	if err != nil {
		logger.Fatal("Failed to load persisted broadcasts: %v", err)
	}
	logger.Info("Restored %d broadcasts from %s", loaded, cfg.Storage.FilePath)

	// Seed the dedup ledger from the store's keys
	led := ledger.New(st.IDs())

	// Initialize the vector.fun client
	client := vector.NewClient(
		cfg.Vector.Endpoint,
		cfg.Vector.YourProfileID,
		cfg.Vector.BearerToken,
		cfg.Vector.Timeout,
		vector.ClientConfig{
			MaxRetries:     cfg.Vector.MaxRetries,
			RetryDelayBase: cfg.Vector.RetryDelayBase,
		},
	)

	// Initialize Telegram client
	var telegramClient *telegram.Client
	if cfg.Telegram.Enabled {
		telegramClient, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Initialize the variance scheduler
	var notifier scheduler.Notifier
	if telegramClient != nil {
		notifier = telegramClient
	}
	sched := scheduler.New(
		scheduler.Config{
			Waits: [3]time.Duration{
				cfg.Scheduler.StageWaits[0],
				cfg.Scheduler.StageWaits[1],
				cfg.Scheduler.StageWaits[2],
			},
			WinThreshold: cfg.Scheduler.WinThreshold,
		},
		client, st, notifier,
	)

	// Initialize the orchestrator
	orch := ingest.New(
		ingest.Config{
			PollInterval: cfg.Ingest.PollInterval,
			PageSize:     cfg.Ingest.PageSize,
		},
		client, st, led, sched,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	logger.Info("Starting ingestion service (interval: %v, page_size: %d, stage_waits: %v, win_threshold: %.1f%%)",
		cfg.Ingest.PollInterval,
		cfg.Ingest.PageSize,
		cfg.Scheduler.StageWaits,
		cfg.Scheduler.WinThreshold,
	)

	consecutiveFailures := 0
	handleCycleResult := func(err error) {
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures == 1 && telegramClient != nil {
				if sendErr := telegramClient.SendError(err); sendErr != nil {
					logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
				}
			}
		} else {
			if consecutiveFailures > 0 && telegramClient != nil {
				if sendErr := telegramClient.SendRecovery(consecutiveFailures); sendErr != nil {
					logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
				}
			}
			consecutiveFailures = 0
		}
	}

	orch.Run(ctx, handleCycleResult)

	// Let in-flight variance tasks finish their current stage, then stop the
	// store writer so the final snapshot is complete.
	logger.Info("Draining in-flight variance tasks...")
	sched.Drain()
	st.Close()
	logger.Info("Service stopped")
}
