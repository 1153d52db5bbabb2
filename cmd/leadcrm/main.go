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

	"github.com/abdulwasay100/leadcrm/internal/ai"
	"github.com/abdulwasay100/leadcrm/internal/api"
	"github.com/abdulwasay100/leadcrm/internal/config"
	"github.com/abdulwasay100/leadcrm/internal/crm"
	"github.com/abdulwasay100/leadcrm/internal/database"
	"github.com/abdulwasay100/leadcrm/internal/memstore"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	"github.com/abdulwasay100/leadcrm/internal/queue"
	"github.com/abdulwasay100/leadcrm/internal/ratelimit"
	"github.com/abdulwasay100/leadcrm/internal/repository"
	"github.com/abdulwasay100/leadcrm/internal/scheduler"
	"github.com/abdulwasay100/leadcrm/internal/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Create context cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("leadcrm stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	stores, pinger, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	var tgAPI *tgbotapi.BotAPI
	var publishers []notify.Publisher
	if cfg.TelegramToken != "" {
		tgAPI, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("failed to create telegram client: %w", err)
		}
		if cfg.TelegramChatID != 0 {
			publishers = append(publishers, telegram.NewForwarder(tgAPI, cfg.TelegramChatID))
		}
	} else {
		logger.Info("telegram not configured, admin bot and forwarding disabled")
	}

	if cfg.AMQPURL != "" {
		pub, err := queue.Dial(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer func() { _ = pub.Close() }()
		publishers = append(publishers, pub)
		logger.Info("publishing notifications to RabbitMQ", zap.String("queue", cfg.AMQPQueue))
	}

	svc := crm.New(stores, logger, publishers...)

	// Initialize AI client (optional)
	var parser api.LeadParser
	if cfg.AIAPIKey != "" {
		parser = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		logger.Info("AI lead parsing enabled", zap.String("model", cfg.AIModel))
	}

	sched := scheduler.New(svc, cfg.ScanInterval, cfg.ReportHour, logger)
	if cfg.ScanInterval > 0 {
		svc.SetTrigger(sched)
	}
	go sched.Start(ctx)

	if tgAPI != nil {
		bot := telegram.New(tgAPI, cfg.TelegramChatID, svc, logger)
		go func() {
			if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("telegram bot stopped", zap.Error(err))
			}
		}()
	}

	handler := api.NewHandler(svc, parser, pinger, logger)
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		handler.Limiter = ratelimit.New(rdb, cfg.RateLimit, time.Minute)
		logger.Info("intake rate limiting enabled", zap.Int("per_minute", cfg.RateLimit))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// openStores connects to Postgres, or falls back to memory when DATABASE_URI is unset.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (crm.Stores, api.Pinger, func(), error) {
	if cfg.DatabaseURI == "" {
		logger.Warn("DATABASE_URI not set, using in-memory stores; data is lost on exit")
		mem := memstore.New()
		return crm.Stores{
			Leads:         mem.Leads(),
			Groups:        mem.Groups(),
			Reminders:     mem.Reminders(),
			Notifications: mem.Notifications(),
		}, nil, func() {}, nil
	}

	db, err := database.New(ctx, cfg.DatabaseURI, logger)
	if err != nil {
		return crm.Stores{}, nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return crm.Stores{}, nil, nil, err
	}
	return crm.Stores{
		Leads:         repository.NewLeadRepository(db),
		Groups:        repository.NewGroupRepository(db),
		Reminders:     repository.NewReminderRepository(db),
		Notifications: repository.NewNotificationRepository(db),
	}, db, db.Close, nil
}
