package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"gwi.com/telegram-assistant/internal/api"
	"gwi.com/telegram-assistant/internal/bot"
	"gwi.com/telegram-assistant/internal/config"
	"gwi.com/telegram-assistant/internal/conversation"
	"gwi.com/telegram-assistant/internal/core"
	"gwi.com/telegram-assistant/internal/logger"
	"gwi.com/telegram-assistant/internal/report"
	"gwi.com/telegram-assistant/internal/store"
)

const (
	dayLayout          = "2006-01-02"
	quotaRetentionDays = 7
	quotaCleanupSpec   = "5 0 * * *"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(cfg.LogLevel)
	if err := cfg.ValidateBot(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	if err := tgbotapi.SetLogger(log); err != nil {
		log.WithError(err).Warn("Failed to set Telegram client logger")
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	dialogLog, err := store.NewDialogLog(cfg.DialogsDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize dialog log")
	}
	reportFiles, err := store.NewReportFiles(cfg.ReportsDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize reports directory")
	}
	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer dbStore.Close()

	history, closeHistory := newConversationStore(ctx, cfg, log)
	defer closeHistory()

	// LLM and image services
	llmService, err := core.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize LLM service")
	}
	defer llmService.Close()

	chatService := core.NewChatService(history, llmService, log)
	if cfg.ImageAPIKey == "" {
		log.Warn("NANOBANA_API_KEY is not set, image generation requests will fail")
	}
	imageService := core.NewImageService(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImageModel)

	// Telegram
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Telegram")
	}
	log.WithField("username", botAPI.Self.UserName).Info("Authorized on Telegram")

	assistantBot := bot.New(bot.Options{
		Messenger:   botAPI,
		Assistant:   chatService,
		Images:      imageService,
		Dialogs:     dialogLog,
		Reports:     reportFiles,
		Quota:       dbStore,
		ReportLimit: cfg.ReportDailyLimit,
		Logger:      log,
		Now:         now,
	})

	// Reports
	generator := report.NewGenerator(dialogLog, reportFiles, llmService, log, now)
	scheduler, err := report.NewScheduler(generator, assistantBot, cfg.AdminID, loc, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize report scheduler")
	}
	err = scheduler.AddJob(quotaCleanupSpec, "quota cleanup", func(ctx context.Context) error {
		cutoff := now().AddDate(0, 0, -quotaRetentionDays).Format(dayLayout)
		deleted, err := dbStore.DeleteReportRequestsBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		log.WithField("deleted", deleted).Info("Old report quotas removed")
		return nil
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to schedule quota cleanup")
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// Webhook and polled updates share one dispatcher so shutdown can drain both.
	webhookHandler := api.NewWebhookHandler(assistantBot, log, api.DefaultUpdateTimeout)

	if cfg.WebhookURL != "" {
		if err := registerWebhook(botAPI, cfg); err != nil {
			log.WithError(err).Fatal("Failed to register webhook")
		}
		log.Info("Webhook registered")
	} else {
		if _, err := botAPI.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.WithError(err).Fatal("Failed to delete webhook")
		}
		go poll(ctx, botAPI, webhookHandler, log)
	}

	// HTTP server: webhook endpoint and health checks
	router := api.NewRouter(webhookHandler, cfg.TelegramToken, cfg.WebhookSecret, log)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", serverAddr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatalf("Could not listen on %s", serverAddr)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	botAPI.StopReceivingUpdates()

	if err := webhookHandler.Wait(shutdownCtx); err != nil {
		log.WithError(err).Warn("Shutdown timed out with updates still in flight")
	}

	log.Info("Server exiting gracefully")
}

// newConversationStore uses Redis when REDIS_URL is set and process memory otherwise.
func newConversationStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (conversation.Store, func()) {
	if cfg.RedisURL == "" {
		return conversation.NewMemoryStore(cfg.ContextMaxTurns), func() {}
	}

	client, err := conversation.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	log.Info("Using Redis for conversation context")
	return conversation.NewRedisStore(client, cfg.ContextMaxTurns, 0), func() { client.Close() }
}

// registerWebhook points Telegram at WEBHOOK_URL/<token>. The secret token
// is passed as a raw parameter since WebhookConfig does not carry it.
func registerWebhook(botAPI *tgbotapi.BotAPI, cfg config.Config) error {
	params := tgbotapi.Params{"url": strings.TrimRight(cfg.WebhookURL, "/") + "/" + cfg.TelegramToken}
	if cfg.WebhookSecret != "" {
		params["secret_token"] = cfg.WebhookSecret
	}
	if _, err := botAPI.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("setWebhook failed: %w", err)
	}
	return nil
}

func poll(ctx context.Context, botAPI *tgbotapi.BotAPI, dispatcher *api.WebhookHandler, log *logrus.Logger) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := botAPI.GetUpdatesChan(u)

	log.Info("Starting long polling")
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// Replies in flight finish after ctx is cancelled; shutdown waits for them.
			dispatcher.Dispatch(context.WithoutCancel(ctx), update)
		}
	}
}
