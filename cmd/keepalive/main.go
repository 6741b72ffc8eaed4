package main

import (
	"context"
	"os/signal"
	"syscall"

	"gwi.com/telegram-assistant/internal/config"
	"gwi.com/telegram-assistant/internal/keepalive"
	"gwi.com/telegram-assistant/internal/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(cfg.LogLevel)

	pinger, err := keepalive.NewPinger(cfg.WebhookURL, cfg.KeepAliveInterval, log)
	if err != nil {
		log.WithError(err).Fatal("Cannot start keep-alive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pinger.Run(ctx)
}
