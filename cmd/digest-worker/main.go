package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"khata/internal/cli"
	"khata/internal/log"
	"khata/internal/notify"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentDigest)
	logger.Info("Starting digest-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	notifier, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		logger.Error("Failed to initialize Telegram notifier", "error", err)
		os.Exit(1)
	}
	logger.Info("Telegram notifier initialized", "chat_id", cfg.TelegramChatID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	digestWorker := notify.NewDigestWorker(result.Backend, notifier)

	// Deliver one digest on startup so a restart still reports today
	logger.Info("Sending startup digest...")
	if err := digestWorker.SendOnce(ctx); err != nil {
		logger.Error("Startup digest failed", "error", err)
	}

	go digestWorker.Run(ctx, cfg.DigestInterval)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down digest-worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(2 * time.Second):
		logger.Info("Digest-worker shutdown complete")
	}
}
