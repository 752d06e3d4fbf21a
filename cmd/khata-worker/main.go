package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"khata/internal/amqp"
	"khata/internal/backend"
	"khata/internal/cli"
	"khata/internal/config"
	"khata/internal/log"
	"khata/internal/storage"
	"khata/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting khata-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// Archive database fed from the ledger event stream
	archiveRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer archiveRepo.Close()

	// AMQP client for consuming ledger events
	consumerClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer consumerClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	archiveWorker := worker.NewArchiveWorker(archiveRepo)

	go func() {
		handler := func(msg *amqp.LedgerEventMessage) error {
			return archiveWorker.HandleLedgerEvent(ctx, msg)
		}
		if err := consumerClient.ConsumeLedgerEvents(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Ledger event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// The reconciler republishes records the archive missed while the broker
	// was down. It publishes on its own connection so consume acks and
	// publish confirms never share a channel.
	reconciler := startReconciler(ctx, logger, cfg, archiveRepo)

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

	logger.Info("Shutting down worker...")
	if reconciler != nil && reconciler.IsRunning() {
		if err := reconciler.Stop(shutdownCtx); err != nil {
			logger.Error("Reconciler stop error", "error", err)
		}
	}
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}

// startReconciler wires the periodic archive reconciler, or returns nil when
// the configured backend cannot be read from a second process.
func startReconciler(ctx context.Context, logger *log.Logger, cfg *config.Config, archiveRepo *storage.SQLiteRepository) *worker.Reconciler {
	switch backend.BackendType(cfg.DataBackend) {
	case backend.MemoryBackend:
		logger.Info("Reconciler disabled - memory backend is process-local")
		return nil
	case backend.SQLiteBackend:
		logger.Info("Reconciler disabled - sqlite backend shares the archive database")
		return nil
	case backend.BoltBackend:
		logger.Info("Reconciler disabled - bolt backend holds an exclusive file lock")
		return nil
	}

	publisherClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize reconciler AMQP client, continuing without reconciliation", "error", err)
		return nil
	}

	result := cli.InitBackend(ctx, logger, cfg)

	reconcilerConfig := worker.DefaultReconcilerConfig()
	reconcilerConfig.Interval = cfg.ReconcileInterval

	reconciler := worker.NewReconciler(result.Backend, archiveRepo, publisherClient, reconcilerConfig)
	if err := reconciler.Start(ctx); err != nil {
		logger.Error("Failed to start reconciler", "error", err)
		_ = publisherClient.Close()
		return nil
	}

	logger.Info("Reconciler started", "interval", cfg.ReconcileInterval)
	return reconciler
}
