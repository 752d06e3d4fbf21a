package main

import (
	"context"
	"fmt"
	"os"

	"khata/internal/cli"
	"khata/internal/log"
)

// khata-init prepares the configured data backend and the SQLite archive:
// it creates directories, runs migrations and verifies both are readable.
// Run it once before first start, or after changing DATA_BACKEND.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentBackend)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	result := cli.InitBackend(ctx, logger, cfg)

	entries, err := result.Backend.LoadEntries(ctx)
	if err != nil {
		logger.Error("Backend verification failed", "error", err)
		os.Exit(1)
	}
	goals, err := result.Backend.LoadGoals(ctx)
	if err != nil {
		logger.Error("Backend verification failed", "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}

	archive := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	archivedEntries, err := archive.CountEntries(ctx)
	if err != nil {
		logger.Error("Archive verification failed", "error", err)
		os.Exit(1)
	}
	archivedGoals, err := archive.CountGoals(ctx)
	if err != nil {
		logger.Error("Archive verification failed", "error", err)
		os.Exit(1)
	}
	if err := archive.Close(); err != nil {
		logger.Error("Archive close failed", "error", err)
	}

	fmt.Printf("Backend %q ready: %d entries, %d goals\n", cfg.DataBackend, len(entries), len(goals))
	fmt.Printf("Archive %q ready: %d entries, %d goals archived\n", cfg.SQLiteDBPath, archivedEntries, archivedGoals)
}
