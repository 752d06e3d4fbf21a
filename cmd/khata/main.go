package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"khata/internal/advice"
	"khata/internal/advice/gemini"
	"khata/internal/cache"
	"khata/internal/cli"
	"khata/internal/config"
	apphttp "khata/internal/http"
	"khata/internal/log"
	"khata/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := cli.InitBackend(ctx, logger, cfg)
	publisher := cli.InitPublisher(logger, cfg)
	ledger := services.NewLedgerService(result.Backend, publisher, result.Cleanup)

	cacheManager := cache.NewManager()
	advisor, adviceCache := initAdvisor(ctx, logger, cfg)
	cacheManager.Register(adviceCache)
	cacheManager.StartCleanup(10 * time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, advisor, apphttp.Options{
		CORSAllowOrigins:   cfg.CORSAllowOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if err := ledger.Close(); err != nil {
			logger.Error("Ledger close error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting khata server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// initAdvisor wires the Gemini advisor behind the caching generator.
// Without an API key, or when Gemini init fails, the generator serves
// rule-based fallback advice only.
func initAdvisor(ctx context.Context, logger *log.Logger, cfg *config.Config) (*advice.Generator, *cache.LRUCache[string]) {
	adviceCache := cache.NewLRUCache[string](128, 10*time.Minute)

	if cfg.GoogleAPIKey == "" {
		logger.Info("Gemini disabled - serving rule-based advice only")
		return advice.NewGenerator(nil, adviceCache, cfg.AdviceTimeout), adviceCache
	}

	gem, err := gemini.New(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("Failed to initialize Gemini advisor, serving rule-based advice only", "error", err)
		return advice.NewGenerator(nil, adviceCache, cfg.AdviceTimeout), adviceCache
	}

	logger.Info("Gemini advisor initialized", "model", cfg.GeminiModel)
	return advice.NewGenerator(gem, adviceCache, cfg.AdviceTimeout), adviceCache
}
