// Package http exposes the ledger over a JSON API plus the embedded
// single-page UI. Handlers stay thin: validation of the loosely typed
// request bodies happens here, everything else is delegated to the
// ledger service and the core package.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"khata/internal/advice"
	"khata/internal/log"
	"khata/internal/middleware/ratelimit"
	"khata/internal/middleware/security"
	"khata/internal/services"
	appweb "khata/web"
)

// recentEntryLimit caps how many entries the list endpoint returns.
const recentEntryLimit = 50

// Options carries the HTTP-facing knobs from application configuration.
type Options struct {
	// CORSAllowOrigins is a comma separated origin list; "*" allows all.
	CORSAllowOrigins string
	// RateLimitPerMinute bounds POST traffic per client IP.
	RateLimitPerMinute int
}

// Server wraps http.Server with the wired router and the background pieces
// that need stopping on shutdown.
type Server struct {
	http.Server

	ledger   *services.LedgerService
	advisor  *advice.Generator
	limiter  *ratelimit.Limiter
	detector *security.Detector
	logger   *log.Logger

	shutdownOnce sync.Once
}

// NewServer builds the router and returns a server bound to addr. Timeouts
// are left at their zero values for the caller to set.
func NewServer(addr string, ledger *services.LedgerService, advisor *advice.Generator, opts Options) *Server {
	s := &Server{
		ledger:   ledger,
		advisor:  advisor,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		logger:   log.New(log.Config{Component: log.ComponentHTTP}),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestTracking())
	engine.Use(securityHeaders())
	engine.Use(s.detector.Middleware())
	engine.Use(cors.New(corsConfig(opts.CORSAllowOrigins)))
	engine.Use(s.limiter.Middleware())

	engine.GET("/", s.handleIndex)
	engine.GET("/healthz", handleHealth)
	engine.GET("/readyz", s.handleReady)

	engine.POST("/add-entry/", s.handleAddEntry)
	engine.POST("/add-goal/", s.handleAddGoal)
	engine.GET("/summary/", s.handleSummary)
	engine.GET("/notify/", s.handleNotify)
	engine.GET("/entries/", s.handleEntries)
	engine.GET("/export/", s.handleExport)

	s.Addr = addr
	s.Handler = engine

	return s
}

// corsConfig translates the comma separated origin list into the middleware
// configuration. Explicit origins also enable credentials; the wildcard
// never carries credentials.
func corsConfig(allowOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
	}

	origins := splitOrigins(allowOrigins)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// handleIndex serves the embedded single-page UI.
func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", appweb.Frontend)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleReady probes the backing store before reporting ready.
func (s *Server) handleReady(c *gin.Context) {
	if _, err := s.ledger.Entries(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Shutdown stops the limiter's background goroutine and drains in-flight
// requests. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
