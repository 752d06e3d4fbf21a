// Package security flags request patterns a personal ledger API should
// never see. Detection is log-only: flagged requests are counted and still
// served.
package security

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"khata/internal/log"
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
}

// probePatterns are matched against the lowercased path and query string.
var probePatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

// scannerAgents match user agents of common scanning tools.
var scannerAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb", "scanner",
}

// unusualMethods are verbs no registered route serves.
var unusualMethods = []string{http.MethodTrace, http.MethodConnect, "TRACK", "DEBUG"}

const maxURLLength = 2048

// Detector handles suspicious request detection
type Detector struct {
	metrics *DetectionMetrics
}

// NewDetector creates a new security detector
func NewDetector() *Detector {
	return &Detector{
		metrics: &DetectionMetrics{},
	}
}

// Inspect reports whether the request looks like a probe and why.
func (d *Detector) Inspect(r *http.Request) (string, bool) {
	reason := inspect(r)
	if reason == "" {
		return "", false
	}
	atomic.AddInt64(&d.metrics.SuspiciousRequests, 1)
	return reason, true
}

func inspect(r *http.Request) string {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, pattern := range probePatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			return "probe pattern: " + pattern
		}
	}

	agent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, pattern := range scannerAgents {
		if strings.Contains(agent, pattern) {
			return "scanner user agent: " + pattern
		}
	}

	for _, method := range unusualMethods {
		if r.Method == method {
			return "unusual method: " + method
		}
	}

	if len(r.URL.String()) > maxURLLength {
		return "oversized URL"
	}

	// More than 5 proxy hops suggests header manipulation
	if xff := r.Header.Get("X-Forwarded-For"); strings.Count(xff, ",") > 5 {
		return "forwarded header manipulation"
	}

	return ""
}

// Middleware logs flagged requests and lets them through.
func (d *Detector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if reason, ok := d.Inspect(c.Request); ok {
			ctx := c.Request.Context()
			log.FromContext(ctx).WarnContext(ctx, "Suspicious request detected",
				"reason", reason,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
		}
		c.Next()
	}
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: atomic.LoadInt64(&d.metrics.SuspiciousRequests),
	}
}
