package advice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"khata/internal/cache"
)

// DefaultTimeout bounds the external call when the config carries none.
const DefaultTimeout = 5 * time.Second

// Generator wraps a TextAdvisor with a bounded timeout and a cache keyed on
// the snapshot. Advice is best effort: the generator never fails, it
// degrades to Fallback.
type Generator struct {
	advisor TextAdvisor
	cache   cache.Cache[string]
	timeout time.Duration
}

// NewGenerator wires an optional advisor and an optional cache. Pass nil for
// either to run fallback-only or uncached.
func NewGenerator(advisor TextAdvisor, c cache.Cache[string], timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{
		advisor: advisor,
		cache:   c,
		timeout: timeout,
	}
}

// Advice returns guidance text for the snapshot. External failures and
// timeouts are logged and swallowed, never surfaced to the caller.
func (g *Generator) Advice(ctx context.Context, snap Snapshot) string {
	if g.advisor == nil {
		return Fallback(snap)
	}

	key := snapshotKey(snap)
	if g.cache != nil {
		if text, ok := g.cache.Get(key); ok {
			return text
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.advisor.Generate(callCtx, snap)
	if err != nil {
		slog.WarnContext(ctx, "External advice unavailable, using fallback", "error", err)
		return Fallback(snap)
	}
	if text == "" {
		return Fallback(snap)
	}

	if g.cache != nil {
		g.cache.Set(key, text)
	}

	return text
}

// snapshotKey fingerprints the inputs the prompt is built from. Two
// snapshots with the same key produce the same prompt.
func snapshotKey(snap Snapshot) string {
	return fmt.Sprintf("%.2f|%.2f|%s", snap.Income, snap.Expense, GoalsText(snap.Goals))
}
