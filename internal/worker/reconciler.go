package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"khata/internal/amqp"
	"khata/internal/storage"
	"khata/internal/store"
)

// EventRepublisher replays ledger events into the broker. The AMQP client
// satisfies it; tests swap in fakes.
type EventRepublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// ReconcilerConfig holds configuration for the reconciler
type ReconcilerConfig struct {
	// Interval is how often to compare the store against the archive (default: 30s)
	Interval time.Duration
}

// DefaultReconcilerConfig returns sensible defaults
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		Interval: 30 * time.Second,
	}
}

// Reconciler is the backup mechanism for lost events. Records are numbered
// from 1 in insertion order and archive writes are keyed by that ID, so
// whenever the primary store holds more records than the archive, the tail
// beyond the archived count is exactly what went missing. Those records are
// republished through the normal pipeline rather than written directly,
// keeping the archive worker the only SQLite writer.
type Reconciler struct {
	store     store.Store
	archive   *storage.SQLiteRepository
	publisher EventRepublisher
	config    ReconcilerConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewReconciler creates a new reconciler
func NewReconciler(st store.Store, archive *storage.SQLiteRepository, publisher EventRepublisher, config ReconcilerConfig) *Reconciler {
	if config.Interval <= 0 {
		config = DefaultReconcilerConfig()
	}
	return &Reconciler{
		store:     st,
		archive:   archive,
		publisher: publisher,
		config:    config,
	}
}

// Start begins the reconcile loop. Returns an error if already running.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("reconciler is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx)

	slog.InfoContext(ctx, "Reconciler started", "interval", r.config.Interval)

	return nil
}

// Stop gracefully stops the reconciler and waits for completion.
func (r *Reconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	close(r.stopCh)

	select {
	case <-r.doneCh:
		slog.InfoContext(ctx, "Reconciler stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Reconciler stop timed out")
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	return nil
}

// IsRunning returns whether the reconciler is currently running
func (r *Reconciler) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// runLoop is the main reconcile loop
func (r *Reconciler) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	// Reconcile immediately on startup to recover from downtime
	if err := r.ReconcileOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup reconcile failed", "error", err)
	}

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.ReconcileOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Reconcile failed", "error", err)
			}
		}
	}
}

// ReconcileOnce compares both collections against the archive and
// republishes whatever the archive is missing.
func (r *Reconciler) ReconcileOnce(ctx context.Context) error {
	if err := r.reconcileEntries(ctx); err != nil {
		return err
	}
	return r.reconcileGoals(ctx)
}

func (r *Reconciler) reconcileEntries(ctx context.Context) error {
	entries, err := r.store.LoadEntries(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	archived, err := r.archive.CountEntries(ctx)
	if err != nil {
		return fmt.Errorf("count archived entries: %w", err)
	}

	if len(entries) <= archived {
		return nil
	}

	slog.InfoContext(ctx, "Found entries missing from the archive",
		"stored", len(entries),
		"archived", archived)

	republished := 0
	for _, e := range entries[archived:] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.publisher.PublishLedgerEvent(ctx, amqp.NewEntryAddedMessage(e)); err != nil {
			slog.ErrorContext(ctx, "Failed to republish entry", "entry_id", e.ID, "error", err)
			continue
		}
		republished++
	}

	slog.InfoContext(ctx, "Entry reconciliation completed",
		"missing", len(entries)-archived,
		"republished", republished)

	return nil
}

func (r *Reconciler) reconcileGoals(ctx context.Context) error {
	goals, err := r.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}

	archived, err := r.archive.CountGoals(ctx)
	if err != nil {
		return fmt.Errorf("count archived goals: %w", err)
	}

	if len(goals) <= archived {
		return nil
	}

	slog.InfoContext(ctx, "Found goals missing from the archive",
		"stored", len(goals),
		"archived", archived)

	republished := 0
	for _, g := range goals[archived:] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.publisher.PublishLedgerEvent(ctx, amqp.NewGoalAddedMessage(g)); err != nil {
			slog.ErrorContext(ctx, "Failed to republish goal", "goal_id", g.ID, "error", err)
			continue
		}
		republished++
	}

	slog.InfoContext(ctx, "Goal reconciliation completed",
		"missing", len(goals)-archived,
		"republished", republished)

	return nil
}
