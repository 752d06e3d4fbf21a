package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"khata/internal/core"
	"khata/internal/store"
)

// EventPublisher pushes ledger events to the message broker. The AMQP
// client satisfies it; tests swap in fakes.
type EventPublisher interface {
	PublishEntryAdded(ctx context.Context, e core.Entry) error
	PublishGoalAdded(ctx context.Context, g core.Goal) error
	Close() error
}

// LedgerService orchestrates ledger operations across the configured store
// and AMQP. IDs are positional (first record gets 1), so writes are
// serialized with a mutex to keep the load-append-save cycle atomic.
type LedgerService struct {
	store     store.Store
	publisher EventPublisher
	cleanup   func() error

	mu sync.Mutex
}

// NewLedgerService wires a store, an optional event publisher and an
// optional cleanup hook for the store's resources. Pass nil for publisher
// or cleanup when the deployment runs without them.
func NewLedgerService(st store.Store, publisher EventPublisher, cleanup func() error) *LedgerService {
	return &LedgerService{
		store:     st,
		publisher: publisher,
		cleanup:   cleanup,
	}
}

// AddEntry persists a new income or expense record and publishes an
// entry_added event. The stored entry with its assigned ID is returned.
func (s *LedgerService) AddEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	saved, err := s.appendEntry(ctx, e)
	if err != nil {
		return core.Entry{}, err
	}

	if err := s.publishEntryAdded(ctx, saved); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry_added event",
			"entry_id", saved.ID, "error", err)
		// Don't fail the request - entry is saved locally
	}

	return saved, nil
}

func (s *LedgerService) appendEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.LoadEntries(ctx)
	if err != nil {
		return core.Entry{}, fmt.Errorf("load entries: %w", err)
	}

	e.ID = len(entries) + 1
	if e.Date == "" {
		e.Date = time.Now().Format(core.DateLayout)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	entries = append(entries, e)
	if err := s.store.SaveEntries(ctx, entries); err != nil {
		return core.Entry{}, fmt.Errorf("save entries: %w", err)
	}

	return e, nil
}

// AddGoal persists a new savings goal and publishes a goal_added event.
func (s *LedgerService) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	saved, err := s.appendGoal(ctx, g)
	if err != nil {
		return core.Goal{}, err
	}

	if err := s.publishGoalAdded(ctx, saved); err != nil {
		slog.ErrorContext(ctx, "Failed to publish goal_added event",
			"goal_id", saved.ID, "error", err)
		// Don't fail the request - goal is saved locally
	}

	return saved, nil
}

func (s *LedgerService) appendGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := s.store.LoadGoals(ctx)
	if err != nil {
		return core.Goal{}, fmt.Errorf("load goals: %w", err)
	}

	g.ID = len(goals) + 1
	g.Status = core.GoalStatusActive
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	goals = append(goals, g)
	if err := s.store.SaveGoals(ctx, goals); err != nil {
		return core.Goal{}, fmt.Errorf("save goals: %w", err)
	}

	return g, nil
}

// Entries returns every stored entry in insertion order.
func (s *LedgerService) Entries(ctx context.Context) ([]core.Entry, error) {
	return s.store.LoadEntries(ctx)
}

// RecentEntries returns the newest n entries, oldest first.
func (s *LedgerService) RecentEntries(ctx context.Context, n int) ([]core.Entry, error) {
	entries, err := s.store.LoadEntries(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// Goals returns every stored goal in insertion order.
func (s *LedgerService) Goals(ctx context.Context) ([]core.Goal, error) {
	return s.store.LoadGoals(ctx)
}

// Snapshot loads entries and goals together. The two files are independent,
// so the loads run concurrently.
func (s *LedgerService) Snapshot(ctx context.Context) ([]core.Entry, []core.Goal, error) {
	var (
		entries []core.Entry
		goals   []core.Goal
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.store.LoadEntries(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.LoadGoals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return entries, goals, nil
}

func (s *LedgerService) publishEntryAdded(ctx context.Context, e core.Entry) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping entry_added event")
		return nil
	}

	return s.publisher.PublishEntryAdded(ctx, e)
}

func (s *LedgerService) publishGoalAdded(ctx context.Context, g core.Goal) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping goal_added event")
		return nil
	}

	return s.publisher.PublishGoalAdded(ctx, g)
}

// Close releases the store's resources and the AMQP connection.
func (s *LedgerService) Close() error {
	var errs []error

	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
