// Package worker holds the background pieces of the archive pipeline: the
// event handler that mirrors ledger records into SQLite, and the reconciler
// that replays records the pipeline missed.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"khata/internal/amqp"
	"khata/internal/storage"
)

// ArchiveWorker applies ledger events to the SQLite archive. Upserts are
// keyed by record ID, so redelivered events are harmless.
type ArchiveWorker struct {
	archive *storage.SQLiteRepository
}

func NewArchiveWorker(archive *storage.SQLiteRepository) *ArchiveWorker {
	return &ArchiveWorker{archive: archive}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
//
// Only archive write failures are returned, so the consumer redelivers
// them. Structurally bad events (unknown kind, missing payload) are logged
// and dropped; requeueing those would loop forever.
func (w *ArchiveWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event_id", msg.EventID,
		"kind", msg.Kind)

	switch msg.Kind {
	case amqp.EventEntryAdded:
		if msg.Entry == nil {
			slog.WarnContext(ctx, "Dropping entry_added event without entry payload",
				"event_id", msg.EventID)
			return nil
		}
		if err := w.archive.UpsertEntry(ctx, *msg.Entry); err != nil {
			return fmt.Errorf("archive entry %d: %w", msg.Entry.ID, err)
		}
		slog.InfoContext(ctx, "Archived entry",
			"event_id", msg.EventID,
			"entry_id", msg.Entry.ID,
			"type", msg.Entry.Type,
			"amount", msg.Entry.Amount)

	case amqp.EventGoalAdded:
		if msg.Goal == nil {
			slog.WarnContext(ctx, "Dropping goal_added event without goal payload",
				"event_id", msg.EventID)
			return nil
		}
		if err := w.archive.UpsertGoal(ctx, *msg.Goal); err != nil {
			return fmt.Errorf("archive goal %d: %w", msg.Goal.ID, err)
		}
		slog.InfoContext(ctx, "Archived goal",
			"event_id", msg.EventID,
			"goal_id", msg.Goal.ID,
			"target_amount", msg.Goal.TargetAmount)

	default:
		slog.WarnContext(ctx, "Dropping event with unknown kind",
			"event_id", msg.EventID,
			"kind", msg.Kind)
	}

	return nil
}
