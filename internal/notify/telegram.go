// Package notify delivers the daily digest outside the HTTP API, currently
// to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"khata/internal/core"
	"khata/internal/store"
)

// DigestSender delivers one digest line. The Telegram notifier satisfies
// it; tests swap in fakes.
type DigestSender interface {
	Send(text string) error
}

// TelegramNotifier sends messages to a single configured chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authenticates against the Telegram bot API.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("missing Telegram bot token")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("missing Telegram chat ID")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	api.Debug = false

	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// Send delivers one message to the configured chat.
func (n *TelegramNotifier) Send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// DigestWorker periodically computes the daily digest and hands it to the
// sender.
type DigestWorker struct {
	store  store.Store
	sender DigestSender
}

func NewDigestWorker(st store.Store, sender DigestSender) *DigestWorker {
	return &DigestWorker{store: st, sender: sender}
}

// Run delivers a digest every interval until the context is cancelled.
// Delivery failures are logged and retried on the next tick.
func (w *DigestWorker) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Digest worker started", "interval", every)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Digest worker stopped")
			return
		case <-ticker.C:
			if err := w.SendOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Failed to deliver digest", "error", err)
			}
		}
	}
}

// SendOnce computes and delivers the digest for today.
func (w *DigestWorker) SendOnce(ctx context.Context) error {
	entries, err := w.store.LoadEntries(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	goals, err := w.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}

	digest, todayCount := core.Digest(entries, goals, time.Now().Format(core.DateLayout))
	if err := w.sender.Send(digest); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Digest delivered", "today_entries", todayCount)
	return nil
}
