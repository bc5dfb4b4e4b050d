package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/moneta-ict/moneta-backend/internal/platform/telegram"
)

// Sender delivers formatted messages to the operator channel.
type Sender interface {
	SendMessage(ctx context.Context, text string, markup *telegram.InlineKeyboardMarkup) error
	SendPhoto(ctx context.Context, photoURL, caption string, markup *telegram.InlineKeyboardMarkup) error
}

// Worker consumes queued notifications and delivers them to the operator
// chat. Delivery failures are logged and the notification is dropped; the
// operator can always find the request in the admin listing.
type Worker struct {
	client *redis.Client
	sender Sender
	logger *slog.Logger
	stopCh chan struct{}
}

// NewWorker creates a new Worker
func NewWorker(client *redis.Client, sender Sender, logger *slog.Logger) *Worker {
	return &Worker{
		client: client,
		sender: sender,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins consuming notifications. It runs until Stop is called or the
// context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Notification worker stopping, context cancelled")
			return
		case <-w.stopCh:
			w.logger.Info("Notification worker stopping")
			return
		default:
			// BLPOP with a timeout so the stop channel is polled regularly.
			result, err := w.client.BLPop(ctx, 5*time.Second, QueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				w.logger.Error("Failed to read notification queue", slog.String("error", err.Error()))
				time.Sleep(1 * time.Second)
				continue
			}

			// result[0] is the queue name, result[1] is the payload
			if len(result) < 2 {
				continue
			}
			w.deliver(ctx, result[1])
		}
	}
}

// Stop signals the worker to stop processing
func (w *Worker) Stop() {
	close(w.stopCh)
}

// deliver sends one queued notification to the operator chat.
func (w *Worker) deliver(ctx context.Context, data string) {
	var n domain.OperatorNotification
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		w.logger.Error("Failed to unmarshal notification", slog.String("error", err.Error()))
		return
	}

	text := FormatNotification(n)
	markup := DecisionKeyboard(n.Reference)

	if n.Type == domain.TypeDeposit && n.EvidenceURL != "" {
		if err := w.sender.SendPhoto(ctx, n.EvidenceURL, text, markup); err == nil {
			w.logger.Info("Operator notified", slog.String("reference", n.Reference))
			return
		}
		// Telegram could not fetch the photo, fall back to a plain message
		// carrying the evidence link.
		text += "\n\nProof: " + n.EvidenceURL
	}

	if err := w.sender.SendMessage(ctx, text, markup); err != nil {
		w.logger.Error("Failed to deliver operator notification",
			slog.String("reference", n.Reference),
			slog.String("error", err.Error()))
		return
	}
	w.logger.Info("Operator notified", slog.String("reference", n.Reference))
}

// DeliverOne pops and delivers a single notification synchronously, used in
// tests.
func (w *Worker) DeliverOne(ctx context.Context) error {
	result, err := w.client.LPop(ctx, QueueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	w.deliver(ctx, result)
	return nil
}
