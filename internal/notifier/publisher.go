package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
)

const (
	// QueueName is the Redis list key for pending operator notifications
	QueueName = "notifications:pending"
)

// RedisNotifier publishes operator notifications to a Redis list consumed by
// the delivery worker. The list gives FIFO ordering and survives restarts of
// the API process.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a new RedisNotifier
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

var _ portssvc.Notifier = (*RedisNotifier)(nil)

// Publish enqueues a notification for delivery.
func (p *RedisNotifier) Publish(ctx context.Context, n domain.OperatorNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// RPUSH appends to the end of the list (FIFO queue)
	if err := p.client.RPush(ctx, QueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// QueueLength returns the current number of undelivered notifications.
func (p *RedisNotifier) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, QueueName).Result()
}
