package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

// SubscribeToDashboardEvents blocks until ctx is cancelled, handing each
// decoded event to the handler. A malformed or failed event is logged and
// skipped; the subscription itself stays up.
func (r *RedisEventSubscriber) SubscribeToDashboardEvents(ctx context.Context, handler domain.EventHandler) error {
	pubsub := r.client.Subscribe(ctx, dashboardEventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to dashboard events", "channel", dashboardEventsChannel)

	for {
		select {
		case msg := <-ch:
			var event domain.DashboardEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.log.Error("Failed to parse event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(&event); err != nil {
				r.log.Error("Failed to handle event", "event", event.Name, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}
