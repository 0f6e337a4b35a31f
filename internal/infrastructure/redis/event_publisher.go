package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"analytics-dashboard/internal/domain"
)

const dashboardEventsChannel = "dashboard_events"

// EventPublisherImpl pushes dashboard events onto the redis pub/sub bus.
// Write-path services publish here; the realtime listener picks them up.
type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishDashboardEvent(ctx context.Context, event *domain.DashboardEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, dashboardEventsChannel, data).Err()
}
