package services

import (
	"context"
	"fmt"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

// EventListener consumes dashboard events from the bus and hands each to the
// broadcast layer according to its audience.
type EventListener struct {
	broadcaster domain.RoomBroadcaster
	notifier    domain.UserNotifier
	log         logger.Logger
}

func NewEventListener(broadcaster domain.RoomBroadcaster, notifier domain.UserNotifier,
	log logger.Logger) *EventListener {
	return &EventListener{
		broadcaster: broadcaster,
		notifier:    notifier,
		log:         log,
	}
}

func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting dashboard event listener")
	return subscriber.SubscribeToDashboardEvents(ctx, el.HandleDashboardEvent)
}

func (el *EventListener) HandleDashboardEvent(event *domain.DashboardEvent) error {
	el.log.Debug("Handling dashboard event", "name", event.Name, "audience", event.Audience)

	ctx := context.Background()
	switch event.Audience {
	case domain.AudienceRoom:
		return el.broadcaster.BroadcastToRoom(ctx, event.Room, event.Name, event.Payload)
	case domain.AudiencePrivileged:
		return el.broadcaster.BroadcastToPrivileged(ctx, event.Room, event.Name, event.Payload)
	case domain.AudienceSubject:
		return el.notifier.NotifyUser(ctx, event.SubjectID, event.Name, event.Payload)
	}

	return fmt.Errorf("unknown event audience %q", event.Audience)
}
