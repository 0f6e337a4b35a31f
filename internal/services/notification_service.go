package services

import (
	"context"
	"time"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
	"analytics-dashboard/pkg/utils"
)

type NotificationService struct {
	eventPub domain.EventPublisher
	log      logger.Logger
}

func NewNotificationService(eventPub domain.EventPublisher, log logger.Logger) *NotificationService {
	return &NotificationService{
		eventPub: eventPub,
		log:      log,
	}
}

// Notify sends a notification to the whole dashboard room, or to a single
// subject when subjectID is non-empty.
func (s *NotificationService) Notify(ctx context.Context, kind, title, message, subjectID string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        utils.GenerateID("notif"),
		Type:      kind,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}

	event, err := domain.NewNotificationEvent(n, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.eventPub.PublishDashboardEvent(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("Notification published", "notification_id", n.ID, "subject_id", subjectID)
	return n, nil
}

// SendAdminMessage broadcasts a payload to admin-role viewers only.
func (s *NotificationService) SendAdminMessage(ctx context.Context, payload interface{}) error {
	event, err := domain.NewAdminMessageEvent(payload)
	if err != nil {
		return err
	}
	if err := s.eventPub.PublishDashboardEvent(ctx, event); err != nil {
		return err
	}

	s.log.Info("Admin message published")
	return nil
}
