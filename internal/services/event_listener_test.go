package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

type recordedDelivery struct {
	Kind    string // "room", "privileged", "subject"
	Target  string
	Event   string
	Payload interface{}
}

type fakeBroadcaster struct {
	deliveries []recordedDelivery
}

func (f *fakeBroadcaster) BroadcastToRoom(ctx context.Context, roomID, event string, payload interface{}) error {
	f.deliveries = append(f.deliveries, recordedDelivery{"room", roomID, event, payload})
	return nil
}

func (f *fakeBroadcaster) BroadcastToPrivileged(ctx context.Context, roomID, event string, payload interface{}) error {
	f.deliveries = append(f.deliveries, recordedDelivery{"privileged", roomID, event, payload})
	return nil
}

func (f *fakeBroadcaster) NotifyUser(ctx context.Context, subjectID, event string, payload interface{}) error {
	f.deliveries = append(f.deliveries, recordedDelivery{"subject", subjectID, event, payload})
	return nil
}

func newTestListener() (*EventListener, *fakeBroadcaster) {
	fb := &fakeBroadcaster{}
	return NewEventListener(fb, fb, logger.NewNop()), fb
}

func TestHandleRoomEvent(t *testing.T) {
	listener, fb := newTestListener()

	event, err := domain.NewSaleEvent(&domain.Sale{ID: "sale-1", TotalAmount: 99.50})
	require.NoError(t, err)

	require.NoError(t, listener.HandleDashboardEvent(event))

	require.Len(t, fb.deliveries, 1)
	d := fb.deliveries[0]
	assert.Equal(t, "room", d.Kind)
	assert.Equal(t, domain.DashboardRoom, d.Target)
	assert.Equal(t, domain.EventNewSale, d.Event)
}

func TestHandlePrivilegedEvent(t *testing.T) {
	listener, fb := newTestListener()

	event, err := domain.NewAdminMessageEvent(map[string]string{"text": "maintenance"})
	require.NoError(t, err)

	require.NoError(t, listener.HandleDashboardEvent(event))

	require.Len(t, fb.deliveries, 1)
	assert.Equal(t, "privileged", fb.deliveries[0].Kind)
	assert.Equal(t, domain.EventAdminMessage, fb.deliveries[0].Event)
}

func TestHandleTargetedNotification(t *testing.T) {
	listener, fb := newTestListener()

	n := &domain.Notification{ID: "n-1", Type: "warning", Title: "low stock"}
	event, err := domain.NewNotificationEvent(n, "user-42")
	require.NoError(t, err)

	require.NoError(t, listener.HandleDashboardEvent(event))

	require.Len(t, fb.deliveries, 1)
	d := fb.deliveries[0]
	assert.Equal(t, "subject", d.Kind)
	assert.Equal(t, "user-42", d.Target)

	var decoded domain.Notification
	raw, ok := d.Payload.(json.RawMessage)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "n-1", decoded.ID)
}

func TestHandleRoomNotificationWithoutSubject(t *testing.T) {
	listener, fb := newTestListener()

	event, err := domain.NewNotificationEvent(&domain.Notification{ID: "n-2"}, "")
	require.NoError(t, err)

	require.NoError(t, listener.HandleDashboardEvent(event))

	require.Len(t, fb.deliveries, 1)
	assert.Equal(t, "room", fb.deliveries[0].Kind)
}

func TestHandleUnknownAudience(t *testing.T) {
	listener, fb := newTestListener()

	err := listener.HandleDashboardEvent(&domain.DashboardEvent{
		Name:     "mystery",
		Audience: domain.Audience("multicast"),
	})
	assert.Error(t, err)
	assert.Empty(t, fb.deliveries)
}
