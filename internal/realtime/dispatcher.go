package realtime

import (
	"context"
	"time"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

// Dispatcher delivers domain events to the correct audience and keeps every
// room's live presence count synchronized to its members. It only reads
// membership from the registry; it never mutates connection or room state.
type Dispatcher struct {
	registry    domain.ConnectionRegistry
	settleDelay time.Duration
	log         logger.Logger
}

func NewDispatcher(registry domain.ConnectionRegistry, settleDelay time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		settleDelay: settleDelay,
		log:         log,
	}
}

// BroadcastToRoom sends an event to every member of the room. The target set
// is fixed at dispatch time; a failure to deliver to one connection never
// prevents delivery to the others.
func (d *Dispatcher) BroadcastToRoom(ctx context.Context, roomID, event string, payload interface{}) error {
	d.deliver(d.registry.MembersOf(roomID), event, payload)
	return nil
}

// BroadcastToPrivileged sends an event to the admin-role members of the room.
// A room with zero privileged members receives zero deliveries; that is not
// an error.
func (d *Dispatcher) BroadcastToPrivileged(ctx context.Context, roomID, event string, payload interface{}) error {
	d.deliver(d.registry.PrivilegedMembersOf(roomID), event, payload)
	return nil
}

// NotifyUser sends an event directly to every connection of one subject,
// bypassing room resolution.
func (d *Dispatcher) NotifyUser(ctx context.Context, subjectID, event string, payload interface{}) error {
	d.deliver(d.registry.ConnectionsFor(subjectID), event, payload)
	return nil
}

func (d *Dispatcher) deliver(targets []domain.ClientConnection, event string, payload interface{}) {
	for _, conn := range targets {
		if err := conn.Send(event, payload); err != nil {
			// A closing or slow socket must never abort the fan-out.
			d.log.Warn("Failed to deliver event", "conn_id", conn.ID(), "event", event, "error", err)
		}
	}
}

// NotifyPresenceChanged recomputes a room's live count and broadcasts it to
// the room. Called after every successful join and leave.
func (d *Dispatcher) NotifyPresenceChanged(roomID string) {
	size := d.registry.RoomSize(roomID)
	_ = d.BroadcastToRoom(context.Background(), roomID, domain.EventUserCount, size)
}

// NotifyPresenceSettled schedules a presence recompute after the configured
// settle delay. Used on the disconnect path to smooth counts against rapid
// reconnect flapping; with a zero delay it recomputes immediately.
func (d *Dispatcher) NotifyPresenceSettled(roomID string) {
	if d.settleDelay <= 0 {
		d.NotifyPresenceChanged(roomID)
		return
	}
	time.AfterFunc(d.settleDelay, func() {
		d.NotifyPresenceChanged(roomID)
	})
}
