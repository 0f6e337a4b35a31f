package domain

import (
	"encoding/json"
	"time"
)

// DashboardRoom is the single well-known broadcast room of the product.
// The registry and dispatcher generalize to arbitrary rooms.
const DashboardRoom = "dashboard"

// Event names on the wire (server -> client).
const (
	EventConnected    = "connected"
	EventUserCount    = "user-count-update"
	EventNewSale      = "new-sale"
	EventNewOrder     = "new-order"
	EventKPIUpdate    = "kpi-update"
	EventChartUpdate  = "chart-update"
	EventNotification = "notification"
	EventAdminMessage = "admin-message"
)

// Client protocol actions (client -> server).
const (
	ActionJoinDashboard  = "join-dashboard"
	ActionLeaveDashboard = "leave-dashboard"
)

type Audience string

const (
	AudienceRoom       Audience = "room"
	AudiencePrivileged Audience = "privileged"
	AudienceSubject    Audience = "subject"
)

// DashboardEvent is a routable domain event. The payload is opaque to the
// dispatcher; constructors below keep the call sites typed.
type DashboardEvent struct {
	Name      string          `json:"name"`
	Audience  Audience        `json:"audience"`
	Room      string          `json:"room,omitempty"`
	SubjectID string          `json:"subject_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func newRoomEvent(name string, payload interface{}) (*DashboardEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &DashboardEvent{
		Name:      name,
		Audience:  AudienceRoom,
		Room:      DashboardRoom,
		Payload:   raw,
		Timestamp: time.Now(),
	}, nil
}

func NewSaleEvent(sale *Sale) (*DashboardEvent, error) {
	return newRoomEvent(EventNewSale, sale)
}

func NewOrderEvent(order *Order) (*DashboardEvent, error) {
	return newRoomEvent(EventNewOrder, order)
}

func NewKPIEvent(kpis *KPISnapshot) (*DashboardEvent, error) {
	return newRoomEvent(EventKPIUpdate, kpis)
}

func NewChartEvent(charts *ChartData) (*DashboardEvent, error) {
	return newRoomEvent(EventChartUpdate, charts)
}

// NewNotificationEvent targets a single subject when subjectID is non-empty,
// otherwise it is broadcast to the whole dashboard room.
func NewNotificationEvent(n *Notification, subjectID string) (*DashboardEvent, error) {
	raw, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	ev := &DashboardEvent{
		Name:      EventNotification,
		Audience:  AudienceRoom,
		Room:      DashboardRoom,
		Payload:   raw,
		Timestamp: time.Now(),
	}
	if subjectID != "" {
		ev.Audience = AudienceSubject
		ev.Room = ""
		ev.SubjectID = subjectID
	}
	return ev, nil
}

// NewAdminMessageEvent is delivered only to admin-role members of the room.
func NewAdminMessageEvent(payload interface{}) (*DashboardEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &DashboardEvent{
		Name:      EventAdminMessage,
		Audience:  AudiencePrivileged,
		Room:      DashboardRoom,
		Payload:   raw,
		Timestamp: time.Now(),
	}, nil
}
