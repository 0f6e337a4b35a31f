package domain

import (
	"context"
	"time"
)

// Repository interfaces
type SalesRepository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	GetSale(ctx context.Context, saleID string) (*Sale, error)
	ListSales(ctx context.Context, limit, offset int) ([]*Sale, error)
	DeleteSale(ctx context.Context, saleID string) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
}

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	CountActiveUsersSince(ctx context.Context, since time.Time) (int, error)
}

type AnalyticsRepository interface {
	GetKPIs(ctx context.Context, periodDays int) (*KPISnapshot, error)
	GetCategoryBreakdown(ctx context.Context, periodDays int) ([]CategorySlice, error)
	GetRevenueTrend(ctx context.Context, periodDays int) ([]RevenuePoint, error)
	GetRecentSales(ctx context.Context, limit int) ([]*Sale, error)
}

// Event bus interfaces
type EventPublisher interface {
	PublishDashboardEvent(ctx context.Context, event *DashboardEvent) error
}

type EventSubscriber interface {
	SubscribeToDashboardEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *DashboardEvent) error

// TokenVerifier maps an opaque credential to an identity, or fails. It runs
// once per connection attempt, before any other realtime logic.
type TokenVerifier interface {
	Verify(credential string) (*Identity, error)
}

// ClientConnection is one live transport session owned by an authenticated
// principal. Send must never block the caller on a slow consumer.
type ClientConnection interface {
	ID() string
	SubjectID() string
	Role() Role
	Send(event string, payload interface{}) error
	Close() error
}

// ConnectionRegistry is the single source of truth for which connections
// exist and which rooms they belong to.
type ConnectionRegistry interface {
	Admit(conn ClientConnection) error
	Join(connID, roomID string) (int, error)
	Leave(connID, roomID string) (int, error)
	Disconnect(connID string) []string
	RoomSize(roomID string) int
	MembersOf(roomID string) []ClientConnection
	PrivilegedMembersOf(roomID string) []ClientConnection
	ConnectionsFor(subjectID string) []ClientConnection
}

// Notification interfaces
type RoomBroadcaster interface {
	BroadcastToRoom(ctx context.Context, roomID, event string, payload interface{}) error
	BroadcastToPrivileged(ctx context.Context, roomID, event string, payload interface{}) error
}

type UserNotifier interface {
	NotifyUser(ctx context.Context, subjectID, event string, payload interface{}) error
}
