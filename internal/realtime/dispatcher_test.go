package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

func newTestDispatcher(t *testing.T, settleDelay time.Duration) (*Registry, *Dispatcher) {
	t.Helper()
	reg := newTestRegistry()
	return reg, NewDispatcher(reg, settleDelay, logger.NewNop())
}

func admitAndJoin(t *testing.T, reg *Registry, conn *fakeConn) {
	t.Helper()
	require.NoError(t, reg.Admit(conn))
	_, err := reg.Join(conn.ID(), domain.DashboardRoom)
	require.NoError(t, err)
}

func TestBroadcastToRoomFanOut(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	b := newFakeConn("conn-b", "bob", domain.RoleAdmin)
	c := newFakeConn("conn-c", "carol", domain.RoleViewer)
	admitAndJoin(t, reg, a)
	admitAndJoin(t, reg, b)
	require.NoError(t, reg.Admit(c)) // admitted but never joined

	sale := map[string]string{"orderId": "X"}
	require.NoError(t, d.BroadcastToRoom(context.Background(), domain.DashboardRoom, domain.EventNewSale, sale))

	assert.Len(t, a.received(domain.EventNewSale), 1)
	assert.Len(t, b.received(domain.EventNewSale), 1)
	assert.Empty(t, c.received(domain.EventNewSale), "non-member must not receive room broadcasts")
}

func TestBroadcastToPrivilegedOnly(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	viewer := newFakeConn("conn-a", "alice", domain.RoleViewer)
	admin := newFakeConn("conn-b", "bob", domain.RoleAdmin)
	admitAndJoin(t, reg, viewer)
	admitAndJoin(t, reg, admin)

	require.NoError(t, d.BroadcastToPrivileged(context.Background(), domain.DashboardRoom, domain.EventAdminMessage, "maintenance at noon"))

	assert.Empty(t, viewer.received(domain.EventAdminMessage))
	assert.Len(t, admin.received(domain.EventAdminMessage), 1)
}

func TestBroadcastToPrivilegedWithNoAdmins(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	viewer := newFakeConn("conn-a", "alice", domain.RoleViewer)
	admitAndJoin(t, reg, viewer)

	// Zero privileged members means zero deliveries, not an error.
	err := d.BroadcastToPrivileged(context.Background(), domain.DashboardRoom, domain.EventAdminMessage, "nobody home")
	require.NoError(t, err)
	assert.Empty(t, viewer.received(domain.EventAdminMessage))
}

func TestDeliveryFailureDoesNotAbortFanOut(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	broken := newFakeConn("conn-a", "alice", domain.RoleViewer)
	healthy := newFakeConn("conn-b", "bob", domain.RoleViewer)
	admitAndJoin(t, reg, broken)
	admitAndJoin(t, reg, healthy)
	broken.failSends()

	require.NoError(t, d.BroadcastToRoom(context.Background(), domain.DashboardRoom, domain.EventNewOrder, "payload"))

	assert.Len(t, healthy.received(domain.EventNewOrder), 1)
}

func TestNotifyUserBypassesRoomResolution(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	tab1 := newFakeConn("tab-1", "alice", domain.RoleViewer)
	tab2 := newFakeConn("tab-2", "alice", domain.RoleViewer)
	other := newFakeConn("conn-b", "bob", domain.RoleViewer)
	require.NoError(t, reg.Admit(tab1)) // not a room member
	admitAndJoin(t, reg, tab2)
	admitAndJoin(t, reg, other)

	n := domain.Notification{ID: "n-1", Type: "info", Title: "hi"}
	require.NoError(t, d.NotifyUser(context.Background(), "alice", domain.EventNotification, n))

	assert.Len(t, tab1.received(domain.EventNotification), 1)
	assert.Len(t, tab2.received(domain.EventNotification), 1)
	assert.Empty(t, other.received(domain.EventNotification))
}

func TestNotifyPresenceChangedBroadcastsCount(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	b := newFakeConn("conn-b", "bob", domain.RoleAdmin)
	admitAndJoin(t, reg, a)
	admitAndJoin(t, reg, b)

	d.NotifyPresenceChanged(domain.DashboardRoom)

	for _, conn := range []*fakeConn{a, b} {
		count, ok := conn.lastUserCount()
		require.True(t, ok, "conn %s missing user-count-update", conn.ID())
		assert.Equal(t, 2, count)
	}
}

func TestNotifyPresenceSettledImmediateWithZeroDelay(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	admitAndJoin(t, reg, a)

	d.NotifyPresenceSettled(domain.DashboardRoom)

	count, ok := a.lastUserCount()
	require.True(t, ok)
	assert.Equal(t, 1, count)
}

func TestNotifyPresenceSettledAppliesDelay(t *testing.T) {
	reg, d := newTestDispatcher(t, 20*time.Millisecond)

	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	admitAndJoin(t, reg, a)

	d.NotifyPresenceSettled(domain.DashboardRoom)

	_, ok := a.lastUserCount()
	assert.False(t, ok, "recompute must not run before the settle delay")

	assert.Eventually(t, func() bool {
		count, ok := a.lastUserCount()
		return ok && count == 1
	}, time.Second, 5*time.Millisecond)
}

// Walks the admin-departure scenario: once the only admin disconnects, a
// privileged broadcast reaches nobody.
func TestPrivilegedBroadcastAfterAdminDisconnect(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)

	viewer := newFakeConn("conn-a", "alice", domain.RoleViewer)
	admin := newFakeConn("conn-b", "bob", domain.RoleAdmin)
	admitAndJoin(t, reg, viewer)
	admitAndJoin(t, reg, admin)

	reg.Disconnect(admin.ID())
	d.NotifyPresenceChanged(domain.DashboardRoom)

	count, ok := viewer.lastUserCount()
	require.True(t, ok)
	assert.Equal(t, 1, count)

	require.NoError(t, d.BroadcastToPrivileged(context.Background(), domain.DashboardRoom, domain.EventAdminMessage, "anyone?"))
	assert.Empty(t, viewer.received(domain.EventAdminMessage))
	assert.Empty(t, admin.received(domain.EventAdminMessage))
}
