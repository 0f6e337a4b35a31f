package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

func newTestSession(t *testing.T, reg *Registry, d *Dispatcher, conn *fakeConn) *Session {
	t.Helper()
	s := NewSession(conn, reg, d, logger.NewNop())
	require.NoError(t, s.Open())
	return s
}

func TestOpenSendsConnectedAck(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	conn := newFakeConn("conn-1", "alice", domain.RoleAdmin)

	newTestSession(t, reg, d, conn)

	acks := conn.received(domain.EventConnected)
	require.Len(t, acks, 1)
	ack, ok := acks[0].Payload.(ConnectedAck)
	require.True(t, ok)
	assert.Equal(t, "alice", ack.UserID)
	assert.Equal(t, domain.RoleAdmin, ack.Role)
	assert.NotEmpty(t, ack.Message)
}

func TestOpenSurfacesDuplicateConnection(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	conn := newFakeConn("conn-1", "alice", domain.RoleViewer)
	newTestSession(t, reg, d, conn)

	dup := NewSession(newFakeConn("conn-1", "bob", domain.RoleViewer), reg, d, logger.NewNop())
	assert.ErrorIs(t, dup.Open(), domain.ErrDuplicateConnection)
}

func TestJoinDashboardUpdatesEveryMember(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	b := newFakeConn("conn-b", "bob", domain.RoleAdmin)
	sa := newTestSession(t, reg, d, a)
	sb := newTestSession(t, reg, d, b)

	sa.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})
	count, ok := a.lastUserCount()
	require.True(t, ok)
	assert.Equal(t, 1, count)

	sb.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})
	for _, conn := range []*fakeConn{a, b} {
		count, ok := conn.lastUserCount()
		require.True(t, ok)
		assert.Equal(t, 2, count, "conn %s", conn.ID())
	}
}

func TestLeaveDashboardNotifiesRemainingMembers(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	b := newFakeConn("conn-b", "bob", domain.RoleViewer)
	sa := newTestSession(t, reg, d, a)
	sb := newTestSession(t, reg, d, b)

	sa.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})
	sb.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})

	sb.HandleMessage(InboundMessage{Event: domain.ActionLeaveDashboard})

	count, ok := a.lastUserCount()
	require.True(t, ok)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, reg.RoomSize(domain.DashboardRoom))
}

func TestRapidLeaveJoinRoundTrip(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	sa := newTestSession(t, reg, d, a)

	sa.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})
	sa.HandleMessage(InboundMessage{Event: domain.ActionLeaveDashboard})
	sa.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})

	// Net of the round trip: still a member, size unchanged, no duplicates.
	assert.Equal(t, 1, reg.RoomSize(domain.DashboardRoom))
	assert.Len(t, reg.MembersOf(domain.DashboardRoom), 1)
}

func TestTerminateRunsDisconnectExactlyOnce(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	b := newFakeConn("conn-b", "bob", domain.RoleViewer)
	sa := newTestSession(t, reg, d, a)
	sb := newTestSession(t, reg, d, b)

	sa.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})
	sb.HandleMessage(InboundMessage{Event: domain.ActionJoinDashboard})

	updatesBefore := len(a.received(domain.EventUserCount))

	// Flaky transports may raise several close signals.
	sb.Terminate()
	sb.Terminate()
	sb.Terminate()

	assert.Equal(t, 1, reg.RoomSize(domain.DashboardRoom))
	assert.Equal(t, updatesBefore+1, len(a.received(domain.EventUserCount)),
		"duplicate close signals must not trigger duplicate recomputes")
	count, _ := a.lastUserCount()
	assert.Equal(t, 1, count)
}

func TestUnknownActionIsIgnored(t *testing.T) {
	reg, d := newTestDispatcher(t, 0)
	a := newFakeConn("conn-a", "alice", domain.RoleViewer)
	sa := newTestSession(t, reg, d, a)

	sa.HandleMessage(InboundMessage{Event: "export-report"})

	assert.Equal(t, 0, reg.RoomSize(domain.DashboardRoom))
	assert.Empty(t, a.received(domain.EventUserCount))
}
