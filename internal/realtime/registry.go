package realtime

import (
	"sync"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

// Registry is the single source of truth for which connections exist and
// which rooms they belong to. All mutations run under one lock so readers
// never observe a half-completed join/leave/disconnect.
type Registry struct {
	mu       sync.RWMutex
	conns    map[string]*entry              // connID -> entry
	rooms    map[string]map[string]struct{} // roomID -> member connIDs
	subjects map[string]map[string]struct{} // subjectID -> connIDs
	log      logger.Logger
}

type entry struct {
	conn  domain.ClientConnection
	rooms map[string]struct{}
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		conns:    make(map[string]*entry),
		rooms:    make(map[string]map[string]struct{}),
		subjects: make(map[string]map[string]struct{}),
		log:      log,
	}
}

// Admit registers an authenticated connection with empty room membership.
// A duplicate connection id means the transport layer misbehaved; the caller
// must treat it as a logic error, not retry it.
func (r *Registry) Admit(conn domain.ClientConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if _, exists := r.conns[connID]; exists {
		return domain.ErrDuplicateConnection
	}

	r.conns[connID] = &entry{conn: conn, rooms: make(map[string]struct{})}

	subjectID := conn.SubjectID()
	if r.subjects[subjectID] == nil {
		r.subjects[subjectID] = make(map[string]struct{})
	}
	r.subjects[subjectID][connID] = struct{}{}

	r.log.Info("Connection admitted", "conn_id", connID, "subject_id", subjectID, "role", conn.Role())
	return nil
}

// Join adds the connection to a room. Joining a room already joined is a
// no-op that still reports the current size.
func (r *Registry) Join(connID, roomID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.conns[connID]
	if !exists {
		return 0, domain.ErrUnknownConnection
	}

	e.rooms[roomID] = struct{}{}
	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]struct{})
	}
	r.rooms[roomID][connID] = struct{}{}

	return len(r.rooms[roomID]), nil
}

// Leave removes the connection from a room. Leaving a room never joined is a
// no-op that still reports the current size.
func (r *Registry) Leave(connID, roomID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.conns[connID]
	if !exists {
		return 0, domain.ErrUnknownConnection
	}

	delete(e.rooms, roomID)
	if members, ok := r.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}

	return len(r.rooms[roomID]), nil
}

// Disconnect atomically clears all room memberships and removes the
// connection, returning which rooms were affected. Disconnecting a connection
// that is already gone returns an empty slice; duplicate close signals from a
// flaky transport are expected.
func (r *Registry) Disconnect(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.conns[connID]
	if !exists {
		return nil
	}

	affected := make([]string, 0, len(e.rooms))
	for roomID := range e.rooms {
		affected = append(affected, roomID)
		if members, ok := r.rooms[roomID]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.rooms, roomID)
			}
		}
	}

	subjectID := e.conn.SubjectID()
	if conns, ok := r.subjects[subjectID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.subjects, subjectID)
		}
	}

	delete(r.conns, connID)

	r.log.Info("Connection removed", "conn_id", connID, "subject_id", subjectID, "rooms", affected)
	return affected
}

// RoomSize reports the current member count. A room with no members, or one
// that was never joined, has size zero.
func (r *Registry) RoomSize(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// MembersOf snapshots the member connections of a room at call time.
func (r *Registry) MembersOf(roomID string) []domain.ClientConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]domain.ClientConnection, 0, len(r.rooms[roomID]))
	for connID := range r.rooms[roomID] {
		if e, ok := r.conns[connID]; ok {
			members = append(members, e.conn)
		}
	}
	return members
}

// PrivilegedMembersOf snapshots the admin-role member connections of a room.
func (r *Registry) PrivilegedMembersOf(roomID string) []domain.ClientConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []domain.ClientConnection
	for connID := range r.rooms[roomID] {
		if e, ok := r.conns[connID]; ok && e.conn.Role() == domain.RoleAdmin {
			members = append(members, e.conn)
		}
	}
	return members
}

// ConnectionsFor returns every live connection owned by a subject. A subject
// with two browser tabs open has two entries; presence counts distinct
// connections, not distinct subjects.
func (r *Registry) ConnectionsFor(subjectID string) []domain.ClientConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []domain.ClientConnection
	for connID := range r.subjects[subjectID] {
		if e, ok := r.conns[connID]; ok {
			conns = append(conns, e.conn)
		}
	}
	return conns
}

// ConnectionCount returns the number of admitted connections.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
