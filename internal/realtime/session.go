package realtime

import (
	"sync"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

// ConnectedAck is the application-level acknowledgment sent once right after
// admission.
type ConnectedAck struct {
	Message string      `json:"message"`
	UserID  string      `json:"userId"`
	Role    domain.Role `json:"role"`
}

// InboundMessage is a client protocol message. Join/leave actions carry no
// payload.
type InboundMessage struct {
	Event string `json:"event"`
}

// Session glues one authenticated connection to the registry and dispatcher:
// admission, join/leave transitions, and the exactly-once disconnect path.
type Session struct {
	conn       domain.ClientConnection
	registry   domain.ConnectionRegistry
	dispatcher *Dispatcher
	log        logger.Logger
	closeOnce  sync.Once
}

func NewSession(conn domain.ClientConnection, registry domain.ConnectionRegistry,
	dispatcher *Dispatcher, log logger.Logger) *Session {
	return &Session{
		conn:       conn,
		registry:   registry,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Open admits the connection and sends the connected acknowledgment. The
// caller must have verified the credential already; an unauthenticated
// connection never reaches this point.
func (s *Session) Open() error {
	if err := s.registry.Admit(s.conn); err != nil {
		return err
	}

	ack := ConnectedAck{
		Message: "Connected to real-time analytics",
		UserID:  s.conn.SubjectID(),
		Role:    s.conn.Role(),
	}
	if err := s.conn.Send(domain.EventConnected, ack); err != nil {
		s.log.Warn("Failed to send connected ack", "conn_id", s.conn.ID(), "error", err)
	}
	return nil
}

// HandleMessage processes one inbound protocol message. Messages from a
// single connection arrive in transport order.
func (s *Session) HandleMessage(msg InboundMessage) {
	switch msg.Event {
	case domain.ActionJoinDashboard:
		s.join(domain.DashboardRoom)
	case domain.ActionLeaveDashboard:
		s.leave(domain.DashboardRoom)
	default:
		s.log.Debug("Unknown client action", "conn_id", s.conn.ID(), "event", msg.Event)
	}
}

func (s *Session) join(roomID string) {
	if _, err := s.registry.Join(s.conn.ID(), roomID); err != nil {
		// Join is only reachable from an admitted connection.
		s.log.Error("Join on unregistered connection", "conn_id", s.conn.ID(), "room", roomID, "error", err)
		return
	}
	s.log.Info("Client joined room", "conn_id", s.conn.ID(), "subject_id", s.conn.SubjectID(), "room", roomID)
	s.dispatcher.NotifyPresenceChanged(roomID)
}

func (s *Session) leave(roomID string) {
	if _, err := s.registry.Leave(s.conn.ID(), roomID); err != nil {
		s.log.Error("Leave on unregistered connection", "conn_id", s.conn.ID(), "room", roomID, "error", err)
		return
	}
	s.log.Info("Client left room", "conn_id", s.conn.ID(), "subject_id", s.conn.SubjectID(), "room", roomID)
	s.dispatcher.NotifyPresenceChanged(roomID)
}

// Terminate runs the disconnect path exactly once, no matter how many close
// signals the transport raises. Every room the connection was a member of
// gets a settled presence recompute.
func (s *Session) Terminate() {
	s.closeOnce.Do(func() {
		affected := s.registry.Disconnect(s.conn.ID())
		if err := s.conn.Close(); err != nil {
			s.log.Debug("Transport close", "conn_id", s.conn.ID(), "error", err)
		}
		for _, roomID := range affected {
			s.dispatcher.NotifyPresenceSettled(roomID)
		}
	})
}
