package websocket

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/internal/realtime"
	"analytics-dashboard/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Handler authenticates incoming websocket requests and wires each admitted
// connection to a realtime session. Verification happens before the upgrade:
// a request with a bad credential is rejected with 401 and never touches the
// registry.
type Handler struct {
	verifier   domain.TokenVerifier
	registry   domain.ConnectionRegistry
	dispatcher *realtime.Dispatcher
	sendBuffer int
	log        logger.Logger
}

func NewHandler(verifier domain.TokenVerifier, registry domain.ConnectionRegistry,
	dispatcher *realtime.Dispatcher, sendBuffer int, log logger.Logger) *Handler {
	return &Handler{
		verifier:   verifier,
		registry:   registry,
		dispatcher: dispatcher,
		sendBuffer: sendBuffer,
		log:        log,
	}
}

func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	credential := credentialFromRequest(r)
	if credential == "" {
		http.Error(w, "authentication token required", http.StatusUnauthorized)
		return
	}

	identity, err := h.verifier.Verify(credential)
	if err != nil {
		h.log.Info("Rejected connection attempt", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	wsConn := NewConnection(uuid.NewString(), *identity, conn, h.sendBuffer, h.log)
	session := realtime.NewSession(wsConn, h.registry, h.dispatcher, h.log)

	if err := session.Open(); err != nil {
		// Duplicate connection ids mean the transport layer is broken.
		h.log.Error("Failed to admit connection", "conn_id", wsConn.ID(), "error", err)
		conn.Close()
		return
	}

	go wsConn.WritePump()
	go h.readLoop(session, wsConn, conn)
}

// readLoop pumps client protocol messages into the session. Any read error,
// graceful or not, ends in exactly one Terminate.
func (h *Handler) readLoop(session *realtime.Session, wsConn *Connection, conn *websocket.Conn) {
	defer session.Terminate()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg realtime.InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("Unexpected close", "conn_id", wsConn.ID(), "error", err)
			}
			return
		}
		session.HandleMessage(msg)
	}
}

func credentialFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
