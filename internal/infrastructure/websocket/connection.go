package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var errConnectionClosed = errors.New("connection closed")
var errSendBufferFull = errors.New("send buffer full")

// Envelope is the wire format of every server-to-client message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Connection adapts one gorilla websocket to domain.ClientConnection.
// All writes funnel through a buffered channel into a single write pump;
// gorilla allows only one concurrent writer per socket.
type Connection struct {
	id       string
	identity domain.Identity
	conn     *websocket.Conn
	send     chan Envelope
	done     chan struct{}
	once     sync.Once
	log      logger.Logger
}

func NewConnection(id string, identity domain.Identity, conn *websocket.Conn,
	sendBuffer int, log logger.Logger) *Connection {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Connection{
		id:       id,
		identity: identity,
		conn:     conn,
		send:     make(chan Envelope, sendBuffer),
		done:     make(chan struct{}),
		log:      log,
	}
}

func (c *Connection) ID() string        { return c.id }
func (c *Connection) SubjectID() string { return c.identity.SubjectID }
func (c *Connection) Role() domain.Role { return c.identity.Role }

// Send queues a message for the write pump. It never blocks: a consumer that
// cannot drain its buffer loses messages instead of stalling room fan-out.
func (c *Connection) Send(event string, payload interface{}) error {
	select {
	case <-c.done:
		return errConnectionClosed
	default:
	}

	select {
	case c.send <- Envelope{Event: event, Data: payload}:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *Connection) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

// WritePump drains the send channel onto the socket and keeps the connection
// alive with pings. Run in its own goroutine; returns when the connection
// closes or a write fails.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug("Write failed", "conn_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
