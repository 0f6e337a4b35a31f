package realtime

import (
	"errors"
	"sync"

	"analytics-dashboard/internal/domain"
)

// fakeConn records everything sent to it. Safe for concurrent use.
type fakeConn struct {
	id      string
	subject string
	role    domain.Role

	mu      sync.Mutex
	sent    []sentMessage
	sendErr error
	closed  bool
}

type sentMessage struct {
	Event   string
	Payload interface{}
}

func newFakeConn(id, subject string, role domain.Role) *fakeConn {
	return &fakeConn{id: id, subject: subject, role: role}
}

func (c *fakeConn) ID() string        { return c.id }
func (c *fakeConn) SubjectID() string { return c.subject }
func (c *fakeConn) Role() domain.Role { return c.role }

func (c *fakeConn) Send(event string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, sentMessage{Event: event, Payload: payload})
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) failSends() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = errors.New("transport closing")
}

func (c *fakeConn) messages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]sentMessage, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) received(event string) []sentMessage {
	var out []sentMessage
	for _, m := range c.messages() {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) lastUserCount() (int, bool) {
	counts := c.received(domain.EventUserCount)
	if len(counts) == 0 {
		return 0, false
	}
	n, ok := counts[len(counts)-1].Payload.(int)
	return n, ok
}
