package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

// Client is one live websocket connection. Outbound events go through
// a buffered channel drained by WritePump so pushes never block the
// request that triggered them.
type Client struct {
	UserID uuid.UUID

	conn *websocket.Conn

	// mu serializes enqueue against Close: the channel is only closed
	// while no sender holds the lock, so a push racing a displacement
	// or disconnect degrades to a drop instead of a panic.
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient wraps an upgraded websocket connection.
func NewClient(userID uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// enqueue offers data to the send buffer without blocking. A full
// buffer or a closed client means the event is dropped.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close shuts the send channel, which terminates WritePump. Safe to
// call from both the read pump and a displacing connect, concurrently
// with in-flight pushes.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// WritePump drains the send buffer onto the connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ReadPump consumes inbound frames until the peer goes away. The
// channel is server-push only, so client frames are discarded; the
// pump exists to detect disconnects. done is invoked exactly once on
// exit, after which the client is closed.
func (c *Client) ReadPump(done func()) {
	defer func() {
		done()
		c.Close()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
