package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"scholarboard/pkg/types"
)

// Connection wraps one client channel. WebSocket writes must be serialized;
// a single writer goroutine owns the socket for writing.
type Connection struct {
	conn          *websocket.Conn
	writeCh       chan []byte
	channelID     string // backend-assigned, stable for the connection's lifetime
	userID        string
	userName      string
	role          types.Role
	authenticated bool
	ctx           context.Context
	cancel        context.CancelFunc
	closeOnce     sync.Once
	mu            sync.RWMutex
}

// NewConnection creates a connection wrapper and starts its writer.
func NewConnection(conn *websocket.Conn) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		conn:      conn,
		writeCh:   make(chan []byte, 100),
		channelID: uuid.New().String(),
		ctx:       ctx,
		cancel:    cancel,
	}

	go c.writeLoop()

	return c
}

func (c *Connection) writeLoop() {
	defer func() {
		for len(c.writeCh) > 0 {
			<-c.writeCh
		}
		close(c.writeCh)
	}()

	for {
		select {
		case data, ok := <-c.writeCh:
			if !ok {
				return
			}

			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// WriteEvent queues an event for delivery.
func (c *Connection) WriteEvent(event *types.Event) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	data, err := json.Marshal(event)
	if err != nil {
		return ErrInvalidJSON
	}

	select {
	case c.writeCh <- data:
		return nil
	case <-time.After(5 * time.Second):
		return ErrWriteTimeout
	case <-c.ctx.Done():
		return ErrConnectionClosed
	}
}

// Close terminates the channel. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			err = c.conn.Close()
		}
		// writeCh is closed by the writer goroutine
	})
	return err
}

// SetCredentials records the verified identity. Must be called before the
// connection is registered.
func (c *Connection) SetCredentials(userID, userName string, role types.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = userID
	c.userName = userName
	c.role = role
	c.authenticated = true
}

func (c *Connection) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

func (c *Connection) ChannelID() string {
	return c.channelID
}

func (c *Connection) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Connection) UserName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userName
}

func (c *Connection) Role() types.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}
