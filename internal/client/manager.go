package client

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"scholarboard/pkg/types"
)

// Status of the channel owned by the Manager.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const defaultHandshakeTimeout = 10 * time.Second

// Manager owns the single bidirectional channel to the messaging backend.
// One live channel per process: Open while already connected closes the
// previous channel first. There is no automatic reconnect; after an error
// the only recovery path is a subsequent Open, typically driven by a
// session change.
type Manager struct {
	serverURL string
	router    *Router
	notifier  Notifier
	dialer    *websocket.Dialer

	handshakeTimeout time.Duration

	mu        sync.Mutex
	status    Status
	channelID string
	conn      *websocket.Conn
	closing   bool

	wmu sync.Mutex // serializes writes to conn
}

// NewManager creates a manager for the backend at serverURL (http or https;
// the scheme is switched to ws/wss when dialing).
func NewManager(serverURL string, router *Router, notifier Notifier) *Manager {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Manager{
		serverURL:        serverURL,
		router:           router,
		notifier:         notifier,
		dialer:           websocket.DefaultDialer,
		handshakeTimeout: defaultHandshakeTimeout,
	}
}

// Status returns the current channel status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// ChannelID returns the backend-assigned channel identifier. Empty unless
// connected.
func (m *Manager) ChannelID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelID
}

// Router returns the attached event router.
func (m *Manager) Router() *Router { return m.router }

// Open establishes the channel for the session, authenticating with the
// token and user ID. On transport failure the status moves to error and a
// user-visible notification is raised; the error is also returned for
// callers that want it.
func (m *Manager) Open(ctx context.Context, session types.Identity, token string) error {
	// Only one live channel at a time.
	if err := m.Close(); err != nil {
		return err
	}

	m.mu.Lock()
	m.status = StatusConnecting
	m.mu.Unlock()

	conn, err := m.dial(ctx, session.ID, token)
	if err != nil {
		m.failOpen()
		return err
	}

	channelID, err := m.awaitAck(conn)
	if err != nil {
		conn.Close()
		m.failOpen()
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.channelID = channelID
	m.status = StatusConnected
	m.closing = false
	m.mu.Unlock()

	m.router.Attach(session)
	go m.readLoop(conn)

	// Ask for the current presence snapshot. The reply replaces the local
	// list; there is no timeout on it, a lost reply just leaves the list
	// empty.
	request, err := types.NewEvent(types.EventGetConnectedUsers, nil)
	if err == nil {
		if err := m.writeEvent(request); err != nil {
			log.Printf("Failed to request connected users: %v", err)
		}
	}

	log.Printf("Channel connected: user=%s channel=%s", session.ID, channelID)
	return nil
}

// Close terminates the channel and detaches every router listener.
// Idempotent: safe to call when already disconnected.
func (m *Manager) Close() error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.channelID = ""
	m.status = StatusDisconnected
	if conn != nil {
		m.closing = true
	}
	m.mu.Unlock()

	m.router.Detach()
	m.router.Presence().Clear()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// writeEvent sends one event over the channel. Writes are serialized; the
// read loop owns all reads.
func (m *Manager) writeEvent(event *types.Event) error {
	m.mu.Lock()
	conn := m.conn
	status := m.status
	m.mu.Unlock()

	if status != StatusConnected || conn == nil {
		return ErrNotConnected
	}

	m.wmu.Lock()
	defer m.wmu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(event)
}

func (m *Manager) dial(ctx context.Context, userID, token string) (*websocket.Conn, error) {
	u, err := url.Parse(m.serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	u.Path = "/ws"
	query := u.Query()
	query.Set("token", token)
	query.Set("user_id", userID)
	u.RawQuery = query.Encode()

	conn, _, err := m.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return conn, nil
}

// awaitAck reads the handshake ack carrying the channel ID.
func (m *Manager) awaitAck(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(m.handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var event types.Event
	if err := conn.ReadJSON(&event); err != nil {
		return "", ErrHandshakeFailed
	}
	if event.Type != types.EventConnected {
		return "", ErrHandshakeFailed
	}

	var ack types.ConnectedPayload
	if err := event.Decode(&ack); err != nil {
		return "", ErrHandshakeFailed
	}
	return ack.ChannelID, nil
}

// failOpen records a failed connection attempt: error status plus one
// user-visible notification. No automatic retry.
func (m *Manager) failOpen() {
	m.mu.Lock()
	m.status = StatusError
	m.mu.Unlock()

	m.notifier.Error("Connection Error", "Could not connect to real-time server.")
}

// readLoop processes inbound events in arrival order until the channel
// drops. A transport failure outside an intentional Close moves the status
// to error and raises a notification.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		var event types.Event
		if err := conn.ReadJSON(&event); err != nil {
			m.mu.Lock()
			intentional := m.closing || m.conn != conn
			if !intentional {
				m.conn = nil
				m.channelID = ""
				m.status = StatusError
			}
			m.mu.Unlock()

			if !intentional {
				log.Printf("Channel read failed: %v", err)
				m.router.Detach()
				m.router.Presence().Clear()
				m.notifier.Error("Connection Error", "Could not connect to real-time server.")
			}
			return
		}

		m.router.Dispatch(&event)
	}
}
