package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from a separately served front-end.
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// EventSink receives connection lifecycle and inbound events. Implemented by
// the hub; declared here to keep the dependency pointing inward.
type EventSink interface {
	RegisterConnection(conn *Connection) error
	UnregisterConnection(conn *Connection) error
	SendEvent(event *types.Event, senderID string) error
}

// Handler authenticates and upgrades channel requests, then pumps inbound
// events into the sink.
type Handler struct {
	verifier interfaces.TokenVerifier
	sink     EventSink
	pingEach time.Duration
	readIdle time.Duration
}

// NewHandler creates a channel handler.
func NewHandler(verifier interfaces.TokenVerifier, sink EventSink, pingInterval, readTimeout time.Duration) *Handler {
	return &Handler{
		verifier: verifier,
		sink:     sink,
		pingEach: pingInterval,
		readIdle: readTimeout,
	}
}

// HandleWebSocket verifies the {token, userId} handshake, upgrades, and
// registers the connection. Validation happens before the upgrade so
// rejections produce proper HTTP status codes.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID := r.URL.Query().Get("user_id")

	if token == "" || userID == "" {
		http.Error(w, "Missing required query parameters: token, user_id", http.StatusBadRequest)
		return
	}
	if !types.IsValidUserID(userID) {
		http.Error(w, "Invalid user_id format", http.StatusBadRequest)
		return
	}

	identity, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		http.Error(w, "Token verification failed", http.StatusInternalServerError)
		return
	}
	if identity == nil || identity.ID != userID {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	wsConn := NewConnection(conn)
	wsConn.SetCredentials(identity.ID, identity.Name, identity.Role)

	if err := h.sink.RegisterConnection(wsConn); err != nil {
		log.Printf("Failed to register connection: %v", err)
		_ = wsConn.Close()
		return
	}

	go h.handleConnection(wsConn)
}

// handleConnection owns the read side of one channel: heartbeat monitoring
// and the inbound event pump.
func (h *Handler) handleConnection(conn *Connection) {
	defer func() {
		// Pass the exact instance so a stale pump cannot evict a replacement
		// registered for the same user.
		if err := h.sink.UnregisterConnection(conn); err != nil {
			log.Printf("Failed to unregister connection for %s: %v", conn.UserID(), err)
		}
		_ = conn.Close()
	}()

	if err := conn.conn.SetReadDeadline(time.Now().Add(h.readIdle)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(h.readIdle))
	})

	ticker := time.NewTicker(h.pingEach)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-conn.ctx.Done():
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for %s: %v", conn.UserID(), err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var event types.Event
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("Dropping malformed event from %s: %v", conn.UserID(), err)
			continue
		}

		if err := h.sink.SendEvent(&event, conn.UserID()); err != nil {
			log.Printf("Failed to queue event from %s: %v", conn.UserID(), err)
		}
	}
}
