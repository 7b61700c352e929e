package hub

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"scholarboard/internal/router"
	"scholarboard/internal/websocket"
	"scholarboard/pkg/types"
)

// Hub coordinates connection lifecycle and inbound event flow through a
// single goroutine, which keeps registry mutation and presence broadcasts
// free of interleaving.
type Hub struct {
	eventChannel      chan *eventContext
	registerChannel   chan *websocket.Connection
	unregisterChannel chan *websocket.Connection
	shutdownChannel   chan struct{}

	registry *websocket.Registry
	router   *router.Router

	running bool
	mu      sync.RWMutex
}

// eventContext pairs an inbound event with its sender.
type eventContext struct {
	event    *types.Event
	senderID string
}

var _ websocket.EventSink = (*Hub)(nil)

// NewHub creates a hub over the given registry and router.
func NewHub(registry *websocket.Registry, router *router.Router) *Hub {
	return &Hub{
		eventChannel:      make(chan *eventContext, 1000),
		registerChannel:   make(chan *websocket.Connection, 100),
		unregisterChannel: make(chan *websocket.Connection, 100),
		shutdownChannel:   make(chan struct{}),
		registry:          registry,
		router:            router,
	}
}

// Start begins hub processing.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrHubAlreadyRunning
	}
	h.running = true
	h.mu.Unlock()

	log.Println("Starting event hub...")
	go h.run(ctx)

	return nil
}

// Stop shuts the hub down. Events still queued are dropped; they are
// fire-and-forget by contract.
func (h *Hub) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return ErrHubNotRunning
	}
	h.running = false

	log.Println("Stopping event hub...")

	select {
	case <-h.shutdownChannel:
	default:
		close(h.shutdownChannel)
	}

	return nil
}

// SendEvent queues an inbound event for routing.
func (h *Hub) SendEvent(event *types.Event, senderID string) error {
	h.mu.RLock()
	if !h.running {
		h.mu.RUnlock()
		return ErrHubNotRunning
	}
	h.mu.RUnlock()

	select {
	case h.eventChannel <- &eventContext{event: event, senderID: senderID}:
		return nil
	default:
		return ErrEventChannelFull
	}
}

// RegisterConnection queues a connection for registration.
func (h *Hub) RegisterConnection(conn *websocket.Connection) error {
	h.mu.RLock()
	if !h.running {
		h.mu.RUnlock()
		return ErrHubNotRunning
	}
	h.mu.RUnlock()

	select {
	case h.registerChannel <- conn:
		return nil
	default:
		return ErrRegisterChannelFull
	}
}

// UnregisterConnection queues a connection for deregistration.
func (h *Hub) UnregisterConnection(conn *websocket.Connection) error {
	h.mu.RLock()
	if !h.running {
		h.mu.RUnlock()
		return ErrHubNotRunning
	}
	h.mu.RUnlock()

	select {
	case h.unregisterChannel <- conn:
		return nil
	default:
		return ErrUnregisterChannelFull
	}
}

func (h *Hub) run(ctx context.Context) {
	defer log.Println("Hub processing stopped")

	for {
		select {
		case evCtx := <-h.eventChannel:
			h.handleEvent(evCtx)

		case conn := <-h.registerChannel:
			h.handleRegistration(conn)

		case conn := <-h.unregisterChannel:
			h.handleDeregistration(conn)

		case <-h.shutdownChannel:
			log.Println("Hub shutdown requested")
			return

		case <-ctx.Done():
			log.Println("Hub context cancelled")
			return
		}
	}
}

// handleEvent routes one inbound event. Routing failures are logged and
// reported to the sender, never fatal to the hub.
func (h *Hub) handleEvent(evCtx *eventContext) {
	if err := h.router.RouteEvent(evCtx.event, evCtx.senderID); err != nil {
		log.Printf("Event routing failed: type=%s from=%s err=%v",
			evCtx.event.Type, evCtx.senderID, err)
		h.sendErrorToSender(evCtx.senderID, err)
		return
	}

	log.Printf("Event routed: type=%s from=%s", evCtx.event.Type, evCtx.senderID)
}

// handleRegistration registers the connection, acks the handshake with the
// channel ID, and announces the user to everyone else.
func (h *Hub) handleRegistration(conn *websocket.Connection) {
	if conn == nil {
		log.Printf("Attempted to register nil connection")
		return
	}

	if err := h.registry.RegisterConnection(conn); err != nil {
		log.Printf("Connection registration failed for user %s: %v", conn.UserID(), err)
		if closeErr := conn.Close(); closeErr != nil {
			log.Printf("Failed to close connection after registration failure: %v", closeErr)
		}
		return
	}

	ack, err := types.NewEvent(types.EventConnected, types.ConnectedPayload{ChannelID: conn.ChannelID()})
	if err == nil {
		ack.ID = uuid.New().String()
		ack.Timestamp = time.Now()
		if err := conn.WriteEvent(ack); err != nil {
			log.Printf("Failed to ack connection for %s: %v", conn.UserID(), err)
		}
	}

	h.broadcastPresence(types.EventUserConnected, conn)

	log.Printf("Connection registered: user=%s role=%s channel=%s",
		conn.UserID(), conn.Role(), conn.ChannelID())
}

// handleDeregistration removes the connection and announces the departure.
// Only the exact registered instance is deregistered: a stale connection
// cleaned up after its replacement registered must not evict the replacement
// or broadcast a false departure.
func (h *Hub) handleDeregistration(conn *websocket.Connection) {
	if conn == nil {
		log.Printf("Attempted to deregister nil connection")
		return
	}

	registered, exists := h.registry.GetUserConnection(conn.UserID())
	if !exists || registered != conn {
		log.Printf("Skipping deregistration of stale connection: user=%s", conn.UserID())
		return
	}

	h.registry.UnregisterConnection(conn)
	h.broadcastPresence(types.EventUserDisconnected, conn)

	log.Printf("Connection deregistered: user=%s", conn.UserID())
}

// broadcastPresence distributes a server-originated presence event to every
// client except the subject.
func (h *Hub) broadcastPresence(eventType types.EventType, conn *websocket.Connection) {
	event, err := types.NewEvent(eventType, types.PresencePayload{
		UserID:   conn.UserID(),
		UserName: conn.UserName(),
	})
	if err != nil {
		log.Printf("Failed to build %s event: %v", eventType, err)
		return
	}
	event.ID = uuid.New().String()
	event.Timestamp = time.Now()

	h.router.Broadcast(event, conn.UserID())
}

// sendErrorToSender reports a routing failure back over the channel.
func (h *Hub) sendErrorToSender(senderID string, routingErr error) {
	sender, exists := h.registry.GetUserConnection(senderID)
	if !exists {
		return
	}

	errorEvent, err := types.NewEvent("error", map[string]string{
		"message": "Event could not be delivered",
		"error":   routingErr.Error(),
	})
	if err != nil {
		return
	}

	if err := sender.WriteEvent(errorEvent); err != nil {
		log.Printf("Failed to send error event to %s: %v", senderID, err)
	}
}
