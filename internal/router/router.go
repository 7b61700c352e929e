package router

import (
	"log"
	"time"

	"github.com/google/uuid"

	"scholarboard/internal/websocket"
	"scholarboard/pkg/types"
)

// Router decides what happens to each event a client emits: permission and
// rate checks, then either a direct presence reply or fan-out to every other
// connected client. Per-recipient relevance filtering is the receiving
// client's job; the backend distributes.
type Router struct {
	registry    *websocket.Registry
	rateLimiter *RateLimiter
}

// NewRouter creates an event router.
func NewRouter(registry *websocket.Registry) *Router {
	return &Router{
		registry:    registry,
		rateLimiter: NewRateLimiter(),
	}
}

// RouteEvent processes one inbound event from senderID. Events are
// fire-and-forget: they are stamped, distributed, and forgotten.
func (r *Router) RouteEvent(event *types.Event, senderID string) error {
	sender, exists := r.registry.GetUserConnection(senderID)
	if !exists {
		return ErrSenderNotConnected
	}

	if err := event.Validate(); err != nil {
		return err
	}

	if !canEmit(sender.Role(), event.Type) {
		return ErrUnauthorizedEventType
	}

	if !r.rateLimiter.Allow(senderID) {
		return ErrRateLimitExceeded
	}

	// Presence request: answered directly, never fanned out.
	if event.Type == types.EventGetConnectedUsers {
		return r.sendPresenceSnapshot(sender)
	}

	// Server controls event IDs; any client-provided ID is discarded.
	event.ID = uuid.New().String()
	event.Timestamp = time.Now()

	r.Broadcast(event, senderID)
	return nil
}

// Broadcast delivers an event to every connected client except excludeUserID.
// Delivery continues past individual failures.
func (r *Router) Broadcast(event *types.Event, excludeUserID string) {
	for _, conn := range r.registry.GetAllConnections() {
		if conn.UserID() == excludeUserID {
			continue
		}
		if err := conn.WriteEvent(event); err != nil {
			log.Printf("Failed to deliver %s to %s: %v", event.Type, conn.UserID(), err)
		}
	}
}

// sendPresenceSnapshot answers getConnectedUsers with the full current list.
// The reply replaces the client's cached list wholesale.
func (r *Router) sendPresenceSnapshot(conn *websocket.Connection) error {
	reply, err := types.NewEvent(types.EventInitialConnectedUsers, types.InitialConnectedUsersPayload{
		Users: r.registry.PresenceSnapshot(),
	})
	if err != nil {
		return err
	}
	reply.ID = uuid.New().String()
	reply.Timestamp = time.Now()

	return conn.WriteEvent(reply)
}

// canEmit is the outbound permission table. Presence events are
// server-originated only; clients may never emit them.
func canEmit(role types.Role, eventType types.EventType) bool {
	if eventType == types.EventGetConnectedUsers {
		return true
	}

	switch role {
	case types.RoleAdmin:
		return eventType == types.EventArticleAssigned ||
			eventType == types.EventCommentAdded
	case types.RoleStudent:
		return eventType == types.EventArticleConsulted ||
			eventType == types.EventReportUploaded
	default:
		return false
	}
}
