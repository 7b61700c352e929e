package types

import "regexp"

// Compiled once at package initialization; validation runs on every inbound
// event.
var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxPayloadBytes = 65536 // 64KB

// IsValidUserID checks if a user ID meets format requirements.
func IsValidUserID(userID string) bool {
	if len(userID) < 1 || len(userID) > 50 {
		return false
	}
	return userIDRegex.MatchString(userID)
}

// IsValidRole checks role membership in the closed role set.
func IsValidRole(role Role) bool {
	return role == RoleAdmin || role == RoleStudent
}

// IsValidEventType checks if the event type is one of the closed set.
// The connected ack is server-internal and intentionally excluded: clients
// may never send it.
func IsValidEventType(eventType EventType) bool {
	switch eventType {
	case EventUserConnected,
		EventUserDisconnected,
		EventArticleAssigned,
		EventArticleConsulted,
		EventReportUploaded,
		EventCommentAdded,
		EventGetConnectedUsers,
		EventInitialConnectedUsers:
		return true
	default:
		return false
	}
}

// Validate ensures an inbound event is routable.
func (e *Event) Validate() error {
	if !IsValidEventType(e.Type) {
		return ErrInvalidEventType
	}
	if len(e.Payload) > maxPayloadBytes {
		return ErrPayloadTooLarge
	}
	return nil
}
