package types

import (
	"encoding/json"
	"time"
)

// EventType names one of the closed set of domain events exchanged over the
// channel. The set is fixed; the router rejects anything else.
type EventType string

const (
	// Server-originated presence events.
	EventUserConnected    EventType = "UserConnected"
	EventUserDisconnected EventType = "UserDisconnected"

	// Admin-originated events.
	EventArticleAssigned EventType = "ArticleAssigned"
	EventCommentAdded    EventType = "CommentAdded"

	// Student-originated events.
	EventArticleConsulted EventType = "ArticleConsulted"
	EventReportUploaded   EventType = "ReportUploaded"

	// Presence request/reply pair. The request carries no payload and is
	// answered directly to the requester, never fanned out.
	EventGetConnectedUsers     EventType = "getConnectedUsers"
	EventInitialConnectedUsers EventType = "InitialConnectedUsers"

	// EventConnected is the handshake ack carrying the backend-assigned
	// channel ID. Sent once per channel, immediately after registration.
	EventConnected EventType = "connected"
)

// Event is the wire-level unit. Events are fire-and-forget: never persisted,
// never individually acknowledged. ID and Timestamp are stamped server-side.
type Event struct {
	ID        string          `json:"id,omitempty"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// NewEvent builds an event with a marshaled payload. A nil payload produces
// an event with no payload field (the getConnectedUsers request).
func NewEvent(eventType EventType, payload interface{}) (*Event, error) {
	ev := &Event{Type: eventType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, ErrInvalidPayload
		}
		ev.Payload = data
	}
	return ev, nil
}

// Decode unmarshals the event payload into the typed payload struct for the
// event's type. Callers pick the struct; Decode does not validate the pairing.
func (e *Event) Decode(v interface{}) error {
	if len(e.Payload) == 0 {
		return ErrEmptyPayload
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return ErrInvalidPayload
	}
	return nil
}

// ConnectedPayload acknowledges a successful handshake.
type ConnectedPayload struct {
	ChannelID string `json:"channelId"`
}

// PresencePayload is shared by UserConnected and UserDisconnected.
type PresencePayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// ArticleAssignedPayload notifies that an admin assigned an article.
type ArticleAssignedPayload struct {
	StudentID    string `json:"studentId"`
	ArticleID    string `json:"articleId"`
	ArticleTitle string `json:"articleTitle"`
}

// ArticleConsultedPayload notifies that a student opened an article.
type ArticleConsultedPayload struct {
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	ArticleID    string `json:"articleId"`
	ArticleTitle string `json:"articleTitle"`
}

// ReportUploadedPayload notifies that a student submitted a report.
type ReportUploadedPayload struct {
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	ArticleID    string `json:"articleId"`
	ArticleTitle string `json:"articleTitle"`
	ReportID     string `json:"reportId"`
	ReportTitle  string `json:"reportTitle"`
}

// CommentAddedPayload notifies that an admin commented on a report.
type CommentAddedPayload struct {
	ReportID    string `json:"reportId"`
	ArticleID   string `json:"articleId"`
	StudentID   string `json:"studentId"`
	CommentText string `json:"commentText"`
}

// PresenceEntry is one connected user as tracked client-side. At most one
// entry per user ID; a later UserConnected for the same ID replaces it.
type PresenceEntry struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Viewing  string `json:"viewing,omitempty"`
}

// InitialConnectedUsersPayload is the full presence snapshot replying to a
// getConnectedUsers request. It replaces, never merges with, the local list.
type InitialConnectedUsersPayload struct {
	Users []PresenceEntry `json:"users"`
}
