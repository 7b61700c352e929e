package client

import (
	"fmt"
	"log"
	"sync"

	"scholarboard/pkg/types"
)

// Router dispatches inbound events to registered handlers, applying the
// per-role recipient filters so a user only reacts to events relevant to
// them. Presence-list maintenance is built in, independent of any registered
// handler; the recent-activity log is built in for admin sessions.
//
// Handlers run on the channel's read goroutine, in arrival order. A handler
// for an event type fires only when that event passes the session's filter.
type Router struct {
	mu       sync.RWMutex
	attached bool
	session  types.Identity

	notifier Notifier
	presence *PresenceList
	activity *ActivityLog

	articleAssignedHandlers  []func(types.ArticleAssignedPayload)
	commentAddedHandlers     []func(types.CommentAddedPayload)
	reportUploadedHandlers   []func(types.ReportUploadedPayload)
	userConnectedHandlers    []func(types.PresencePayload)
	userDisconnectedHandlers []func(types.PresencePayload)
	articleConsultedHandlers []func(types.ArticleConsultedPayload)
	presenceReplacedHandlers []func([]types.PresenceEntry)
}

// NewRouter creates a router with its own presence list and activity log.
func NewRouter(notifier Notifier) *Router {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Router{
		notifier: notifier,
		presence: NewPresenceList(),
		activity: NewActivityLog(DefaultActivityCapacity),
	}
}

// Presence exposes the presence list for read-only snapshots.
func (r *Router) Presence() *PresenceList { return r.presence }

// Activity exposes the recent-activity log for read-only snapshots.
func (r *Router) Activity() *ActivityLog { return r.activity }

// Attach binds the router to a session and starts accepting events.
func (r *Router) Attach(session types.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = session
	r.attached = true
}

// Detach stops dispatch and drops every registered handler. Events delivered
// after Detach produce no handler invocation; registrations do not survive
// across reconnects.
func (r *Router) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attached = false
	r.session = types.Identity{}
	r.articleAssignedHandlers = nil
	r.commentAddedHandlers = nil
	r.reportUploadedHandlers = nil
	r.userConnectedHandlers = nil
	r.userDisconnectedHandlers = nil
	r.articleConsultedHandlers = nil
	r.presenceReplacedHandlers = nil
}

// Handler registration. One callback list per event type; every registered
// callback runs once per passing event.

func (r *Router) OnArticleAssigned(fn func(types.ArticleAssignedPayload)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articleAssignedHandlers = append(r.articleAssignedHandlers, fn)
}

func (r *Router) OnCommentAdded(fn func(types.CommentAddedPayload)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commentAddedHandlers = append(r.commentAddedHandlers, fn)
}

func (r *Router) OnReportUploaded(fn func(types.ReportUploadedPayload)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reportUploadedHandlers = append(r.reportUploadedHandlers, fn)
}

func (r *Router) OnUserConnected(fn func(types.PresencePayload)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userConnectedHandlers = append(r.userConnectedHandlers, fn)
}

func (r *Router) OnUserDisconnected(fn func(types.PresencePayload)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userDisconnectedHandlers = append(r.userDisconnectedHandlers, fn)
}

func (r *Router) OnArticleConsulted(fn func(types.ArticleConsultedPayload)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articleConsultedHandlers = append(r.articleConsultedHandlers, fn)
}

func (r *Router) OnPresenceReplaced(fn func([]types.PresenceEntry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presenceReplacedHandlers = append(r.presenceReplacedHandlers, fn)
}

// Dispatch routes one inbound event. No-op when detached. Unknown event
// types are logged and dropped.
func (r *Router) Dispatch(event *types.Event) {
	r.mu.RLock()
	if !r.attached {
		r.mu.RUnlock()
		return
	}
	session := r.session
	r.mu.RUnlock()

	switch event.Type {
	case types.EventArticleAssigned:
		r.handleArticleAssigned(event, session)
	case types.EventCommentAdded:
		r.handleCommentAdded(event, session)
	case types.EventReportUploaded:
		r.handleReportUploaded(event, session)
	case types.EventUserConnected:
		r.handleUserConnected(event, session)
	case types.EventUserDisconnected:
		r.handleUserDisconnected(event, session)
	case types.EventArticleConsulted:
		r.handleArticleConsulted(event, session)
	case types.EventInitialConnectedUsers:
		r.handleInitialConnectedUsers(event)
	default:
		log.Printf("Dropping event of unknown type %q", event.Type)
	}
}

// ArticleAssigned: the assigned student gets a personal notification; admins
// get an informational one. Other students see nothing.
func (r *Router) handleArticleAssigned(event *types.Event, session types.Identity) {
	var payload types.ArticleAssignedPayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad ArticleAssigned payload: %v", err)
		return
	}

	switch {
	case session.Role == types.RoleStudent && payload.StudentID == session.ID:
		r.notifier.Info("New Article Assigned",
			fmt.Sprintf("Professor assigned you the article: %q", payload.ArticleTitle))
	case session.Role == types.RoleAdmin:
		r.notifier.Info("Article Assigned",
			fmt.Sprintf("Article %q assigned to student ID %s.", payload.ArticleTitle, payload.StudentID))
	default:
		return
	}

	for _, fn := range r.handlersArticleAssigned() {
		fn(payload)
	}
}

// CommentAdded: the commented-on student gets a notification; admins log it
// to the activity view unconditionally.
func (r *Router) handleCommentAdded(event *types.Event, session types.Identity) {
	var payload types.CommentAddedPayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad CommentAdded payload: %v", err)
		return
	}

	switch {
	case session.Role == types.RoleStudent && payload.StudentID == session.ID:
		r.notifier.Info("New Comment",
			fmt.Sprintf("Professor added a comment on your report for article ID %s.", payload.ArticleID))
	case session.Role == types.RoleAdmin:
		r.activity.Add("comment", fmt.Sprintf("Comment added to report %s", payload.ReportID))
	default:
		return
	}

	for _, fn := range r.handlersCommentAdded() {
		fn(payload)
	}
}

// ReportUploaded: admins only. The uploading student learns of success from
// their own request, never from the inbound channel. Presence and activity
// are untouched.
func (r *Router) handleReportUploaded(event *types.Event, session types.Identity) {
	if session.Role != types.RoleAdmin {
		return
	}

	var payload types.ReportUploadedPayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad ReportUploaded payload: %v", err)
		return
	}

	r.notifier.Info("Report Uploaded",
		fmt.Sprintf("%s uploaded a report: %q for article ID %s.",
			payload.StudentName, payload.ReportTitle, payload.ArticleID))

	for _, fn := range r.handlersReportUploaded() {
		fn(payload)
	}
}

// UserConnected: presence upsert happens for every role; the notification
// and handlers are admin-only and skip the session's own user.
func (r *Router) handleUserConnected(event *types.Event, session types.Identity) {
	var payload types.PresencePayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad UserConnected payload: %v", err)
		return
	}

	r.presence.Upsert(types.PresenceEntry{UserID: payload.UserID, UserName: payload.UserName})

	if session.Role != types.RoleAdmin || payload.UserID == session.ID {
		return
	}

	r.notifier.Info("", fmt.Sprintf("%s connected.", payload.UserName))
	r.activity.Add("connect", fmt.Sprintf("%s connected.", payload.UserName))

	for _, fn := range r.handlersUserConnected() {
		fn(payload)
	}
}

// UserDisconnected: mirror of UserConnected with a presence removal.
func (r *Router) handleUserDisconnected(event *types.Event, session types.Identity) {
	var payload types.PresencePayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad UserDisconnected payload: %v", err)
		return
	}

	r.presence.Remove(payload.UserID)

	if session.Role != types.RoleAdmin || payload.UserID == session.ID {
		return
	}

	r.notifier.Info("", fmt.Sprintf("%s disconnected.", payload.UserName))
	r.activity.Add("disconnect", fmt.Sprintf("%s disconnected.", payload.UserName))

	for _, fn := range r.handlersUserDisconnected() {
		fn(payload)
	}
}

// ArticleConsulted: the viewing entry updates for every role; notification,
// activity and handlers are admin-only with no self-notification.
func (r *Router) handleArticleConsulted(event *types.Event, session types.Identity) {
	var payload types.ArticleConsultedPayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad ArticleConsulted payload: %v", err)
		return
	}

	r.presence.SetViewing(payload.UserID, payload.ArticleTitle)

	if session.Role != types.RoleAdmin || payload.UserID == session.ID {
		return
	}

	r.notifier.Info("", fmt.Sprintf("%s is viewing article: %q.", payload.UserName, payload.ArticleTitle))
	r.activity.Add("view", fmt.Sprintf("%s viewing: %s", payload.UserName, payload.ArticleTitle))

	for _, fn := range r.handlersArticleConsulted() {
		fn(payload)
	}
}

// InitialConnectedUsers: the reply to getConnectedUsers. The snapshot
// replaces the local list wholesale, for every role.
func (r *Router) handleInitialConnectedUsers(event *types.Event) {
	var payload types.InitialConnectedUsersPayload
	if err := event.Decode(&payload); err != nil {
		log.Printf("Bad InitialConnectedUsers payload: %v", err)
		return
	}

	r.presence.Replace(payload.Users)

	snapshot := r.presence.Snapshot()
	for _, fn := range r.handlersPresenceReplaced() {
		fn(snapshot)
	}
}

// Handler-list copies taken under the lock so handlers run without holding it.

func (r *Router) handlersArticleAssigned() []func(types.ArticleAssignedPayload) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func(types.ArticleAssignedPayload))(nil), r.articleAssignedHandlers...)
}

func (r *Router) handlersCommentAdded() []func(types.CommentAddedPayload) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func(types.CommentAddedPayload))(nil), r.commentAddedHandlers...)
}

func (r *Router) handlersReportUploaded() []func(types.ReportUploadedPayload) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func(types.ReportUploadedPayload))(nil), r.reportUploadedHandlers...)
}

func (r *Router) handlersUserConnected() []func(types.PresencePayload) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func(types.PresencePayload))(nil), r.userConnectedHandlers...)
}

func (r *Router) handlersUserDisconnected() []func(types.PresencePayload) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func(types.PresencePayload))(nil), r.userDisconnectedHandlers...)
}

func (r *Router) handlersArticleConsulted() []func(types.ArticleConsultedPayload) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func(types.ArticleConsultedPayload))(nil), r.articleConsultedHandlers...)
}

func (r *Router) handlersPresenceReplaced() []func([]types.PresenceEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(([]func([]types.PresenceEntry))(nil), r.presenceReplacedHandlers...)
}
