package client

import (
	"context"
	"log"
	"sync"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

// Well-known routes. The navigator is the UI's routing surface; the session
// only decides when to move.
const (
	RouteRoot        = "/"
	RouteLogin       = "/login"
	RouteSignup      = "/signup"
	RouteAdminHome   = "/admin/dashboard"
	RouteStudentHome = "/student/dashboard"
)

// Navigator is the routing collaborator the session redirects through.
type Navigator interface {
	Navigate(route string)
	CurrentRoute() string
}

// NopNavigator ignores navigation. Useful for headless use.
type NopNavigator struct{}

func (NopNavigator) Navigate(string) {}

func (NopNavigator) CurrentRoute() string { return RouteRoot }

// SessionState holds the current authenticated identity and its credential
// token, and drives the channel lifecycle from session transitions: a set
// session opens the channel, a cleared session closes it. The channel is
// never open while the session is absent.
type SessionState struct {
	verifier  interfaces.TokenVerifier
	tokens    TokenStore
	navigator Navigator
	manager   *Manager

	mu       sync.RWMutex
	identity *types.Identity
	token    string

	listeners []func(*types.Identity)
}

// NewSessionState wires the session to its collaborators. navigator may be
// nil for headless use.
func NewSessionState(verifier interfaces.TokenVerifier, tokens TokenStore, navigator Navigator, manager *Manager) *SessionState {
	if navigator == nil {
		navigator = NopNavigator{}
	}
	return &SessionState{
		verifier:  verifier,
		tokens:    tokens,
		navigator: navigator,
		manager:   manager,
	}
}

// Identity returns the current identity, nil when unauthenticated.
func (s *SessionState) Identity() *types.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// Token returns the current credential token, empty when unauthenticated.
func (s *SessionState) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a session is present.
func (s *SessionState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// OnChange registers a listener invoked after every session transition with
// the new identity (nil on clear).
func (s *SessionState) OnChange(fn func(*types.Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetSession installs the identity, persists the token, opens the channel
// and redirects to the role's home when the user is still on an entry route.
// Already inside a role area means no redirect.
func (s *SessionState) SetSession(ctx context.Context, identity types.Identity, token string) {
	if err := s.tokens.Save(token); err != nil {
		log.Printf("Failed to persist token: %v", err)
	}

	s.mu.Lock()
	s.identity = &identity
	s.token = token
	s.mu.Unlock()

	if err := s.manager.Open(ctx, identity, token); err != nil {
		log.Printf("Channel open failed: %v", err)
	}

	if isEntryRoute(s.navigator.CurrentRoute()) {
		s.navigator.Navigate(homeRoute(identity.Role))
	}

	s.notify(&identity)
}

// ClearSession removes the persisted token, closes the channel and redirects
// to the login route unconditionally.
func (s *SessionState) ClearSession() {
	if err := s.tokens.Clear(); err != nil {
		log.Printf("Failed to clear token: %v", err)
	}

	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.manager.Close(); err != nil {
		log.Printf("Channel close failed: %v", err)
	}

	s.navigator.Navigate(RouteLogin)
	s.notify(nil)
}

// Restore re-derives the session from the persisted token at process start.
// An invalid or expired token is cleared silently and the session stays
// empty; no error surfaces and no redirect happens either way.
func (s *SessionState) Restore(ctx context.Context) error {
	token, err := s.tokens.Load()
	if err != nil {
		if err == ErrNoStoredToken {
			return nil
		}
		return err
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return err
	}
	if identity == nil {
		if err := s.tokens.Clear(); err != nil {
			log.Printf("Failed to clear invalid token: %v", err)
		}
		return nil
	}

	s.mu.Lock()
	s.identity = identity
	s.token = token
	s.mu.Unlock()

	if err := s.manager.Open(ctx, *identity, token); err != nil {
		log.Printf("Channel open failed: %v", err)
	}

	s.notify(identity)
	return nil
}

func (s *SessionState) notify(identity *types.Identity) {
	s.mu.RLock()
	listeners := append(([]func(*types.Identity))(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(identity)
	}
}

func isEntryRoute(route string) bool {
	switch route {
	case RouteRoot, RouteLogin, RouteSignup:
		return true
	}
	return false
}

func homeRoute(role types.Role) string {
	if role == types.RoleAdmin {
		return RouteAdminHome
	}
	return RouteStudentHome
}
