package client

import (
	"context"
	"sync"
	"testing"

	"scholarboard/pkg/types"
)

// fakeNavigator records navigation for assertions.
type fakeNavigator struct {
	mu      sync.Mutex
	current string
	history []string
}

func (n *fakeNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
	n.history = append(n.history, route)
}

func (n *fakeNavigator) CurrentRoute() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == "" {
		return RouteRoot
	}
	return n.current
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}

// fakeVerifier resolves one known token; everything else is invalid.
type fakeVerifier struct {
	token    string
	identity *types.Identity
}

func (v *fakeVerifier) Verify(_ context.Context, token string) (*types.Identity, error) {
	if token == v.token {
		return v.identity, nil
	}
	return nil, nil
}

func newTestSession(t *testing.T) (*SessionState, *fakeBackend, *MemoryTokenStore, *fakeNavigator, *recordingNotifier) {
	t.Helper()
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	router := NewRouter(notifier)
	manager := NewManager(backend.url(), router, notifier)
	t.Cleanup(func() { manager.Close() })

	tokens := NewMemoryTokenStore()
	navigator := &fakeNavigator{}
	admin := types.Identity{ID: "admin1", Name: "Prof", Role: types.RoleAdmin}
	verifier := &fakeVerifier{token: "good-token", identity: &admin}

	return NewSessionState(verifier, tokens, navigator, manager), backend, tokens, navigator, notifier
}

func TestSession_SetSessionRedirectsFromEntryRoute(t *testing.T) {
	session, _, tokens, navigator, _ := newTestSession(t)
	navigator.current = RouteLogin

	session.SetSession(context.Background(), adminSession("admin1"), "good-token")

	if !session.IsAuthenticated() {
		t.Fatal("Expected authenticated session")
	}
	if navigator.CurrentRoute() != RouteAdminHome {
		t.Errorf("Expected redirect to admin home, got %q", navigator.CurrentRoute())
	}
	if stored, err := tokens.Load(); err != nil || stored != "good-token" {
		t.Errorf("Expected token persisted, got %q err=%v", stored, err)
	}
}

func TestSession_SetSessionStudentGoesToStudentHome(t *testing.T) {
	session, _, _, navigator, _ := newTestSession(t)
	navigator.current = RouteSignup

	session.SetSession(context.Background(), studentSession("2"), "good-token")

	if navigator.CurrentRoute() != RouteStudentHome {
		t.Errorf("Expected redirect to student home, got %q", navigator.CurrentRoute())
	}
}

func TestSession_SetSessionNoRedirectInsideApp(t *testing.T) {
	session, _, _, navigator, _ := newTestSession(t)
	navigator.current = "/admin/articles"

	session.SetSession(context.Background(), adminSession("admin1"), "good-token")

	if len(navigator.visited()) != 0 {
		t.Errorf("Expected no navigation from an in-app route, got %v", navigator.visited())
	}
}

func TestSession_ClearSessionRedirectsAndCloses(t *testing.T) {
	session, _, tokens, navigator, _ := newTestSession(t)
	navigator.current = RouteLogin

	session.SetSession(context.Background(), adminSession("admin1"), "good-token")
	session.ClearSession()

	if session.IsAuthenticated() {
		t.Error("Expected unauthenticated session after clear")
	}
	if navigator.CurrentRoute() != RouteLogin {
		t.Errorf("Expected redirect to login, got %q", navigator.CurrentRoute())
	}
	if _, err := tokens.Load(); err != ErrNoStoredToken {
		t.Errorf("Expected token removed, got %v", err)
	}
}

func TestSession_RestoreWithValidToken(t *testing.T) {
	session, _, tokens, navigator, _ := newTestSession(t)
	tokens.Save("good-token")

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if !session.IsAuthenticated() {
		t.Fatal("Expected session restored from persisted token")
	}
	identity := session.Identity()
	if identity.ID != "admin1" {
		t.Errorf("Expected admin1, got %q", identity.ID)
	}
	if len(navigator.visited()) != 0 {
		t.Errorf("Restore must not navigate, got %v", navigator.visited())
	}
}

func TestSession_RestoreInvalidTokenClearsSilently(t *testing.T) {
	session, _, tokens, navigator, notifier := newTestSession(t)
	tokens.Save("expired-token")

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("Restore must not surface invalid-token errors, got %v", err)
	}

	if session.IsAuthenticated() {
		t.Error("Expected session to stay empty")
	}
	if _, err := tokens.Load(); err != ErrNoStoredToken {
		t.Errorf("Expected invalid token cleared, got %v", err)
	}
	if len(navigator.visited()) != 0 {
		t.Errorf("Expected no navigation, got %v", navigator.visited())
	}
	if notifier.infoCount() != 0 || notifier.warnCount() != 0 {
		t.Error("Expected no notification for a silently cleared token")
	}
}

func TestSession_RestoreWithoutToken(t *testing.T) {
	session, _, _, _, _ := newTestSession(t)

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("Restore with no token must be a no-op, got %v", err)
	}
	if session.IsAuthenticated() {
		t.Error("Expected unauthenticated session")
	}
}

func TestSession_ChangeListenersRun(t *testing.T) {
	session, _, _, _, _ := newTestSession(t)

	var transitions []*types.Identity
	session.OnChange(func(identity *types.Identity) {
		transitions = append(transitions, identity)
	})

	session.SetSession(context.Background(), adminSession("admin1"), "good-token")
	session.ClearSession()

	if len(transitions) != 2 {
		t.Fatalf("Expected two transitions, got %d", len(transitions))
	}
	if transitions[0] == nil || transitions[0].ID != "admin1" {
		t.Error("Expected first transition to carry the identity")
	}
	if transitions[1] != nil {
		t.Error("Expected second transition to be nil (cleared)")
	}
}
