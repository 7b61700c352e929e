package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"scholarboard/pkg/types"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// fakeBackend is a minimal messaging backend: it acks the handshake with a
// fixed channel ID, records inbound events and can push events to the client.
type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	conn     *websocket.Conn
	received []types.Event
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}

		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		ack, _ := types.NewEvent(types.EventConnected, types.ConnectedPayload{ChannelID: "chan-test"})
		b.mu.Lock()
		b.conn = conn
		conn.WriteJSON(ack)
		b.mu.Unlock()

		for {
			var event types.Event
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			b.mu.Lock()
			b.received = append(b.received, event)
			b.mu.Unlock()
		}
	}))

	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) url() string { return b.server.URL }

func (b *fakeBackend) push(t *testing.T, event *types.Event) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		t.Fatal("No client connected to fake backend")
	}
	if err := b.conn.WriteJSON(event); err != nil {
		t.Fatalf("Failed to push event: %v", err)
	}
}

// drop severs the channel from the backend side, as a network failure would.
func (b *fakeBackend) drop(t *testing.T) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		t.Fatal("No client connected to fake backend")
	}
	b.conn.Close()
}

func (b *fakeBackend) receivedTypes() []types.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.EventType, len(b.received))
	for i, event := range b.received {
		out[i] = event.Type
	}
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

func TestManager_OpenEstablishesChannel(t *testing.T) {
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	router := NewRouter(notifier)
	manager := NewManager(backend.url(), router, notifier)
	defer manager.Close()

	err := manager.Open(context.Background(), studentSession("2"), "token-abc")
	if err != nil {
		t.Fatalf("Expected successful open, got %v", err)
	}

	if manager.Status() != StatusConnected {
		t.Errorf("Expected connected status, got %s", manager.Status())
	}
	if manager.ChannelID() != "chan-test" {
		t.Errorf("Expected backend-assigned channel ID, got %q", manager.ChannelID())
	}

	// Entering connected issues the presence request.
	waitFor(t, 2*time.Second, func() bool {
		for _, eventType := range backend.receivedTypes() {
			if eventType == types.EventGetConnectedUsers {
				return true
			}
		}
		return false
	})
}

func TestManager_HandshakeCarriesTokenAndUserID(t *testing.T) {
	var query struct {
		mu      sync.Mutex
		token   string
		userID  string
		visited bool
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.mu.Lock()
		query.token = r.URL.Query().Get("token")
		query.userID = r.URL.Query().Get("user_id")
		query.visited = true
		query.mu.Unlock()

		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ack, _ := types.NewEvent(types.EventConnected, types.ConnectedPayload{ChannelID: "c1"})
		conn.WriteJSON(ack)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	manager := NewManager(server.URL, NewRouter(notifier), notifier)
	defer manager.Close()

	if err := manager.Open(context.Background(), studentSession("u42"), "tok-99"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	query.mu.Lock()
	defer query.mu.Unlock()
	if !query.visited {
		t.Fatal("Backend never saw the handshake")
	}
	if query.token != "tok-99" || query.userID != "u42" {
		t.Errorf("Expected {token, userId} auth, got token=%q user_id=%q", query.token, query.userID)
	}
}

func TestManager_InboundEventsDispatched(t *testing.T) {
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	router := NewRouter(notifier)
	manager := NewManager(backend.url(), router, notifier)
	defer manager.Close()

	if err := manager.Open(context.Background(), adminSession("admin1"), "token"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	backend.push(t, mustEvent(t, types.EventUserConnected, types.PresencePayload{UserID: "u9", UserName: "Eve"}))

	waitFor(t, 2*time.Second, func() bool {
		return router.Presence().Contains("u9")
	})
}

func TestManager_PresenceReplyReplacesList(t *testing.T) {
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	router := NewRouter(notifier)
	manager := NewManager(backend.url(), router, notifier)
	defer manager.Close()

	if err := manager.Open(context.Background(), adminSession("admin1"), "token"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	backend.push(t, mustEvent(t, types.EventUserConnected, types.PresencePayload{UserID: "old", UserName: "Old"}))
	waitFor(t, 2*time.Second, func() bool { return router.Presence().Contains("old") })

	backend.push(t, mustEvent(t, types.EventInitialConnectedUsers, types.InitialConnectedUsersPayload{
		Users: []types.PresenceEntry{{UserID: "5", UserName: "Eve"}},
	}))

	waitFor(t, 2*time.Second, func() bool {
		snapshot := router.Presence().Snapshot()
		return len(snapshot) == 1 && snapshot[0].UserID == "5"
	})
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	manager := NewManager(backend.url(), NewRouter(notifier), notifier)

	if err := manager.Close(); err != nil {
		t.Errorf("Close on idle manager should not fail, got %v", err)
	}

	if err := manager.Open(context.Background(), studentSession("2"), "token"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := manager.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := manager.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
	if manager.Status() != StatusDisconnected {
		t.Errorf("Expected disconnected after close, got %s", manager.Status())
	}
	if manager.ChannelID() != "" {
		t.Errorf("Expected channel ID cleared, got %q", manager.ChannelID())
	}
}

func TestManager_ReopenReplacesChannel(t *testing.T) {
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	manager := NewManager(backend.url(), NewRouter(notifier), notifier)
	defer manager.Close()

	if err := manager.Open(context.Background(), studentSession("2"), "token"); err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	if err := manager.Open(context.Background(), studentSession("2"), "token"); err != nil {
		t.Fatalf("Second open failed: %v", err)
	}
	if manager.Status() != StatusConnected {
		t.Errorf("Expected connected after reopen, got %s", manager.Status())
	}
}

func TestManager_TransportFailureClearsPresence(t *testing.T) {
	backend := newFakeBackend(t)
	notifier := &recordingNotifier{}
	router := NewRouter(notifier)
	manager := NewManager(backend.url(), router, notifier)
	defer manager.Close()

	if err := manager.Open(context.Background(), adminSession("admin1"), "token"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	backend.push(t, mustEvent(t, types.EventUserConnected, types.PresencePayload{UserID: "u9", UserName: "Eve"}))
	waitFor(t, 2*time.Second, func() bool { return router.Presence().Contains("u9") })

	backend.drop(t)

	waitFor(t, 2*time.Second, func() bool { return manager.Status() == StatusError })

	if router.Presence().Len() != 0 {
		t.Errorf("Expected presence cleared after transport failure, got %d entries", router.Presence().Len())
	}
}

func TestManager_OpenFailureRaisesOneNotification(t *testing.T) {
	// Plain HTTP server: the upgrade never happens.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no websocket here", http.StatusNotFound)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	manager := NewManager(server.URL, NewRouter(notifier), notifier)

	err := manager.Open(context.Background(), studentSession("2"), "token")
	if err == nil {
		t.Fatal("Expected open to fail against a non-websocket endpoint")
	}
	if manager.Status() != StatusError {
		t.Errorf("Expected error status, got %s", manager.Status())
	}

	notifier.mu.Lock()
	errCount := len(notifier.errors)
	text := ""
	if errCount > 0 {
		text = notifier.errors[0].title + " " + notifier.errors[0].message
	}
	notifier.mu.Unlock()

	if errCount != 1 {
		t.Fatalf("Expected exactly one error notification, got %d", errCount)
	}
	if !strings.Contains(text, "Connection Error") {
		t.Errorf("Unexpected notification text: %q", text)
	}
}
