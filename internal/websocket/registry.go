package websocket

import (
	"log"
	"sort"
	"sync"

	"scholarboard/pkg/types"
)

// Registry tracks live connections, partitioned by role for fan-out lookups.
// It is the source of the presence snapshot served to clients.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]*Connection // userID -> Connection
	admins      map[string]*Connection
	students    map[string]*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]*Connection),
		admins:      make(map[string]*Connection),
		students:    make(map[string]*Connection),
	}
}

// RegisterConnection adds a connection to all maps atomically. An existing
// connection for the same user is replaced and closed asynchronously.
func (r *Registry) RegisterConnection(conn *Connection) error {
	if conn == nil {
		return ErrNilConnection
	}
	if !conn.IsAuthenticated() {
		return ErrConnectionNotAuthenticated
	}

	userID := conn.UserID()
	role := conn.Role()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.connections[userID]; exists {
		// Close asynchronously; Close can block on the writer goroutine.
		go func() {
			if err := existing.Close(); err != nil {
				log.Printf("Failed to close replaced connection: %v", err)
			}
		}()
	}

	r.connections[userID] = conn

	switch role {
	case types.RoleAdmin:
		r.admins[userID] = conn
	case types.RoleStudent:
		r.students[userID] = conn
	}

	return nil
}

// UnregisterConnection removes a connection. Idempotent, and only removes the
// exact instance that is registered so a stale connection cannot evict its
// replacement.
func (r *Registry) UnregisterConnection(conn *Connection) {
	if conn == nil {
		return
	}

	userID := conn.UserID()

	r.mu.Lock()
	defer r.mu.Unlock()

	registered, exists := r.connections[userID]
	if !exists || registered != conn {
		return
	}

	delete(r.connections, userID)
	delete(r.admins, userID)
	delete(r.students, userID)
}

// GetUserConnection returns the current connection for a user.
func (r *Registry) GetUserConnection(userID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, exists := r.connections[userID]
	return conn, exists
}

// GetAllConnections returns every live connection.
func (r *Registry) GetAllConnections() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connections := make([]*Connection, 0, len(r.connections))
	for _, conn := range r.connections {
		connections = append(connections, conn)
	}
	return connections
}

// PresenceSnapshot returns the connected users, sorted by user ID for a
// stable wire representation.
func (r *Registry) PresenceSnapshot() []types.PresenceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]types.PresenceEntry, 0, len(r.connections))
	for _, conn := range r.connections {
		entries = append(entries, types.PresenceEntry{
			UserID:   conn.UserID(),
			UserName: conn.UserName(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries
}

// GetStats returns registry statistics for the health endpoint.
func (r *Registry) GetStats() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]int{
		"total_connections":   len(r.connections),
		"admin_connections":   len(r.admins),
		"student_connections": len(r.students),
	}
}
