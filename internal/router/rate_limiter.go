package router

import (
	"sync"
	"time"
)

// RateLimiter caps each client at 100 events per minute.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimit
}

type clientLimit struct {
	eventCount  int
	windowStart time.Time
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimit),
	}
}

// Allow reports whether the client may emit another event in the current
// minute window.
func (rl *RateLimiter) Allow(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	limit, exists := rl.clients[userID]
	if !exists {
		rl.clients[userID] = &clientLimit{eventCount: 1, windowStart: now}
		return true
	}

	if now.Sub(limit.windowStart) >= time.Minute {
		limit.eventCount = 1
		limit.windowStart = now
		return true
	}

	if limit.eventCount >= 100 {
		return false
	}

	limit.eventCount++
	return true
}

// Cleanup removes stale client entries. Call periodically.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for userID, limit := range rl.clients {
		if now.Sub(limit.windowStart) > 5*time.Minute {
			delete(rl.clients, userID)
		}
	}
}
