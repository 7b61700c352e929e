package client

import (
	"sync"
	"time"
)

// DefaultActivityCapacity bounds the recent-activity view.
const DefaultActivityCapacity = 10

// ActivityRecord is one line in the recent-activity view. Derived state only,
// never sent over the channel.
type ActivityRecord struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityLog keeps the most recent N activity records, newest first. Oldest
// records fall off on overflow.
type ActivityLog struct {
	mu       sync.RWMutex
	records  []ActivityRecord
	capacity int
}

func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	return &ActivityLog{capacity: capacity}
}

// Add prepends a record, dropping the oldest if the log is full.
func (a *ActivityLog) Add(recordType, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	record := ActivityRecord{Type: recordType, Message: message, Timestamp: time.Now()}
	a.records = append([]ActivityRecord{record}, a.records...)
	if len(a.records) > a.capacity {
		a.records = a.records[:a.capacity]
	}
}

// Snapshot returns a copy of the records, newest first.
func (a *ActivityLog) Snapshot() []ActivityRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]ActivityRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of records held.
func (a *ActivityLog) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}
