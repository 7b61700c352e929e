package client

import (
	"sync"

	"scholarboard/pkg/types"
)

// PresenceList tracks the set of currently connected users. At most one entry
// per user ID. Owned by the Router; UI code reads snapshots only.
type PresenceList struct {
	mu      sync.RWMutex
	entries []types.PresenceEntry
}

func NewPresenceList() *PresenceList {
	return &PresenceList{}
}

// Upsert adds the user, or replaces the existing entry for the same ID.
func (p *PresenceList) Upsert(entry types.PresenceEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, existing := range p.entries {
		if existing.UserID == entry.UserID {
			p.entries[i] = entry
			return
		}
	}
	p.entries = append(p.entries, entry)
}

// SetViewing records the article a user is currently reading. No-op when the
// user is not in the list; a later call for the same user replaces the title.
func (p *PresenceList) SetViewing(userID, articleTitle string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, existing := range p.entries {
		if existing.UserID == userID {
			p.entries[i].Viewing = articleTitle
			return
		}
	}
}

// Remove drops the entry for the user ID, if present.
func (p *PresenceList) Remove(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, existing := range p.entries {
		if existing.UserID == userID {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return
		}
	}
}

// Replace swaps the whole list for the given snapshot. Used for the
// InitialConnectedUsers reply; prior entries are discarded, not merged.
func (p *PresenceList) Replace(entries []types.PresenceEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = make([]types.PresenceEntry, len(entries))
	copy(p.entries, entries)
}

// Clear empties the list.
func (p *PresenceList) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = nil
}

// Snapshot returns a copy of the current entries.
func (p *PresenceList) Snapshot() []types.PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]types.PresenceEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Contains reports whether the user ID is present.
func (p *PresenceList) Contains(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, existing := range p.entries {
		if existing.UserID == userID {
			return true
		}
	}
	return false
}

// Len returns the number of connected users.
func (p *PresenceList) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
