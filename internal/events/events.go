// Package events records document mutations in a bounded in-memory log
// so the presentation layer can show a recent-activity feed.
package events

import (
	"sync"
	"time"
)

// EventType represents the kind of mutation that occurred.
type EventType string

const (
	// EventTypePageCreated indicates a new page was created
	EventTypePageCreated EventType = "page_created"
	// EventTypePageUpdated indicates page metadata or its block list changed
	EventTypePageUpdated EventType = "page_updated"
	// EventTypePageDeleted indicates a page and its blocks were removed
	EventTypePageDeleted EventType = "page_deleted"
	// EventTypeBlockInserted indicates a block was spliced into a page
	EventTypeBlockInserted EventType = "block_inserted"
	// EventTypeBlockUpdated indicates a block's fields changed
	EventTypeBlockUpdated EventType = "block_updated"
	// EventTypeBlockDeleted indicates a block was removed from a page
	EventTypeBlockDeleted EventType = "block_deleted"
	// EventTypeBlocksAppended indicates generated blocks were appended
	EventTypeBlocksAppended EventType = "blocks_appended"
	// EventTypeGenerationStarted indicates a generation call went out for a page
	EventTypeGenerationStarted EventType = "generation_started"
	// EventTypeGenerationFinished indicates a generation call resolved
	EventTypeGenerationFinished EventType = "generation_finished"
)

// IsValid checks if the event type value is valid
func (t EventType) IsValid() bool {
	switch t {
	case EventTypePageCreated, EventTypePageUpdated, EventTypePageDeleted,
		EventTypeBlockInserted, EventTypeBlockUpdated, EventTypeBlockDeleted,
		EventTypeBlocksAppended, EventTypeGenerationStarted, EventTypeGenerationFinished:
		return true
	}
	return false
}

// Event is a single recorded mutation
type Event struct {
	Type      EventType `json:"type"`
	PageID    string    `json:"page_id"`
	BlockID   string    `json:"block_id,omitempty"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultCapacity bounds the log when no capacity is configured
const DefaultCapacity = 500

// Log is a bounded, concurrency-safe event log. When the log is full
// the oldest events are discarded first.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Event
}

// NewLog creates an event log holding at most capacity events.
// A capacity of zero or less falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Record appends an event, stamping it with the current time if the
// caller left Timestamp zero.
func (l *Log) Record(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, ev)
	if excess := len(l.entries) - l.capacity; excess > 0 {
		l.entries = append(l.entries[:0], l.entries[excess:]...)
	}
}

// Recent returns up to limit events, newest first. A limit of zero or
// less returns everything the log currently holds.
func (l *Log) Recent(limit int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len reports how many events the log currently holds
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
