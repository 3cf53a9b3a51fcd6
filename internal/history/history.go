package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry records one ask outcome, newest kept first.
type Entry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	SQL       string    `json:"sql"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	RowCount  int       `json:"row_count"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusOK              = "ok"
	StatusTranslateFailed = "translate_failed"
	StatusRejected        = "rejected"
	StatusQueryFailed     = "query_failed"
)

// Log is a fixed-capacity in-memory record of recent asks.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 50
	}
	return &Log{capacity: capacity}
}

// Record stamps the entry with an ID and timestamp and prepends it,
// evicting the oldest entry when at capacity.
func (l *Log) Record(entry Entry) Entry {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return entry
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything retained.
func (l *Log) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]Entry, limit)
	copy(out, l.entries[:limit])
	return out
}

// Len reports the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
