package activity

import (
	"context"
	"sync"
)

// MemoryJournal keeps the newest events in a bounded ring. It backs the
// activity endpoint when no Mongo journal is configured.
type MemoryJournal struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
}

func NewMemoryJournal(capacity int) *MemoryJournal {
	return &MemoryJournal{events: make([]Event, ClampLimit(capacity))}
}

func (m *MemoryJournal) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[m.next] = e
	m.next = (m.next + 1) % len(m.events)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (m *MemoryJournal) Recent(_ context.Context, limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.next
	if m.full {
		size = len(m.events)
	}
	limit = min(ClampLimit(limit), size)

	out := make([]Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.events)) % len(m.events)
		out = append(out, m.events[idx])
	}
	return out, nil
}
