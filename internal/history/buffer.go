// Package history keeps the bounded time series of evaluation ticks
// that feeds trend charts and CSV export.
package history

import (
	"sync"
	"time"

	"github.com/geosentinal/slope-risk-service/internal/domain"
)

// DefaultCapacity is the number of ticks retained when none is configured.
const DefaultCapacity = 200

// Record is one tick's readings and per-bench scores. Append-only;
// treated as immutable once stored.
type Record struct {
	TickID string    `json:"tick_id"`
	At     time.Time `json:"at"`

	Group1 domain.Reading `json:"group1"`
	Group2 domain.Reading `json:"group2"`

	// Scores maps bench id to the recorded score, rounded to one
	// decimal as displayed.
	Scores map[string]float64 `json:"scores"`
}

// Buffer is a FIFO of Records with a fixed capacity. Append and trim
// happen under one lock so concurrent ticks can neither lose records
// nor exceed the cap.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	records  []Record
}

// NewBuffer creates a Buffer retaining at most capacity records.
// Non-positive capacities fall back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Append adds a record, evicting the oldest when the buffer is full.
func (b *Buffer) Append(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = append(b.records, rec)
	if len(b.records) > b.capacity {
		overflow := len(b.records) - b.capacity
		// Reallocate so evicted records do not pin the backing array.
		b.records = append(b.records[:0:0], b.records[overflow:]...)
	}
}

// Snapshot returns a copy of the retained records, oldest first.
func (b *Buffer) Snapshot() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// Len returns the number of retained records.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Capacity returns the configured cap.
func (b *Buffer) Capacity() int { return b.capacity }
