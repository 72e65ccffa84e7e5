package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// isoLayout UTC with millisecond precision, so strings sort the same way as instants
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewEventID globally unique event id (UUID v4)
func NewEventID() string {
	return uuid.NewString()
}

// NowISO current UTC time as ISO-8601. Never goes backwards within the process,
// even when the wall clock is stepped back.
func NowISO() string {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	now := time.Now
	if clock.now != nil {
		now = clock.now
	}
	t := now().UTC().Truncate(time.Millisecond)
	if t.Before(clock.last) {
		t = clock.last
	}
	clock.last = t
	return t.Format(isoLayout)
}
