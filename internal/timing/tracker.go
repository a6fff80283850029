// Package timing records how long named editor operations take.
package timing

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Operation names recorded by the editor.
const (
	Load      = "load"
	Transform = "transform"
	Frame     = "frame"
)

// maxSamples bounds the history kept per operation.
const maxSamples = 256

type Tracker struct {
	clock   clockwork.Clock
	mu      sync.RWMutex
	timings map[string][]time.Duration
	counts  map[string]uint64
	enabled bool
}

func NewTracker(clock clockwork.Clock) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		clock:   clock,
		timings: make(map[string][]time.Duration),
		counts:  make(map[string]uint64),
		enabled: true,
	}
}

// Start begins timing operation. Call the returned func when it is done.
// A nil Tracker is valid and records nothing.
func (t *Tracker) Start(operation string) func() time.Duration {
	if t == nil {
		return func() time.Duration { return 0 }
	}
	start := t.clock.Now()
	return func() time.Duration {
		d := t.clock.Since(start)
		t.Record(operation, d)
		return d
	}
}

func (t *Tracker) Record(operation string, d time.Duration) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}

	samples := append(t.timings[operation], d)
	if len(samples) > maxSamples {
		samples = samples[len(samples)-maxSamples:]
	}
	t.timings[operation] = samples
	t.counts[operation]++
}

func (t *Tracker) GetTimings(operation string) []time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	timings := t.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

// Count is the total number of recordings, including ones evicted from history.
func (t *Tracker) Count(operation string) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[operation]
}

func (t *Tracker) GetAverageTime(operation string) time.Duration {
	timings := t.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range timings {
		total += d
	}
	return total / time.Duration(len(timings))
}

// Summary returns count and average per operation, suitable for log fields.
func (t *Tracker) Summary() map[string]interface{} {
	t.mu.RLock()
	operations := make([]string, 0, len(t.timings))
	for op := range t.timings {
		operations = append(operations, op)
	}
	t.mu.RUnlock()
	sort.Strings(operations)

	out := make(map[string]interface{}, len(operations)*2)
	for _, op := range operations {
		out[op+"_count"] = t.Count(op)
		out[op+"_avg_ms"] = float64(t.GetAverageTime(op).Microseconds()) / 1000
	}
	return out
}

func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// Reset forgets operation, or everything when operation is empty.
func (t *Tracker) Reset(operation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if operation == "" {
		t.timings = make(map[string][]time.Duration)
		t.counts = make(map[string]uint64)
		return
	}
	delete(t.timings, operation)
	delete(t.counts, operation)
}
