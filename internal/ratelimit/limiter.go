package ratelimit

import (
	"math"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds.
func (d Decision) RetryAfterSeconds() int {
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

type entry struct {
	count   int
	resetAt time.Time
}

// FixedWindow допускает не более limit запросов на ключ в течение window.
type FixedWindow struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	clock   clock.PassiveClock
}

type Option func(*FixedWindow)

func WithClock(clk clock.PassiveClock) Option {
	return func(l *FixedWindow) { l.clock = clk }
}

func NewFixedWindow(limit int, window time.Duration, opts ...Option) *FixedWindow {
	l := &FixedWindow{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		clock:   clock.RealClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FixedWindow) Limit() int                { return l.limit }
func (l *FixedWindow) Window() time.Duration     { return l.window }
func (l *FixedWindow) Allow(key string) Decision { return l.Check(key, l.clock.Now()) }

// Check admits or denies one request for key at now. The read and the
// increment happen under one lock.
func (l *FixedWindow) Check(key string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{resetAt: now.Add(l.window)}
		l.entries[key] = e
	}

	if e.count >= l.limit {
		return Decision{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: e.resetAt.Sub(now),
		}
	}

	e.count++
	return Decision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - e.count,
		ResetAt:   e.resetAt,
	}
}

// Len returns the number of tracked keys. Keys are never evicted.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset drops every entry.
func (l *FixedWindow) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]*entry)
}
