package ratelimit

import (
	"context"
	"sync"
	"time"
)

// StatsEvent is one limiter decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Route   string // route pattern, not the raw path
	At      time.Time
}

// StatsStore persists decisions. Errors are logged by the middleware and
// never fail a request.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

type Counters struct {
	Allowed int64 `json:"allowed"`
	Denied  int64 `json:"denied"`
}

func (c *Counters) add(allowed bool) {
	if allowed {
		c.Allowed++
		return
	}
	c.Denied++
}

// MemoryStatsStore keeps counters in process memory, without expiry.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
	byKey   map[string]Counters
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
}

func (s *MemoryStatsStore) Record(_ context.Context, ev StatsEvent) error {
	route := ev.Method + " " + ev.Route

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Allowed)

	c := s.byRoute[route]
	c.add(ev.Allowed)
	s.byRoute[route] = c

	k := s.byKey[ev.Key]
	k.add(ev.Allowed)
	s.byKey[ev.Key] = k
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byRoute))
	for k, v := range s.byRoute {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byKey))
	for k, v := range s.byKey {
		out[k] = v
	}
	return out
}
