// Package ratelimit implements the per-client fixed-window admission quota
// used in front of the booking endpoints, plus best-effort statistics sinks
// for admission decisions.
package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"
)

const (
	defaultShards  = 32
	defaultMaxKeys = 10000
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Entry is the per-client window state.
type Entry struct {
	Count         int
	WindowResetAt time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// FixedWindow admits at most limit requests per key in each window. The
// window for a key starts with its first admitted request and is replaced
// wholesale once it has elapsed, so bursts of up to 2*limit across a window
// boundary are possible.
//
// The key set is bounded: expired windows are swept by the janitor, and a
// full shard evicts the entry whose window ends soonest.
type FixedWindow struct {
	limit       int
	window      time.Duration
	maxPerShard int
	shards      []*shard
	now         func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

type Option func(*FixedWindow)

// WithMaxKeys caps the number of tracked clients across all shards.
func WithMaxKeys(n int) Option {
	return func(l *FixedWindow) {
		if n > 0 {
			l.maxPerShard = (n + len(l.shards) - 1) / len(l.shards)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *FixedWindow) {
		if now != nil {
			l.now = now
		}
	}
}

func NewFixedWindow(limit int, window time.Duration, opts ...Option) *FixedWindow {
	l := &FixedWindow{
		limit:  limit,
		window: window,
		shards: make([]*shard, defaultShards),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string]*Entry)}
	}
	l.maxPerShard = (defaultMaxKeys + defaultShards - 1) / defaultShards

	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FixedWindow) Limit() int {
	return l.limit
}

func (l *FixedWindow) Window() time.Duration {
	return l.window
}

// Admit records one request for key and reports whether it fits in the
// current window. The read-check-increment is atomic per key.
func (l *FixedWindow) Admit(key string) Decision {
	s := l.shardFor(key)
	now := l.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !now.Before(entry.WindowResetAt) {
		if !ok && len(s.entries) >= l.maxPerShard {
			l.makeRoom(s, now)
		}
		entry = &Entry{Count: 1, WindowResetAt: now.Add(l.window)}
		s.entries[key] = entry
		return Decision{Allowed: true, Remaining: l.limit - 1, ResetAt: entry.WindowResetAt}
	}

	if entry.Count < l.limit {
		entry.Count++
		return Decision{Allowed: true, Remaining: l.limit - entry.Count, ResetAt: entry.WindowResetAt}
	}

	return Decision{Allowed: false, Remaining: 0, ResetAt: entry.WindowResetAt}
}

// Peek returns a copy of the window state for key without touching it.
func (l *FixedWindow) Peek(key string) (Entry, bool) {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Len reports how many clients are currently tracked.
func (l *FixedWindow) Len() int {
	n := 0
	for _, s := range l.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Sweep drops every entry whose window has elapsed and returns how many
// were removed.
func (l *FixedWindow) Sweep() int {
	now := l.now()
	removed := 0
	for _, s := range l.shards {
		s.mu.Lock()
		removed += sweepShard(s, now)
		s.mu.Unlock()
	}
	return removed
}

// StartJanitor sweeps expired windows every interval until Stop is called.
func (l *FixedWindow) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Sweep()
			case <-l.stopCh:
				return
			}
		}
	}()
}

func (l *FixedWindow) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *FixedWindow) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return l.shards[h.Sum32()%uint32(len(l.shards))]
}

// makeRoom must be called with s.mu held.
func (l *FixedWindow) makeRoom(s *shard, now time.Time) {
	if sweepShard(s, now) > 0 {
		return
	}

	var victim string
	var soonest time.Time
	for key, entry := range s.entries {
		if victim == "" || entry.WindowResetAt.Before(soonest) {
			victim = key
			soonest = entry.WindowResetAt
		}
	}
	if victim != "" {
		delete(s.entries, victim)
	}
}

func sweepShard(s *shard, now time.Time) int {
	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.WindowResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
