// Package memo is the keyed, TTL-scoped cache placed in front of every
// external lookup. Concurrent misses for one key share a single fetch.
package memo

import (
	"strings"
	"sync"
	"time"
)

// Store is a thread-safe LRU cache whose entries expire after a TTL.
type Store struct {
	mu      sync.Mutex
	maxSize int
	now     func() time.Time
	entries map[string]*Entry
	order   []string // oldest first
}

// Entry is one memoized value. It is replaced whole, never updated in place.
type Entry struct {
	Key       string
	Value     any
	ExpiresAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store holding at most maxSize entries.
// If maxSize <= 0, it defaults to 1000.
func New(maxSize int, opts ...Option) *Store {
	if maxSize <= 0 {
		maxSize = 1000
	}
	s := &Store{
		maxSize: maxSize,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key joins an operation tag and already-normalized parameters.
func Key(op string, params ...string) string {
	return op + "\x1f" + strings.Join(params, "\x1f")
}

func opOf(key string) string {
	if i := strings.IndexByte(key, '\x1f'); i >= 0 {
		return key[:i]
	}
	return key
}

// Get returns the value for key. An entry past its expiry is a miss and is
// dropped.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		cacheMisses.WithLabelValues(opOf(key)).Inc()
		return nil, false
	}
	if s.now().After(entry.ExpiresAt) {
		s.remove(key)
		cacheMisses.WithLabelValues(opOf(key)).Inc()
		return nil, false
	}

	s.moveToEnd(key)
	cacheHits.WithLabelValues(opOf(key)).Inc()
	return entry.Value, true
}

// Set stores value under key for ttl, evicting the least recently used entry
// if full. A non-positive ttl is a no-op.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &Entry{Key: key, Value: value, ExpiresAt: s.now().Add(ttl)}
	if _, ok := s.entries[key]; ok {
		s.entries[key] = entry
		s.moveToEnd(key)
		return
	}

	for len(s.entries) >= s.maxSize && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
		cacheEvictions.WithLabelValues(opOf(oldest)).Inc()
	}

	s.entries[key] = entry
	s.order = append(s.order, key)
}

// Invalidate drops key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
}

// Len returns the number of entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) remove(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Store) moveToEnd(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			s.order = append(s.order, key)
			return
		}
	}
}
