package memo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Group collapses concurrent fetches per key. A zero Group is ready to use.
type Group struct {
	sf singleflight.Group
}

// Fetch returns the cached value for key, or calls fn once for all concurrent
// callers and caches a successful result for ttl. Errors are shared with every
// waiter and never cached. fn runs with the context of the caller that
// started the flight.
func Fetch[T any](ctx context.Context, s *Store, g *Group, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		s.Invalidate(key)
	}

	v, err, _ := g.sf.Do(key, func() (any, error) {
		// another flight may have filled the key while we waited for the lock
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, val, ttl)
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("memo: key %q holds %T", key, v)
	}
	return typed, nil
}
