package fetch

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// CachedQuery wraps another strategy with an in-memory cache, the way a
// query-caching hook serves a cached result instantly and only hits the
// network on the first run or an explicit refetch. The cache key is the
// wrapped strategy's name; entries never expire on their own (entities die
// with the process).
type CachedQuery struct {
	inner Strategy

	mu      sync.Mutex
	cached  *Result
	at      time.Time
	refetch bool
	hits    int
	misses  int
}

// NewCachedQuery wraps inner with the cache.
func NewCachedQuery(inner Strategy) *CachedQuery {
	return &CachedQuery{inner: inner}
}

// Name implements Strategy.
func (q *CachedQuery) Name() string { return "cached query" }

// MarkRefetch forces the next Fetch to bypass the cache, mirroring a
// manual refetch() call.
func (q *CachedQuery) MarkRefetch() {
	q.mu.Lock()
	q.refetch = true
	q.mu.Unlock()
}

// Fetch implements Strategy. A warm cache resolves immediately with
// FromCache set; otherwise the inner strategy runs and its result is
// stored for next time.
func (q *CachedQuery) Fetch(ctx context.Context) (*Result, error) {
	q.mu.Lock()
	force := q.refetch
	q.refetch = false
	if !force && q.cached != nil {
		q.hits++
		res := *q.cached
		res.FromCache = true
		res.Elapsed = 0
		q.mu.Unlock()
		return &res, nil
	}
	q.misses++
	q.mu.Unlock()

	res, err := q.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	stored := *res
	q.cached = &stored
	q.at = time.Now()
	q.mu.Unlock()
	return res, nil
}

// Stats reports cache hit/miss counters and the last fill time.
func (q *CachedQuery) Stats() (hits, misses int, filledAt time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.hits, q.misses, q.at
}

// Trace implements Tracer so cache activity shows up in the transcript.
func (q *CachedQuery) Trace() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cached == nil {
		return nil
	}
	if q.hits > 0 && !q.at.IsZero() {
		age := time.Since(q.at).Round(time.Millisecond)
		return []string{
			"cache: " + pluralize(q.hits, "hit") + ", " + pluralize(q.misses, "miss") + " (entry age " + age.String() + ")",
		}
	}
	return []string{"cache: filled from network"}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if noun == "miss" {
		noun = "misse"
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
