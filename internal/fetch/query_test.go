package fetch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// countingStrategy resolves with a fixed result and counts invocations.
type countingStrategy struct {
	calls  atomic.Int64
	result Result
	err    error
}

func (s *countingStrategy) Name() string { return "counting" }

func (s *countingStrategy) Fetch(ctx context.Context) (*Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	res := s.result
	return &res, nil
}

func TestCachedQuery_SecondFetchServesFromCache(t *testing.T) {
	t.Parallel()

	inner := &countingStrategy{result: Result{ImageURL: "https://cdn.example.test/a.jpg", HTTPStatus: 200, Elapsed: 80 * time.Millisecond}}
	cache := NewCachedQuery(inner)

	first, err := cache.Fetch(context.Background())
	if err != nil {
		t.Fatalf("first Fetch returned error: %v", err)
	}
	if first.FromCache {
		t.Fatalf("first result FromCache = true, want false")
	}

	second, err := cache.Fetch(context.Background())
	if err != nil {
		t.Fatalf("second Fetch returned error: %v", err)
	}
	if !second.FromCache {
		t.Fatalf("second result FromCache = false, want true")
	}
	if second.ImageURL != first.ImageURL {
		t.Fatalf("cached ImageURL = %q, want %q", second.ImageURL, first.ImageURL)
	}
	if got := inner.calls.Load(); got != 1 {
		t.Fatalf("inner strategy called %d times, want 1", got)
	}

	hits, misses, _ := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("stats = %d hits / %d misses, want 1/1", hits, misses)
	}
}

func TestCachedQuery_MarkRefetchBypassesCache(t *testing.T) {
	t.Parallel()

	inner := &countingStrategy{result: Result{ImageURL: "https://cdn.example.test/a.jpg"}}
	cache := NewCachedQuery(inner)

	if _, err := cache.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	cache.MarkRefetch()
	res, err := cache.Fetch(context.Background())
	if err != nil {
		t.Fatalf("refetch returned error: %v", err)
	}
	if res.FromCache {
		t.Fatalf("refetch result FromCache = true, want false")
	}
	if got := inner.calls.Load(); got != 2 {
		t.Fatalf("inner strategy called %d times, want 2", got)
	}
}

func TestCachedQuery_ErrorLeavesCacheEmpty(t *testing.T) {
	t.Parallel()

	inner := &countingStrategy{err: context.DeadlineExceeded}
	cache := NewCachedQuery(inner)

	if _, err := cache.Fetch(context.Background()); err == nil {
		t.Fatalf("Fetch returned nil error, want failure")
	}
	// A failed fill must not poison later runs with a cache hit.
	inner.err = nil
	inner.result = Result{ImageURL: "https://cdn.example.test/b.jpg"}
	res, err := cache.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.FromCache {
		t.Fatalf("result FromCache = true after failed fill, want false")
	}
}
