package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock returns a cache clock that tests can advance.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(ttl time.Duration, max int) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewBounded[string, int](ttl, max)
	c.now = clock.now
	return c, clock
}

func TestNew(t *testing.T) {
	c := New[string, int](5 * time.Minute)
	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", c.ttl)
	}
	if c.maxEntries != 0 {
		t.Errorf("maxEntries = %d, want 0", c.maxEntries)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)

	c.Set("john:3", 42)
	if v, ok := c.Get("john:3"); !ok || v != 42 {
		t.Errorf("Get() = %d, %v, want 42, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
}

func TestEntriesExpireIndividually(t *testing.T) {
	c, clock := newTestCache(time.Minute, 0)

	c.Set("a", 1)
	clock.advance(30 * time.Second)
	c.Set("b", 2)
	clock.advance(30 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v, want 2, true", v, ok)
	}

	c.Set("a", 3)
	if v, ok := c.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) after reset = %d, %v, want 3, true", v, ok)
	}
}

func TestBoundedEviction(t *testing.T) {
	c, clock := newTestCache(time.Minute, 2)

	c.Set("a", 1)
	clock.advance(time.Second)
	c.Set("b", 2)
	clock.advance(time.Second)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry a should have been evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry c missing")
	}

	// Overwriting an existing key never evicts.
	c.Set("b", 20)
	if c.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", c.Len())
	}
}

func TestBoundedEvictionPrefersExpired(t *testing.T) {
	c, clock := newTestCache(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	clock.advance(2 * time.Minute)
	c.Set("c", 3)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after dropping expired entries", c.Len())
	}
}

func TestGetOrLoad(t *testing.T) {
	c, clock := newTestCache(time.Minute, 0)
	calls := 0
	load := func() (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != 7 {
			t.Fatalf("GetOrLoad() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	clock.advance(time.Minute)
	if _, err := c.GetOrLoad("k", load); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("load called %d times after expiry, want 2", calls)
	}
}

func TestGetOrLoadError(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)
	boom := errors.New("boom")

	if _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v, want %v", err, boom)
	}
	if c.Len() != 0 {
		t.Error("failed load should not be cached")
	}
}

func TestDeleteAndInvalidate(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a still present after Delete")
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len() after Invalidate = %d, want 0", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewBounded[int, int](time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n*100+j, j)
				c.Get(n*100 + j)
				_, _ = c.GetOrLoad(j, func() (int, error) { return j, nil })
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d, exceeds bound 50", c.Len())
	}
}
