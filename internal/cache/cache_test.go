package cache

import (
	"sync"
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("empty cache should miss")
	}
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v %v", v, ok)
	}

	// a is now most recently used, so c evicts b.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}

	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Fatalf("overwrite failed, got %d", v)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted key still present")
	}

	hits, misses := c.Stats()
	if hits != 2 || misses != 3 {
		t.Fatalf("Stats() = %d/%d, want 2/3", hits, misses)
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Minute)
	c.Set("z", "3")

	if _, ok := c.Get("x"); ok {
		t.Fatalf("x should have expired")
	}
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Purge left %d entries", c.Size())
	}
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](50, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := string(rune('a' + (i+j)%26))
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	if c.Size() > 26 {
		t.Fatalf("unexpected size %d", c.Size())
	}
}

type countingCleaner struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCleaner) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 1
}

func (c *countingCleaner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestManagerCleanup(t *testing.T) {
	m := NewManager(nil)
	cl := &countingCleaner{}
	m.Register(cl)

	if n := m.CleanNow(); n != 1 {
		t.Fatalf("CleanNow() = %d, want 1", n)
	}

	m.StartCleanup(5 * time.Millisecond)
	m.StartCleanup(5 * time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for cl.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Stop()
	m.Stop()
	if cl.count() < 3 {
		t.Fatalf("cleanup did not run periodically, calls=%d", cl.count())
	}
}

func TestManagerStopWithoutStart(t *testing.T) {
	done := make(chan struct{})
	go func() {
		NewManager(nil).Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Stop blocked without StartCleanup")
	}
}

func TestBlobCache(t *testing.T) {
	b, err := NewBlobCache(1<<20, time.Minute)
	if err != nil {
		t.Fatalf("NewBlobCache: %v", err)
	}
	defer b.Close()

	b.Set("chart:1", []byte("png"))
	b.Wait()
	got, ok := b.Get("chart:1")
	if !ok || string(got) != "png" {
		t.Fatalf("Get = %q %v", got, ok)
	}

	b.Delete("chart:1")
	b.Wait()
	if _, ok := b.Get("chart:1"); ok {
		t.Fatalf("deleted entry still present")
	}
}
