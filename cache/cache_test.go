package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetMissing(t *testing.T) {
	c := New[string]()
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestSetAndGet(t *testing.T) {
	c := New[int]()
	c.Set("a", 42, time.Minute)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestExpiry(t *testing.T) {
	c := New[string]()
	c.Set("a", "value", -time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestExpiredEntryEvicted(t *testing.T) {
	c := New[string]()
	c.Set("a", "value", -time.Second)
	c.Set("b", "kept", time.Minute)

	c.Get("a")

	c.mu.RLock()
	_, stillThere := c.data["a"]
	_, kept := c.data["b"]
	c.mu.RUnlock()
	if stillThere {
		t.Error("expected expired entry removed from the map")
	}
	if !kept {
		t.Error("expected live entry untouched")
	}
}

func TestLastWriteWins(t *testing.T) {
	c := New[string]()
	c.Set("a", "first", time.Minute)
	c.Set("a", "second", time.Minute)

	got, _ := c.Get("a")
	if got != "second" {
		t.Errorf("expected second, got %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%4)
			c.Set(key, n, time.Minute)
			c.Get(key)
		}(i)
	}
	wg.Wait()
}
