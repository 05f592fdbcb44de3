package cache

import (
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache(2, time.Hour)
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("expected to get back the value just set, got %v ok=%v", v, ok)
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache(2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a, making b the LRU entry
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b to have been evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Errorf("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Errorf("expected c to be present")
	}
}

func TestLRUCacheExpiresByTTL(t *testing.T) {
	c := NewLRUCache(10, time.Millisecond)
	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected entry to have expired")
	}
}

func TestLRUCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewLRUCache(10, 0)
	c.Set("a", 1)
	time.Sleep(2 * time.Millisecond)
	if _, ok := c.Get("a"); !ok {
		t.Errorf("expected zero TTL to mean entries never expire on their own")
	}
}

func TestHashKeyIsDeterministic(t *testing.T) {
	if HashKey("x") != HashKey("x") {
		t.Errorf("HashKey should be deterministic for the same input")
	}
	if HashKey("x") == HashKey("y") {
		t.Errorf("HashKey should differ for different inputs")
	}
}
