// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLFUCache_BasicOperations(t *testing.T) {
	c := NewLFUCache(10, time.Minute)

	c.Set("key1", "value1")
	value, found := c.Get("key1")
	if !found || value != "value1" {
		t.Fatalf("Get = %v, %v; want value1, true", value, found)
	}

	if _, found := c.Get("missing"); found {
		t.Error("expected miss")
	}
}

func TestLFUCache_Eviction(t *testing.T) {
	c := NewLFUCache(3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// a and b become more frequent than c
	c.Get("a")
	c.Get("a")
	c.Get("b")

	c.Set("d", 4)

	if _, ok := c.Get("c"); ok {
		t.Error("least frequently used entry c should have been evicted")
	}
	for _, k := range []string{"a", "b", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to survive eviction", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestLFUCache_EvictionTieBreaksOnRecency(t *testing.T) {
	c := NewLFUCache(2, time.Minute)

	c.Set("first", 1)
	c.Set("second", 2)
	c.Set("third", 3)

	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry at the lowest frequency should be evicted")
	}
	if _, ok := c.Get("second"); !ok {
		t.Error("second should remain")
	}
}

func TestLFUCache_EvictAfterDelete(t *testing.T) {
	c := NewLFUCache(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("b")
	c.Get("b")
	c.Delete("a")
	c.Set("c", 3)
	c.Get("c")
	c.Get("c")
	c.Get("c")

	// b is at frequency 3, c at 4.
	c.Set("d", 4)

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b had the lowest frequency and should have been evicted")
	}
}

func TestLFUCache_UpdateCountsAsAccess(t *testing.T) {
	c := NewLFUCache(10, time.Minute)

	c.Set("k", 1)
	c.Set("k", 2)

	if got := c.Frequency("k"); got != 2 {
		t.Errorf("Frequency = %d, want 2", got)
	}
	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("value = %v, want 2", v)
	}
}

func TestLFUCache_TTL(t *testing.T) {
	clock := newFakeClock()
	c := NewLFUCache(10, time.Minute)
	c.now = clock.Now

	c.Set("k", "v")
	c.SetWithTTL("long", "v", time.Hour)
	clock.Advance(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry served")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("custom TTL entry expired early")
	}
}

func TestLFUCache_Cleanup(t *testing.T) {
	clock := newFakeClock()
	c := NewLFUCache(10, time.Minute)
	c.now = clock.Now

	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("c", 3, time.Hour)
	clock.Advance(5 * time.Minute)

	if removed := c.Cleanup(); removed != 2 {
		t.Errorf("Cleanup removed %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestLFUCache_Stats(t *testing.T) {
	c := NewLFUCache(1, time.Minute)

	c.Set("a", 1)
	c.Get("a")
	c.Get("zzz")
	c.Set("b", 2) // evicts a

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate = %v, want 50", c.HitRate())
	}
}

func TestLFUCache_Concurrent(t *testing.T) {
	c := NewLFUCache(50, time.Minute)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (worker*31+i)%120)
				c.Set(key, i)
				c.Get(key)
			}
		}(w)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len = %d exceeds capacity 50", c.Len())
	}
}

func TestNewCacherSelectsBackend(t *testing.T) {
	if _, ok := NewCacher(Config{Backend: BackendLFU, Capacity: 5}).(*LFUCache); !ok {
		t.Error("lfu backend should build an LFUCache")
	}
	if _, ok := NewCacher(Config{Backend: BackendMemory}).(*Cache); !ok {
		t.Error("memory backend should build a TTL Cache")
	}
}
