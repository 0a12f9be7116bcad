// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cache

import (
	"sync"
	"time"
)

// lfuEntry is a node in one frequency bucket's list.
type lfuEntry struct {
	key       string
	value     interface{}
	freq      int
	expiresAt time.Time
	prev      *lfuEntry
	next      *lfuEntry
}

// freqList is a doubly-linked list of entries sharing one access frequency.
// Front is the most recently touched entry.
type freqList struct {
	head *lfuEntry
	tail *lfuEntry
	size int
}

func newFreqList() *freqList {
	fl := &freqList{head: &lfuEntry{}, tail: &lfuEntry{}}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList) pushFront(e *lfuEntry) {
	e.prev = fl.head
	e.next = fl.head.next
	fl.head.next.prev = e
	fl.head.next = e
	fl.size++
}

func (fl *freqList) unlink(e *lfuEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	fl.size--
}

func (fl *freqList) back() *lfuEntry {
	if fl.size == 0 {
		return nil
	}
	return fl.tail.prev
}

// LFUCache is a capacity-bounded cache that evicts the least frequently
// used entry when full, breaking ties by least recent use. Entries also
// carry a TTL. Get, Set and eviction are O(1).
//
// It backs the "lfu" result-cache backend, where a handful of popular
// queries (the tech-events feed, the warmer's pages) dominate traffic.
type LFUCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	keyMap  map[string]*lfuEntry
	freqMap map[int]*freqList
	minFreq int

	hits      int64
	misses    int64
	evictions int64
}

// NewLFUCache creates an LFU cache. Non-positive arguments fall back to a
// capacity of 1000 entries and a 20 minute TTL.
func NewLFUCache(capacity int, ttl time.Duration) *LFUCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}

	return &LFUCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		keyMap:   make(map[string]*lfuEntry, capacity),
		freqMap:  make(map[int]*freqList),
	}
}

// Get returns the value for key and bumps its frequency.
func (c *LFUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.keyMap[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.remove(entry)
		c.misses++
		c.evictions++
		return nil, false
	}

	c.touch(entry)
	c.hits++
	return entry.value, true
}

// Set stores value with the default TTL.
func (c *LFUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL, evicting one entry first when
// the cache is full. Overwriting an existing key counts as an access.
func (c *LFUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)

	if entry, exists := c.keyMap[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.touch(entry)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evictOne()
	}

	entry := &lfuEntry{key: key, value: value, freq: 1, expiresAt: expiresAt}
	c.bucket(1).pushFront(entry)
	c.keyMap[key] = entry
	c.minFreq = 1
}

// Delete removes key.
func (c *LFUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		c.remove(entry)
		c.evictions++
	}
}

// Len returns the number of stored entries.
func (c *LFUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyMap)
}

// GetStats returns a snapshot of the counters.
func (c *LFUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		TotalKeys: int64(len(c.keyMap)),
	}
}

// HitRate returns the hit rate as a percentage.
func (c *LFUCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total) * 100.0
}

// Frequency returns the access count of key, or 0 when absent.
func (c *LFUCache) Frequency(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		return entry.freq
	}
	return 0
}

// Cleanup removes every expired entry and returns how many were removed.
func (c *LFUCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, entry := range c.keyMap {
		if now.After(entry.expiresAt) {
			c.remove(entry)
			removed++
		}
	}
	c.evictions += int64(removed)
	return removed
}

// Lock must be held by callers of the helpers below.

func (c *LFUCache) bucket(freq int) *freqList {
	fl := c.freqMap[freq]
	if fl == nil {
		fl = newFreqList()
		c.freqMap[freq] = fl
	}
	return fl
}

func (c *LFUCache) touch(entry *lfuEntry) {
	old := c.freqMap[entry.freq]
	old.unlink(entry)
	if old.size == 0 {
		delete(c.freqMap, entry.freq)
		if c.minFreq == entry.freq {
			c.minFreq++
		}
	}
	entry.freq++
	c.bucket(entry.freq).pushFront(entry)
}

func (c *LFUCache) remove(entry *lfuEntry) {
	if fl, ok := c.freqMap[entry.freq]; ok {
		fl.unlink(entry)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
		}
	}
	delete(c.keyMap, entry.key)
}

// evictOne drops the least recently used entry of the lowest frequency.
func (c *LFUCache) evictOne() {
	fl, ok := c.freqMap[c.minFreq]
	if !ok {
		// minFreq goes stale when Delete or Cleanup empties its bucket.
		c.minFreq = 0
		for freq := range c.freqMap {
			if c.minFreq == 0 || freq < c.minFreq {
				c.minFreq = freq
			}
		}
		if fl, ok = c.freqMap[c.minFreq]; !ok {
			return
		}
	}
	if victim := fl.back(); victim != nil {
		c.remove(victim)
		c.evictions++
	}
}
