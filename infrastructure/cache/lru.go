package cache

import (
	"container/list"
	"sync"
)

// LRU caches encoded images by key, evicting the least recently used
type LRU struct {
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
	hits     uint64
	misses   uint64
}

type entry struct {
	key   string
	value []byte
}

// Stats is a snapshot of cache usage
type Stats struct {
	Size   int    `json:"size"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// NewLRU creates a cache holding at most capacity items.
// A capacity below one disables caching.
func NewLRU(capacity int) *LRU {
	return &LRU{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

// Set adds or updates a value in the cache
func (c *LRU) Set(key string, value []byte) {
	if c.capacity < 1 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry).value = value
		return
	}

	c.items[key] = c.queue.PushFront(&entry{key: key, value: value})

	for c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get retrieves a value and marks it most recently used
func (c *LRU) Get(key string) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}

	c.hits++
	c.queue.MoveToFront(element)
	return element.Value.(*entry).value, true
}

// Size returns the current number of items in the cache
func (c *LRU) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.queue.Len()
}

// Stats returns the current size and hit counters
func (c *LRU) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return Stats{Size: c.queue.Len(), Hits: c.hits, Misses: c.misses}
}

// evict removes the least recently used item from the cache
func (c *LRU) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}
	c.queue.Remove(element)
	delete(c.items, element.Value.(*entry).key)
}
