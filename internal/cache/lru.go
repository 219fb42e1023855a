package cache

// lruNode is a node in a doubly-linked LRU list.
// The node stores the key for O(1) deletion from the parent map.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// lruList is a doubly-linked list ordered by recency.
// The head is the most recently used, tail is least recently used.
type lruList[K comparable, V any] struct {
	head *lruNode[K, V]
	tail *lruNode[K, V]
	len  int
}

// pushFront links node at the front (most recently used).
func (l *lruList[K, V]) pushFront(node *lruNode[K, V]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// moveToFront moves an existing node to the front.
func (l *lruList[K, V]) moveToFront(node *lruNode[K, V]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.pushFront(node)
}

// unlink removes a node from the list and clears its links.
func (l *lruList[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
	l.len--
}

// LRU is a fixed-capacity least-recently-used cache.
//
// LRU is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	entries  map[K]*lruNode[K, V]
	list     lruList[K, V]
	capacity int
}

// NewLRU creates an LRU holding at most capacity entries.
// A capacity below 1 is raised to 1.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		entries:  make(map[K]*lruNode[K, V], capacity),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.list.moveToFront(node)
	return node.value, true
}

// Peek returns the value for key without touching its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return node.value, true
}

// Put stores value under key as the most recently used entry.
// When a new key arrives at capacity, the least recently used entry is
// removed first and returned with evicted set to true.
func (c *LRU[K, V]) Put(key K, value V) (evictedKey K, evictedValue V, evicted bool) {
	if node, ok := c.entries[key]; ok {
		node.value = value
		c.list.moveToFront(node)
		return evictedKey, evictedValue, false
	}

	if c.list.len >= c.capacity {
		oldest := c.list.tail
		c.list.unlink(oldest)
		delete(c.entries, oldest.key)
		evictedKey, evictedValue, evicted = oldest.key, oldest.value, true
	}

	node := &lruNode[K, V]{key: key, value: value}
	c.entries[key] = node
	c.list.pushFront(node)
	return evictedKey, evictedValue, evicted
}

// Delete removes key. Returns true if it was present.
func (c *LRU[K, V]) Delete(key K) bool {
	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.list.unlink(node)
	delete(c.entries, key)
	return true
}

// Oldest returns the least recently used key without removing it.
func (c *LRU[K, V]) Oldest() (K, bool) {
	if c.list.tail == nil {
		var zero K
		return zero, false
	}
	return c.list.tail.key, true
}

// Keys returns all keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.list.len)
	for n := c.list.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.entries = make(map[K]*lruNode[K, V], c.capacity)
	c.list = lruList[K, V]{}
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	return c.list.len
}

// Cap returns the fixed capacity.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}
