// Package cache implements the witness/TTL validated result cache
// (spec.md §3, §4.4).
package cache

import "container/list"

// lruCore is the O(1) access-order structure behind Cache's eviction
// policy: mark-recently-used on touch, evict from the back on overflow.
// It tracks only keys; Cache owns the actual entry values and the mutex
// guarding both, mirroring the teacher's circuit breaker (a single mutex
// over one small piece of bookkeeping state) generalized from a
// fixed-window failure counter to a bounded access-ordered key list.
type lruCore struct {
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

func newLRUCore(capacity int) *lruCore {
	return &lruCore{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// touch marks key most-recently-used, inserting it if absent. If the
// insertion pushes the core over capacity, the least-recently-used key is
// evicted and returned.
func (c *lruCore) touch(key string) (evicted string, didEvict bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return "", false
	}
	el := c.ll.PushFront(key)
	c.items[key] = el
	if c.ll.Len() <= c.capacity {
		return "", false
	}
	back := c.ll.Back()
	c.ll.Remove(back)
	evictedKey := back.Value.(string)
	delete(c.items, evictedKey)
	return evictedKey, true
}

// remove drops key from the access-order list, if present.
func (c *lruCore) remove(key string) {
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

func (c *lruCore) len() int { return c.ll.Len() }
