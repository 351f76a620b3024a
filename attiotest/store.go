// Package attiotest provides an in-process mock of the Attio API for
// tests: a chi-routed HTTP server backed by in-memory collections, with
// YAML seed fixtures, fault injection and request capture.
package attiotest

import (
	"sync"

	"github.com/google/uuid"
)

// NewID returns a fresh UUID string, the shape Attio uses for all
// identifier scopes.
func NewID() string {
	return uuid.NewString()
}

// Collection is a generic, thread-safe, in-memory collection of wire
// objects keyed by ID, preserving insertion order for deterministic
// listing and cursor pagination.
type Collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewCollection creates an empty collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{items: map[string]T{}}
}

// Set stores an item under id. Overwriting keeps the original position
// in the listing order.
func (c *Collection[T]) Set(id string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

// Get retrieves an item by ID.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Delete removes an item by ID, reporting whether it existed.
func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns all items in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Count returns the number of items.
func (c *Collection[T]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the first item matching the predicate, in insertion
// order.
func (c *Collection[T]) Find(predicate func(id string, item T) bool) (string, T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if predicate(id, c.items[id]) {
			return id, c.items[id], true
		}
	}
	var zero T
	return "", zero, false
}

// Filter returns all items matching the predicate, in insertion order.
func (c *Collection[T]) Filter(predicate func(id string, item T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, id := range c.order {
		if predicate(id, c.items[id]) {
			out = append(out, c.items[id])
		}
	}
	return out
}

// Reset removes all items.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]T{}
	c.order = nil
}

// Paginate returns one page using cursor pagination. The cursor is the
// ID of the last item of the previous page; empty starts from the
// beginning. A limit of 0 returns everything.
func (c *Collection[T]) Paginate(cursor string, limit int) (data []T, hasMore bool, nextCursor string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := 0
	if cursor != "" {
		for i, id := range c.order {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = len(c.order)
	}
	end := start + limit
	if end > len(c.order) {
		end = len(c.order)
	} else if end < len(c.order) {
		hasMore = true
	}

	data = make([]T, 0, end-start)
	for i := start; i < end; i++ {
		data = append(data, c.items[c.order[i]])
		nextCursor = c.order[i]
	}
	return data, hasMore, nextCursor
}
