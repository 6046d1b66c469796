package store

import (
	"sync"

	"github.com/vk/attrgrid/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Synchronized serializes access to a Store with one coarse lock. Every
// mutating call holds the write lock for its whole duration, so a Set batch
// is never interleaved with another operation.
type Synchronized struct {
	mu sync.RWMutex
	s  *Store
}

// NewSynchronized wraps s.
func NewSynchronized(s *Store) *Synchronized {
	return &Synchronized{s: s}
}

// Replace swaps the wrapped store, for example after a sheet reload.
func (c *Synchronized) Replace(s *Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s = s
}

func (c *Synchronized) Describe(name string, steps ...step.Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Describe(name, steps...)
}

func (c *Synchronized) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Remove(name)
}

func (c *Synchronized) Set(assignments map[string]cty.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Set(assignments)
}

func (c *Synchronized) SetAtomic(assignments map[string]cty.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.SetAtomic(assignments)
}

func (c *Synchronized) Get(name string) (cty.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.Get(name)
}

func (c *Synchronized) Status(name string) (Status, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.Status(name)
}

// Entries returns the sorted names with their statuses under a single read
// lock, so the listing is consistent.
func (c *Synchronized) Entries() ([]string, map[string]Status) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := c.s.Names()
	statuses := make(map[string]Status, len(names))
	for _, n := range names {
		statuses[n] = c.s.entries[n].status
	}
	return names, statuses
}

func (c *Synchronized) Graph() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.Graph()
}

func (c *Synchronized) RecalcOrder(names ...string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.RecalcOrder(names...)
}
