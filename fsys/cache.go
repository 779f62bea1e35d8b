/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package fsys

import (
	"container/list"
	"sync"
)

// DefaultCacheCapacity is the suggested capacity for the content cache:
// enough for a mid-sized traversal's working set without holding an
// entire large repository in memory.
const DefaultCacheCapacity = 512

// Caching wraps a FileSystem and memoizes successful ReadFile calls, keyed
// by the exact path passed in. Bounded, least-recently-used eviction.
// Non-read operations pass straight through to the wrapped provider.
type Caching struct {
	inner    FileSystem
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type cacheNode struct {
	path    string
	content []byte
}

// NewCaching wraps fs with a memoizing read cache of the given capacity.
// A non-positive capacity falls back to DefaultCacheCapacity.
func NewCaching(fs FileSystem, capacity int) *Caching {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Caching{
		inner:    fs,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// ReadFile returns the cached content for path if present, promoting it to
// most-recently-used; otherwise it reads through, caches on success, and
// evicts the least-recently-used entry if the cache is at capacity.
func (c *Caching) ReadFile(path string) ([]byte, error) {
	c.mu.Lock()
	if elem, ok := c.entries[path]; ok {
		c.order.MoveToFront(elem)
		content := elem.Value.(*cacheNode).content
		c.mu.Unlock()
		return content, nil
	}
	c.mu.Unlock()

	content, err := c.inner.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have populated this path while we read; keep
	// whichever content won the race, both are byte-identical reads.
	if elem, ok := c.entries[path]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheNode).content, nil
	}

	elem := c.order.PushFront(&cacheNode{path: path, content: content})
	c.entries[path] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheNode).path)
		}
	}

	return content, nil
}

// Exists passes through to the wrapped provider.
func (c *Caching) Exists(path string) bool { return c.inner.Exists(path) }

// IsDir passes through to the wrapped provider.
func (c *Caching) IsDir(path string) bool { return c.inner.IsDir(path) }

// Canonicalize passes through to the wrapped provider.
func (c *Caching) Canonicalize(path string) (string, error) { return c.inner.Canonicalize(path) }

// Size returns the current number of cached entries, for tests and metrics.
func (c *Caching) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
