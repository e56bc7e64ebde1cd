package model

import (
	"slices"
	"sync"
)

// Collection is the append-only accumulation of every book fetched so far.
// Pages are appended in page order regardless of the order they arrive in.
type Collection struct {
	mu      sync.RWMutex
	books   []Book
	next    int
	pending map[int][]Book
}

func NewCollection() *Collection {
	return &Collection{
		next:    1,
		pending: make(map[int][]Book),
	}
}

// AppendPage records the books of a page and returns how many books were
// appended to the collection as a result. A page that arrives ahead of an
// earlier one is held back until the gap is filled.
func (c *Collection) AppendPage(page int, books []Book) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page < c.next || len(books) == 0 {
		return 0
	}
	if _, ok := c.pending[page]; ok {
		return 0
	}
	c.pending[page] = slices.Clone(books)

	appended := 0
	for {
		batch, ok := c.pending[c.next]
		if !ok {
			break
		}
		delete(c.pending, c.next)
		c.books = append(c.books, batch...)
		appended += len(batch)
		c.next++
	}
	return appended
}

// Books returns a copy so callers can sort or filter without touching the
// collection.
func (c *Collection) Books() []Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.books)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}

// NextPage is the lowest page number not yet appended.
func (c *Collection) NextPage() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.next
}

func (c *Collection) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}
