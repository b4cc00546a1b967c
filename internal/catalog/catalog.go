// Package catalog loads restaurant-description documents from disk and holds
// the immutable in-memory catalog the rest of the service reads from.
package catalog

import (
	"restaurant-orders/internal/models"
)

// Catalog is a snapshot of all known restaurants. It is built once before the
// server accepts requests and never mutated afterwards, so concurrent reads
// need no locking. A reload would be a new snapshot swapped in by the caller,
// not an in-place change.
type Catalog struct {
	list []*models.Restaurant
	byID map[int]*models.Restaurant
}

// New builds a catalog from restaurants in listing order. Duplicate ids keep
// the first occurrence.
func New(restaurants []*models.Restaurant) *Catalog {
	c := &Catalog{byID: make(map[int]*models.Restaurant, len(restaurants))}
	for _, r := range restaurants {
		if _, dup := c.byID[r.ID]; dup {
			continue
		}
		c.byID[r.ID] = r
		c.list = append(c.list, r)
	}
	return c
}

// Empty returns a catalog with no restaurants. Startup falls back to this
// when the catalog directory cannot be read, keeping static serving usable.
func Empty() *Catalog {
	return New(nil)
}

// List returns all restaurants in insertion order.
func (c *Catalog) List() []*models.Restaurant {
	return c.list
}

// Get looks a restaurant up by id.
func (c *Catalog) Get(id int) (*models.Restaurant, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Len reports how many restaurants were loaded.
func (c *Catalog) Len() int {
	return len(c.list)
}
