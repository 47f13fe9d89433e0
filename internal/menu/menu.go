// Package menu holds the static dish catalog served by the website.
//
// The catalog ships inside the binary as embedded JSON produced by
// cmd/menu-ingest. It is read-only after Load: handlers share one Catalog
// instance without locking.
package menu

import (
	_ "embed"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

//go:embed data/menu.json
var rawCatalog []byte

// Item is a single dish on the menu.
type Item struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Image       string
	Category    string
	Description string
	PrepTime    string
	Veg         bool
}

// Group is a category of dishes in menu order.
type Group struct {
	Category string
	Items    []Item
}

// Catalog is the full menu in file order.
type Catalog struct {
	items []Item
	byID  map[string]int
}

// List returns every item in catalog order.
func (c *Catalog) List() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// GetByID returns the item with the given id, or ErrNotFound.
func (c *Catalog) GetByID(id string) (*Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	item := c.items[i]
	return &item, nil
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int { return len(c.items) }

// Grouped buckets the catalog by category. Categories appear in
// first-occurrence order and items keep their catalog order within each
// category, so the rendered menu matches the source file.
func (c *Catalog) Grouped() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, item := range c.items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, Group{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
