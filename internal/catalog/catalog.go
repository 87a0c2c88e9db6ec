package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Topping is an optional paid extra available on a menu item.
type Topping struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// Item is a single dish on the menu. Items are loaded once from static data
// and never mutated at runtime.
type Item struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags,omitempty"`
	SpiceLevels bool      `json:"spice_levels,omitempty"`
	Toppings    []Topping `json:"extra_toppings,omitempty"`
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Catalog is a read-only index over the menu.
type Catalog struct {
	categories []Category
	items      []Item
	byID       map[int]Item
}

func New(categories []Category, items []Item) *Catalog {
	byID := make(map[int]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &Catalog{categories: categories, items: items, byID: byID}
}

// Default returns the catalog built from the embedded menu data.
func Default() *Catalog {
	return New(menuCategories, menuItems)
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) ItemsByCategory(slug string) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Category == slug {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Item(id int) (Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	return it, nil
}

// ValidateToppings checks every requested extra against the item's known
// toppings and returns the total price of the extras. Unknown names are
// rejected rather than silently accepted.
func (c *Catalog) ValidateToppings(itemID int, extras []string) (int64, error) {
	it, err := c.Item(itemID)
	if err != nil {
		return 0, err
	}
	known := make(map[string]int64, len(it.Toppings))
	for _, t := range it.Toppings {
		known[t.Name] = t.PriceCents
	}
	var total int64
	for _, name := range extras {
		price, ok := known[name]
		if !ok {
			return 0, fmt.Errorf("unknown topping %q for item %d: %w", name, itemID, ErrNotFound)
		}
		total += price
	}
	return total, nil
}

// NormalizeExtras trims, de-duplicates and sorts topping names so that the
// same selection always serializes the same way.
func NormalizeExtras(extras []string) []string {
	seen := make(map[string]struct{}, len(extras))
	out := make([]string, 0, len(extras))
	for _, e := range extras {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
