package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spiceroute/storefront/internal/catalog"
	"github.com/spiceroute/storefront/internal/kvstore"
)

const cartKey = "storefront.cart"

// Options carries the customization chosen for a dish before it becomes a
// line item.
type Options struct {
	SpiceLevel          SpiceLevel
	Extras              []string
	SpecialInstructions string
}

// Snapshot is the cart as the UI consumes it. TotalItems and SubtotalCents
// are derived on every read and never persisted, so they cannot drift from
// the stored lines.
type Snapshot struct {
	Lines         []LineItem `json:"lines"`
	TotalItems    int        `json:"total_items"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

// Store is the local cart used before or without authentication. Every
// mutation replaces the whole persisted snapshot; concurrent writers race
// with last-write-wins semantics.
type Store struct {
	mu      sync.Mutex
	kv      kvstore.Store
	catalog *catalog.Catalog
}

func NewStore(kv kvstore.Store, cat *catalog.Catalog) *Store {
	return &Store{kv: kv, catalog: cat}
}

func (s *Store) load() ([]LineItem, error) {
	data, ok, err := s.kv.Get(cartKey)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var lines []LineItem
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("cart: decode: %w", err)
	}
	return lines, nil
}

func (s *Store) save(lines []LineItem) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.kv.Set(cartKey, data); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

// buildLine validates options against the catalog and captures prices.
func (s *Store) buildLine(itemID int, opts Options, quantity int) (LineItem, error) {
	item, err := s.catalog.Item(itemID)
	if err != nil {
		return LineItem{}, err
	}
	extras := catalog.NormalizeExtras(opts.Extras)
	extrasPrice, err := s.catalog.ValidateToppings(itemID, extras)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		ItemID:              item.ID,
		Name:                item.Name,
		Quantity:            quantity,
		SpiceLevel:          opts.SpiceLevel,
		Extras:              extras,
		SpecialInstructions: opts.SpecialInstructions,
		UnitPriceCents:      item.PriceCents,
		ExtrasPriceCents:    extrasPrice,
	}, nil
}

// Add merges the configured item into the cart additively. Used by the
// catalog, specials and menu-preview add buttons.
func (s *Store) Add(itemID int, opts Options, quantity int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := s.buildLine(itemID, opts, quantity)
	if err != nil {
		return Snapshot{}, err
	}
	lines, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	lines = IncrementMatch(lines, line)
	if err := s.save(lines); err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(lines), nil
}

// SetQuantity sets the absolute quantity for the configured item. Used by
// the detail page, where the stepper shows "how many of exactly this are in
// the cart". Zero removes the line.
func (s *Store) SetQuantity(itemID int, opts Options, quantity int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 0 {
		quantity = 0
	}
	line, err := s.buildLine(itemID, opts, quantity)
	if err != nil {
		return Snapshot{}, err
	}
	lines, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	lines = SetMatch(lines, line)
	if err := s.save(lines); err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(lines), nil
}

// UpdateQuantity sets the quantity of the line identified by its match key.
// Zero or below removes the line.
func (s *Store) UpdateQuantity(matchKey string, quantity int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	i := FindMatch(lines, matchKey)
	if i < 0 {
		return snapshotOf(lines), nil
	}
	if quantity <= 0 {
		lines = append(lines[:i], lines[i+1:]...)
	} else {
		lines[i].Quantity = quantity
	}
	if err := s.save(lines); err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(lines), nil
}

// Remove deletes the line identified by its match key.
func (s *Store) Remove(matchKey string) (Snapshot, error) {
	return s.UpdateQuantity(matchKey, 0)
}

// Clear drops the whole cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(cartKey); err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}
	return nil
}

// Snapshot returns the current lines with derived totals.
func (s *Store) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(lines), nil
}

func snapshotOf(lines []LineItem) Snapshot {
	snap := Snapshot{Lines: lines}
	for _, li := range lines {
		snap.TotalItems += li.Quantity
		snap.SubtotalCents += li.LineTotalCents()
	}
	return snap
}
