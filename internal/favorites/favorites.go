package favorites

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/spiceroute/storefront/internal/kvstore"
)

const favoritesKey = "storefront.favorites"

// Set is the persisted favorites id-set. Toggling is idempotent per state
// and independent of the cart.
type Set struct {
	mu sync.Mutex
	kv kvstore.Store
}

func NewSet(kv kvstore.Store) *Set {
	return &Set{kv: kv}
}

func (s *Set) load() (map[int]struct{}, error) {
	data, ok, err := s.kv.Get(favoritesKey)
	if err != nil {
		return nil, fmt.Errorf("favorites: load: %w", err)
	}
	set := make(map[int]struct{})
	if !ok {
		return set, nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("favorites: decode: %w", err)
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *Set) save(set map[int]struct{}) error {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("favorites: encode: %w", err)
	}
	if err := s.kv.Set(favoritesKey, data); err != nil {
		return fmt.Errorf("favorites: save: %w", err)
	}
	return nil
}

// Toggle flips membership of id and reports whether it is now a favorite.
func (s *Set) Toggle(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.load()
	if err != nil {
		return false, err
	}
	_, exists := set[id]
	if exists {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}
	if err := s.save(set); err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *Set) Has(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := set[id]
	return ok, nil
}

// All returns the favorite ids in ascending order.
func (s *Set) All() ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.load()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *Set) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(favoritesKey); err != nil {
		return fmt.Errorf("favorites: clear: %w", err)
	}
	return nil
}
