package dataset

import (
	"sync"

	"github.com/dealstack/dealstack/internal/model"
)

// Store holds the full normalized deal collection in original input order.
// It is write-once: the collection is built immediately after the raw load
// and treated as read-only afterward. Consumers receive the backing slice
// directly and must not mutate it.
type Store struct {
	deals []model.Deal

	groupOnce sync.Once
	byKey     map[string][]int
}

// NewStore wraps an already-normalized collection.
func NewStore(deals []model.Deal) *Store {
	return &Store{deals: deals}
}

// All returns the full collection. The same slice is returned on every call.
func (s *Store) All() []model.Deal {
	return s.deals
}

// Len returns the number of deals held.
func (s *Store) Len() int {
	return len(s.deals)
}

// ByProductKey returns indices into All() grouped by product identity key,
// preserving input order within each group. Deals with an empty key are
// excluded; they remain filterable but cannot participate in grouping. The
// index is computed lazily and cached since several overlap variants need it.
func (s *Store) ByProductKey() map[string][]int {
	s.groupOnce.Do(func() {
		s.byKey = GroupByProductKey(s.deals)
	})
	return s.byKey
}

// GroupByProductKey groups deal indices by product identity key. Exposed so
// the overlap detector can group pre-filtered subsets with the same rules.
func GroupByProductKey(deals []model.Deal) map[string][]int {
	groups := make(map[string][]int)
	for i := range deals {
		key := deals[i].ProductKey()
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}
	return groups
}
