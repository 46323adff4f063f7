package search

import (
	"slices"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// Aggregator collects distinct candidates keyed by place id, up to a cap.
type Aggregator struct {
	seen  map[string]struct{}
	items []types.Restaurant
	limit int
}

// NewAggregator creates an aggregator; limit <= 0 means unbounded.
func NewAggregator(limit int) *Aggregator {
	return &Aggregator{
		seen:  make(map[string]struct{}),
		limit: limit,
	}
}

// Add stores unseen records and returns how many were new. Records without
// an id are dropped silently, as is everything beyond the cap.
func (a *Aggregator) Add(batch []types.Restaurant) int {
	added := 0
	for _, r := range batch {
		if a.Full() {
			break
		}
		if r.ID == "" {
			continue
		}
		if _, dup := a.seen[r.ID]; dup {
			continue
		}
		a.seen[r.ID] = struct{}{}
		a.items = append(a.items, r)
		added++
	}
	return added
}

// Full reports whether the cap is reached.
func (a *Aggregator) Full() bool {
	return a.limit > 0 && len(a.items) >= a.limit
}

// Len is the number of distinct records kept.
func (a *Aggregator) Len() int {
	return len(a.items)
}

// Results returns the kept records in insertion order.
func (a *Aggregator) Results() []types.Restaurant {
	return slices.Clone(a.items)
}
