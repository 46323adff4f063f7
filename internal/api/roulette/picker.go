package roulette

import (
	"slices"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// Rand is the randomness the picker needs. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// PickWinner draws a candidate whose id is not in history and returns it with
// the extended history. Once every candidate has been shown the history
// restarts, skipping the most recent winner when there is any alternative.
func PickWinner(candidates []types.Restaurant, history []string, rng Rand) (types.Restaurant, []string, bool) {
	if len(candidates) == 0 {
		return types.Restaurant{}, history, false
	}

	pool := unseen(candidates, history)
	if len(pool) == 0 {
		var last []string
		if n := len(history); n > 0 {
			last = history[n-1:]
		}
		history = nil
		pool = unseen(candidates, last)
		if len(pool) == 0 {
			pool = candidates
		}
	}

	winner := pool[rng.IntN(len(pool))]
	return winner, append(slices.Clone(history), winner.ID), true
}

func unseen(candidates []types.Restaurant, seen []string) []types.Restaurant {
	out := make([]types.Restaurant, 0, len(candidates))
	for _, c := range candidates {
		if !slices.Contains(seen, c.ID) {
			out = append(out, c)
		}
	}
	return out
}
