package roulette

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Generations tracks the running search per owner. Starting a search cancels
// the owner's previous one, and only the latest may commit its result.
// Entries are dropped when their search ends, so the table only holds owners
// with a search in flight.
type Generations struct {
	mu      sync.Mutex
	next    uint64
	running map[uuid.UUID]*generation
}

type generation struct {
	n      uint64
	cancel context.CancelFunc
}

func NewGenerations() *Generations {
	return &Generations{running: make(map[uuid.UUID]*generation)}
}

// Begin starts a new generation for owner and returns its context and number.
// Numbers come from one counter, so they keep increasing for every owner.
// The caller must call End with the same number when done.
func (g *Generations) Begin(ctx context.Context, owner uuid.UUID) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.running[owner]; ok {
		prev.cancel()
	}
	g.next++
	g.running[owner] = &generation{n: g.next, cancel: cancel}
	return ctx, g.next
}

// Current reports whether n is still the owner's running generation.
func (g *Generations) Current(owner uuid.UUID, n uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.running[owner]
	return ok && cur.n == n
}

// End releases generation n. A superseded generation is already cancelled
// and leaves the newer entry alone.
func (g *Generations) End(owner uuid.UUID, n uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.running[owner]
	if !ok || cur.n != n {
		return
	}
	cur.cancel()
	delete(g.running, owner)
}

// Len is the number of owners with a search in flight.
func (g *Generations) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.running)
}
