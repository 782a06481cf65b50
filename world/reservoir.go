package world

import (
	"sync"

	"github.com/sarchlab/blockgen/ident"
)

// A Reservoir is a fluid source that can be drained one unit per produced
// item.
type Reservoir struct {
	fluid    ident.ID
	infinite bool

	mu     sync.Mutex
	amount int
}

// Fluid returns the block identity of the fluid.
func (r *Reservoir) Fluid() ident.ID {
	return r.fluid
}

// Amount returns the number of units left. Infinite reservoirs report -1.
func (r *Reservoir) Amount() int {
	if r.infinite {
		return -1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.amount
}

// Infinite returns true if draining never reduces the reservoir.
func (r *Reservoir) Infinite() bool {
	return r.infinite
}

// Available tells how much of requested can be drained without draining
// anything.
func (r *Reservoir) Available(requested int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.available(requested)
}

func (r *Reservoir) available(requested int) int {
	if requested <= 0 {
		return 0
	}

	if r.infinite {
		return requested
	}

	return min(requested, r.amount)
}

// Drain removes units from the reservoir and returns how many were removed.
func (r *Reservoir) Drain(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n = r.available(n)
	if !r.infinite {
		r.amount -= n
	}

	return n
}

// Empty returns true if nothing is left.
func (r *Reservoir) Empty() bool {
	if r.infinite {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.amount <= 0
}
