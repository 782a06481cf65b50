package world

import (
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
)

// A Neighborhood is what a generator at a position sees around itself.
type Neighborhood struct {
	world *World
	pos   Pos
}

// Pos returns the position of the generator.
func (n *Neighborhood) Pos() Pos {
	return n.pos
}

// StateAt returns the block next to the generator.
func (n *Neighborhood) StateAt(dir Direction) ident.ID {
	return n.world.BlockAt(n.pos.Offset(dir))
}

// QueryAvailable tells how many units of requested the neighbor can supply.
// Blocks without a reservoir supply nothing.
func (n *Neighborhood) QueryAvailable(dir Direction, requested int) int {
	r, ok := n.world.ReservoirAt(n.pos.Offset(dir))
	if !ok {
		return 0
	}

	return r.Available(requested)
}

// Consume drains units from the neighbor.
func (n *Neighborhood) Consume(dir Direction, amount int) {
	if amount <= 0 {
		return
	}

	n.world.drain(n.pos.Offset(dir), amount)
}

// Lock holds the world's fluid lock so that no other generator drains a
// reservoir between a query and the matching consume.
func (n *Neighborhood) Lock() {
	n.world.fluidLock.Lock()
}

// Unlock releases the fluid lock.
func (n *Neighborhood) Unlock() {
	n.world.fluidLock.Unlock()
}

// Sink is where a generator pushes its items.
type Sink interface {
	Insert(stack item.Stack, simulate bool) item.Stack
}

// Output returns the sink in a direction. Without a container there, the sink
// accepts nothing.
func (n *Neighborhood) Output(dir Direction) Sink {
	return outputSink{world: n.world, pos: n.pos.Offset(dir)}
}

// outputSink resolves the container on every insert so that a container
// placed or removed later is picked up.
type outputSink struct {
	world *World
	pos   Pos
}

func (s outputSink) Insert(stack item.Stack, simulate bool) item.Stack {
	c, ok := s.world.ContainerAt(s.pos)
	if !ok {
		return stack
	}

	return c.Insert(stack, simulate)
}
