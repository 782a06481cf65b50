package producer

import (
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/world"
)

// NeighborAccessor lets a producer look at and drain the blocks around it.
// If it also implements sync.Locker, the producer holds the lock from the
// first availability query until the last Consume of a production.
type NeighborAccessor interface {
	// StateAt returns the identity of the neighbor in a direction.
	StateAt(dir world.Direction) ident.ID

	// QueryAvailable tells how much of requested the neighbor can supply
	// without changing it.
	QueryAvailable(dir world.Direction, requested int) int

	// Consume drains the neighbor. The amount never exceeds the result of
	// the QueryAvailable call made just before.
	Consume(dir world.Direction, amount int)
}

// OutputSink receives the items a producer pushes out.
type OutputSink interface {
	// Insert moves as much of the stack as possible into the sink and
	// returns what was not accepted. With simulate set nothing is moved.
	Insert(stack item.Stack, simulate bool) item.Stack
}

// RecipeSource is the live recipe registry.
type RecipeSource interface {
	Lookup(id ident.ID) (*recipe.Recipe, bool)
	All() []*recipe.Recipe
}

// StackSizer tells how many items fit in one stack.
type StackSizer interface {
	MaxStackSize(id ident.ID) int
}

type noOutput struct{}

func (noOutput) Insert(stack item.Stack, _ bool) item.Stack {
	return stack
}
