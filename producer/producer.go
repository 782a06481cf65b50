// Package producer implements block generators: components that periodically
// bind a recipe from their surroundings, turn neighboring fluids into items,
// and push the items into the block above.
package producer

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/sarchlab/blockgen/hooking"
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/timing"
	"github.com/sarchlab/blockgen/world"
)

// Binding is the state of the recipe reference of a producer.
type Binding int

// Possible bindings.
const (
	BindingUnbound Binding = iota
	BindingPending
	BindingBound
)

func (b Binding) String() string {
	switch b {
	case BindingUnbound:
		return "unbound"
	case BindingPending:
		return "pending"
	case BindingBound:
		return "bound"
	}

	return "unknown"
}

// Comp is a block generator.
type Comp struct {
	*timing.TickingComponent

	kind      Kind
	recipes   RecipeSource
	neighbors NeighborAccessor
	output    OutputSink
	catalog   StackSizer
	log       zerolog.Logger

	tickRate       uint64
	rescanInterval uint64

	mu        sync.Mutex
	boundID   ident.ID
	pendingID ident.ID
	buffer    item.Stack

	// hook contexts raised while mu is held, fired after it is released
	raised []hooking.HookCtx
}

// Tick runs one game tick. A producer never goes idle, since it has to rescan
// and produce on its own schedule.
func (c *Comp) Tick() bool {
	c.Update(c.CurrentTime())
	return true
}

// Update runs the producer logic for the given tick.
func (c *Comp) Update(now timing.VTimeInCycle) {
	c.mu.Lock()

	if c.pendingID != "" {
		c.resolvePending(now)
	}

	if uint64(now)%c.tickRate == 0 {
		if r, ok := c.boundRecipe(now); ok {
			c.produce(now, r)
		}

		c.pushOutput(now)
	}

	if c.boundID == "" && uint64(now)%c.rescanInterval == 0 {
		c.rescan(now)
	}

	c.mu.Unlock()
	c.fireRaised()
}

func (c *Comp) raise(pos *hooking.HookPos, detail any) {
	if c.NumHooks() == 0 {
		return
	}

	c.raised = append(c.raised, hooking.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   detail,
	})
}

func (c *Comp) fireRaised() {
	c.mu.Lock()
	raised := c.raised
	c.raised = nil
	c.mu.Unlock()

	for _, ctx := range raised {
		c.InvokeHook(ctx)
	}
}

// pushOutput moves as much of the buffer as the output accepts.
func (c *Comp) pushOutput(now timing.VTimeInCycle) {
	if c.buffer.IsEmpty() {
		return
	}

	before := c.buffer
	c.buffer = c.output.Insert(before, false)

	remaining := 0
	if !c.buffer.IsEmpty() {
		remaining = c.buffer.Count
	}

	if pushed := before.Count - remaining; pushed > 0 {
		c.raise(HookPosOutputPushed, PushRecord{
			Time:      now,
			Item:      before.Item,
			Pushed:    pushed,
			Remaining: remaining,
		})
	}
}

// Binding returns the state of the recipe reference.
func (c *Comp) Binding() Binding {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.binding()
}

// Status is the state of a producer taken at one instant.
type Status struct {
	Binding Binding
	Recipe  ident.ID
	Buffer  item.Stack
}

// Status returns the binding, the bound recipe, and the buffer together.
func (c *Comp) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Binding: c.binding(),
		Recipe:  c.boundID,
		Buffer:  c.buffer,
	}
}

func (c *Comp) binding() Binding {
	switch {
	case c.pendingID != "":
		return BindingPending
	case c.boundID != "":
		return BindingBound
	}

	return BindingUnbound
}

// HasBoundRecipe returns true if the producer is bound to a recipe.
func (c *Comp) HasBoundRecipe() bool {
	return c.Binding() == BindingBound
}

// BoundRecipeID returns the identity of the bound recipe, empty if unbound.
func (c *Comp) BoundRecipeID() ident.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.boundID
}

// CurrentResult returns what the bound recipe produces.
func (c *Comp) CurrentResult() (item.Stack, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.boundID == "" {
		return item.Empty, false
	}

	r, found := c.recipes.Lookup(c.boundID)
	if !found {
		return item.Empty, false
	}

	return r.Result(), true
}

// Buffer returns the items produced but not yet pushed out.
func (c *Comp) Buffer() item.Stack {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buffer
}

// ClearBuffer drops the buffered items.
func (c *Comp) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer = item.Empty
}

// AssignRecipe binds a recipe from outside, for example after a neighbor
// changed. Passing nil unbinds. Observers are notified through
// HookPosRecipeAssigned.
func (c *Comp) AssignRecipe(r *recipe.Recipe) {
	c.mu.Lock()

	c.pendingID = ""
	c.boundID = ""
	if r != nil {
		c.boundID = r.ID()
	}

	c.raise(HookPosRecipeAssigned, BindingRecord{
		Time:   c.CurrentTime(),
		Recipe: c.boundID,
	})

	c.mu.Unlock()
	c.fireRaised()
}

// Neighbors returns the accessor of the surrounding blocks.
func (c *Comp) Neighbors() NeighborAccessor {
	return c.neighbors
}

// Kind returns the producer variant.
func (c *Comp) Kind() Kind {
	return c.kind
}

var lateralPairs = [][2]world.Direction{
	{world.North, world.South},
	{world.West, world.East},
}
