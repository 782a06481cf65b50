package world

import (
	"sync"

	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
)

// A Container is an inventory with a fixed number of slots, such as a chest.
type Container struct {
	mu      sync.Mutex
	slots   []item.Stack
	catalog *item.Catalog
}

// NewContainer creates an empty container.
func NewContainer(numSlots int, catalog *item.Catalog) *Container {
	if numSlots <= 0 {
		panic("container must have at least one slot")
	}

	return &Container{
		slots:   make([]item.Stack, numSlots),
		catalog: catalog,
	}
}

// Insert puts as much of the stack as fits into the container, topping up
// stacks of the same item before using empty slots. It returns what did not
// fit. With simulate set, the container is left untouched.
func (c *Container) Insert(stack item.Stack, simulate bool) item.Stack {
	if stack.IsEmpty() {
		return item.Empty
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	max := c.catalog.MaxStackSize(stack.Item)
	remaining := stack.Count
	slots := c.slots
	if simulate {
		slots = make([]item.Stack, len(c.slots))
		copy(slots, c.slots)
	}

	for i := range slots {
		if remaining == 0 {
			break
		}

		if !slots[i].SameItem(stack) {
			continue
		}

		moved := min(remaining, max-slots[i].Count)
		if moved <= 0 {
			continue
		}

		slots[i].Count += moved
		remaining -= moved
	}

	for i := range slots {
		if remaining == 0 {
			break
		}

		if !slots[i].IsEmpty() {
			continue
		}

		moved := min(remaining, max)
		slots[i] = stack.WithCount(moved)
		remaining -= moved
	}

	return stack.WithCount(remaining)
}

// Contents returns a copy of the slots.
func (c *Container) Contents() []item.Stack {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]item.Stack, len(c.slots))
	copy(out, c.slots)

	return out
}

// Count returns the total number of an item held by the container.
func (c *Container) Count(id ident.ID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, s := range c.slots {
		if !s.IsEmpty() && s.Item == id {
			total += s.Count
		}
	}

	return total
}
