package item

import (
	"sync"

	"github.com/sarchlab/blockgen/ident"
)

// DefaultMaxStackSize is the stack limit of items without an explicit entry.
const DefaultMaxStackSize = 64

// A Catalog knows how many items of each kind fit in one stack.
type Catalog struct {
	mu      sync.RWMutex
	maxSize map[ident.ID]int
}

// NewCatalog creates a catalog where every item stacks to
// DefaultMaxStackSize.
func NewCatalog() *Catalog {
	return &Catalog{maxSize: make(map[ident.ID]int)}
}

// DefaultCatalog creates a catalog with the common vanilla exceptions.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	for _, id := range []string{"ender_pearl", "snowball", "egg", "honey_bottle"} {
		c.Register(ident.MustParse(id), 16)
	}

	for _, id := range []string{"bucket", "water_bucket", "lava_bucket"} {
		c.Register(ident.MustParse(id), 1)
	}

	return c
}

// Register sets the stack limit of an item.
func (c *Catalog) Register(id ident.ID, max int) {
	if max <= 0 {
		panic("max stack size must be positive")
	}

	c.mu.Lock()
	c.maxSize[id] = max
	c.mu.Unlock()
}

// MaxStackSize returns the stack limit of an item.
func (c *Catalog) MaxStackSize(id ident.ID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n, ok := c.maxSize[id]; ok {
		return n
	}

	return DefaultMaxStackSize
}
