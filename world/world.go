package world

import (
	"sync"

	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
)

// World holds the blocks around generators.
type World struct {
	mu         sync.RWMutex
	blocks     map[Pos]ident.ID
	reservoirs map[Pos]*Reservoir
	containers map[Pos]*Container
	catalog    *item.Catalog

	// fluidLock serializes every query-then-drain sequence on reservoirs.
	fluidLock sync.Mutex
}

// New creates an empty world.
func New(catalog *item.Catalog) *World {
	return &World{
		blocks:     make(map[Pos]ident.ID),
		reservoirs: make(map[Pos]*Reservoir),
		containers: make(map[Pos]*Container),
		catalog:    catalog,
	}
}

// Catalog returns the item catalog used by containers.
func (w *World) Catalog() *item.Catalog {
	return w.catalog
}

// SetBlock places a block. Placing air clears the position, including any
// reservoir or container there.
func (w *World) SetBlock(pos Pos, id ident.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.setBlock(pos, id)
}

func (w *World) setBlock(pos Pos, id ident.ID) {
	delete(w.reservoirs, pos)
	delete(w.containers, pos)

	if id.IsAir() {
		delete(w.blocks, pos)
		return
	}

	w.blocks[pos] = id
}

// BlockAt returns the block at a position, air if there is none.
func (w *World) BlockAt(pos Pos) ident.ID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if id, ok := w.blocks[pos]; ok {
		return id
	}

	return ident.Air
}

// PlaceReservoir places a fluid block holding amount units.
func (w *World) PlaceReservoir(pos Pos, fluid ident.ID, amount int) *Reservoir {
	return w.placeReservoir(pos, &Reservoir{fluid: fluid, amount: amount})
}

// PlaceInfiniteReservoir places a fluid block that never runs dry.
func (w *World) PlaceInfiniteReservoir(pos Pos, fluid ident.ID) *Reservoir {
	return w.placeReservoir(pos, &Reservoir{fluid: fluid, infinite: true})
}

func (w *World) placeReservoir(pos Pos, r *Reservoir) *Reservoir {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.setBlock(pos, r.fluid)
	w.reservoirs[pos] = r

	return r
}

// ReservoirAt returns the reservoir at a position.
func (w *World) ReservoirAt(pos Pos) (*Reservoir, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r, ok := w.reservoirs[pos]

	return r, ok
}

// PlaceContainer places a container block.
func (w *World) PlaceContainer(pos Pos, id ident.ID, numSlots int) *Container {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := NewContainer(numSlots, w.catalog)
	w.setBlock(pos, id)
	w.containers[pos] = c

	return c
}

// ContainerAt returns the container at a position.
func (w *World) ContainerAt(pos Pos) (*Container, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.containers[pos]

	return c, ok
}

// drain removes units from the reservoir at pos. A finite reservoir that runs
// dry turns into air.
func (w *World) drain(pos Pos, n int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, ok := w.reservoirs[pos]
	if !ok {
		return
	}

	r.Drain(n)
	if r.Empty() {
		w.setBlock(pos, ident.Air)
	}
}

// Neighborhood returns the view of the world from a generator at pos.
func (w *World) Neighborhood(pos Pos) *Neighborhood {
	return &Neighborhood{world: w, pos: pos}
}
