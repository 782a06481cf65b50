package producer

import (
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/timing"
	"github.com/sarchlab/blockgen/world"
)

// resolvePending looks the pending id up once. The pending id is cleared
// whether or not the lookup succeeds.
func (c *Comp) resolvePending(now timing.VTimeInCycle) {
	id := c.pendingID
	c.pendingID = ""

	r, found := c.recipes.Lookup(id)
	if !found {
		c.log.Warn().
			Str("recipe", string(id)).
			Msg("stored recipe no longer exists")
		c.raise(HookPosRecipeLost, BindingRecord{Time: now, Recipe: id})

		return
	}

	c.bind(now, r)
}

// boundRecipe resolves the bound id. An id that vanished from the registry
// unbinds the producer.
func (c *Comp) boundRecipe(now timing.VTimeInCycle) (*recipe.Recipe, bool) {
	if c.boundID == "" {
		return nil, false
	}

	r, found := c.recipes.Lookup(c.boundID)
	if !found {
		c.log.Warn().
			Str("recipe", string(c.boundID)).
			Msg("bound recipe removed from registry")
		c.raise(HookPosRecipeLost, BindingRecord{Time: now, Recipe: c.boundID})
		c.boundID = ""

		return nil, false
	}

	return r, true
}

// rescan tries each pair of opposite lateral neighbors. The first pair that
// matches a recipe binds it.
func (c *Comp) rescan(now timing.VTimeInCycle) {
	below := c.neighbors.StateAt(world.Down)
	recipes := c.recipes.All()

	for _, pair := range lateralPairs {
		first := c.neighbors.StateAt(pair[0])
		second := c.neighbors.StateAt(pair[1])

		r, found := recipe.FindMatch(first, second, below, recipes)
		if found {
			c.bind(now, r)
			return
		}
	}
}

func (c *Comp) bind(now timing.VTimeInCycle, r *recipe.Recipe) {
	c.boundID = r.ID()

	c.log.Debug().
		Str("recipe", string(r.ID())).
		Uint64("tick", uint64(now)).
		Msg("recipe bound")
	c.raise(HookPosRecipeBound, BindingRecord{Time: now, Recipe: r.ID()})
}

// Snapshot is the persisted state of a producer.
type Snapshot struct {
	Recipe string `json:"recipe,omitempty"`
}

// Save returns the persisted state. The recipe is written while it is bound or
// still pending.
func (c *Comp) Save() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.pendingID != "":
		return Snapshot{Recipe: string(c.pendingID)}
	case c.boundID != "":
		return Snapshot{Recipe: string(c.boundID)}
	}

	return Snapshot{}
}

// Load restores a persisted state. The recipe id is only resolved on the next
// tick, because the registry may not be loaded yet. A malformed id leaves the
// producer unbound.
func (c *Comp) Load(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.boundID = ""
	c.pendingID = ""

	if s.Recipe == "" {
		return
	}

	id, err := ident.Parse(s.Recipe)
	if err != nil {
		c.log.Warn().Err(err).Msg("cannot decode stored recipe")
		return
	}

	c.pendingID = id
}
