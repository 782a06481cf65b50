package producer

import (
	"math"
	"sync"

	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/timing"
	"github.com/sarchlab/blockgen/world"
)

// requestedYield is the yield before any neighbor limits it.
func (c *Comp) requestedYield(r *recipe.Recipe) int {
	modifier := c.kind.ProductionModifier() * r.Speed()
	return int(math.Floor(float64(r.Result().Count) * modifier))
}

func (c *Comp) produce(now timing.VTimeInCycle, r *recipe.Recipe) {
	requested := c.requestedYield(r)

	actual := requested
	if !r.Inexhaustible() && requested > 0 {
		actual = c.consume(r, requested)
	}

	if actual > 0 {
		produced := r.Result().WithCount(actual)
		limit := c.catalog.MaxStackSize(produced.Item)

		// Overflow beyond the stack limit and any buffered item of another
		// kind are lost.
		c.buffer = item.Accumulate(c.buffer, produced, limit)
	}

	c.raise(HookPosProduced, ProductionRecord{
		Time:      now,
		Recipe:    r.ID(),
		Item:      r.Result().Item,
		Requested: requested,
		Actual:    actual,
		Buffer:    c.buffer,
	})
}

// consume finds the neighbors the recipe drains and drains as much as both
// sides can supply. It returns the amount drained from each consuming side.
func (c *Comp) consume(r *recipe.Recipe, requested int) int {
	if l, ok := c.neighbors.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}

	for _, dir := range world.Horizontal() {
		state := c.neighbors.StateAt(dir)

		switch {
		case r.ConsumeLeft() && r.Left().Matches(state):
			return c.drain(r, dir, dir.Opposite(), requested)
		case r.ConsumeRight() && r.Right().Matches(state):
			return c.drain(r, dir.Opposite(), dir, requested)
		}
	}

	c.log.Debug().
		Str("recipe", string(r.ID())).
		Msg("no consumable neighbor found")

	return 0
}

func (c *Comp) drain(
	r *recipe.Recipe,
	leftDir, rightDir world.Direction,
	requested int,
) int {
	actual := requested

	if r.ConsumeLeft() {
		actual = min(actual, c.available(r.Left(), leftDir, requested))
	}

	if r.ConsumeRight() {
		actual = min(actual, c.available(r.Right(), rightDir, requested))
	}

	if actual <= 0 {
		return 0
	}

	if r.ConsumeLeft() {
		c.neighbors.Consume(leftDir, actual)
	}

	if r.ConsumeRight() {
		c.neighbors.Consume(rightDir, actual)
	}

	return actual
}

// available returns how much a side can supply. A side whose block does not
// match supplies nothing.
func (c *Comp) available(
	m recipe.Matcher,
	dir world.Direction,
	requested int,
) int {
	if !m.Matches(c.neighbors.StateAt(dir)) {
		return 0
	}

	n := c.neighbors.QueryAvailable(dir, requested)

	return max(0, min(n, requested))
}
