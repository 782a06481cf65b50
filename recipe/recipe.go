// Package recipe defines block generator recipes and how they are matched
// against the blocks around a generator.
package recipe

import (
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
)

// A Matcher accepts either one block identity or, when it is air, any block.
type Matcher ident.ID

// Any is the wildcard matcher.
const Any = Matcher(ident.Air)

// Match creates a matcher for a single block identity.
func Match(id ident.ID) Matcher {
	return Matcher(id)
}

// IsWildcard returns true if the matcher accepts every block.
func (m Matcher) IsWildcard() bool {
	return ident.ID(m).IsAir()
}

// Matches returns true if the block is accepted.
func (m Matcher) Matches(block ident.ID) bool {
	return m.IsWildcard() || ident.ID(m) == block
}

// Block returns the identity the matcher accepts, air for the wildcard.
func (m Matcher) Block() ident.ID {
	if m.IsWildcard() {
		return ident.Air
	}

	return ident.ID(m)
}

func (m Matcher) String() string {
	if m.IsWildcard() {
		return "*"
	}

	return string(m)
}

// A Recipe tells what a generator produces when it sits between a left and a
// right block on top of a modifier block. Recipes are immutable. Use a Builder
// to create one.
type Recipe struct {
	id           ident.ID
	result       item.Stack
	left         Matcher
	right        Matcher
	modifier     Matcher
	speed        float64
	consumeLeft  bool
	consumeRight bool
}

// ID returns the stable identity used to persist references to the recipe.
func (r *Recipe) ID() ident.ID { return r.id }

// Result returns the item produced and its natural yield per production.
func (r *Recipe) Result() item.Stack { return r.result }

// Left returns the matcher of the left neighbor.
func (r *Recipe) Left() Matcher { return r.left }

// Right returns the matcher of the right neighbor.
func (r *Recipe) Right() Matcher { return r.right }

// Modifier returns the matcher of the block below the generator.
func (r *Recipe) Modifier() Matcher { return r.modifier }

// Speed returns the multiplier applied to the yield.
func (r *Recipe) Speed() float64 { return r.speed }

// ConsumeLeft returns true if production drains the left neighbor.
func (r *Recipe) ConsumeLeft() bool { return r.consumeLeft }

// ConsumeRight returns true if production drains the right neighbor.
func (r *Recipe) ConsumeRight() bool { return r.consumeRight }

// Inexhaustible returns true if production never drains any neighbor.
func (r *Recipe) Inexhaustible() bool {
	return !r.consumeLeft && !r.consumeRight
}

// Matches checks the recipe against two lateral neighbors and the block below.
// The lateral neighbors are interchangeable.
func (r *Recipe) Matches(first, second, below ident.ID) bool {
	if !r.modifier.Matches(below) {
		return false
	}

	if r.left.Matches(first) && r.right.Matches(second) {
		return true
	}

	return r.right.Matches(first) && r.left.Matches(second)
}

// FindMatch returns the first recipe in the list that matches. The order of
// the list decides which recipe wins when several overlap; no scoring is done.
func FindMatch(first, second, below ident.ID, recipes []*Recipe) (*Recipe, bool) {
	for _, r := range recipes {
		if r.Matches(first, second, below) {
			return r, true
		}
	}

	return nil, false
}
