package recipe

import (
	"errors"
	"fmt"

	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
)

// ErrInvalidRecipe is returned when a Builder is missing required fields.
var ErrInvalidRecipe = errors.New("recipe: invalid recipe")

// Builder creates recipes. Unset matchers are wildcards, the speed defaults to
// 1, and nothing is consumed.
type Builder struct {
	result       item.Stack
	left         Matcher
	right        Matcher
	modifier     Matcher
	speed        float64
	consumeLeft  bool
	consumeRight bool
}

// MakeBuilder creates a builder with default values.
func MakeBuilder() Builder {
	return Builder{
		left:     Any,
		right:    Any,
		modifier: Any,
		speed:    1,
	}
}

// WithResult sets the produced item and its natural yield.
func (b Builder) WithResult(id ident.ID, count int) Builder {
	b.result = item.NewStack(id, count)
	return b
}

// WithLeft sets the block required on one side.
func (b Builder) WithLeft(id ident.ID) Builder {
	b.left = Match(id)
	return b
}

// WithRight sets the block required on the other side.
func (b Builder) WithRight(id ident.ID) Builder {
	b.right = Match(id)
	return b
}

// WithModifier sets the block required below the generator.
func (b Builder) WithModifier(id ident.ID) Builder {
	b.modifier = Match(id)
	return b
}

// WithSpeed sets the yield multiplier.
func (b Builder) WithSpeed(speed float64) Builder {
	b.speed = speed
	return b
}

// ConsumingLeft makes production drain the left neighbor.
func (b Builder) ConsumingLeft() Builder {
	b.consumeLeft = true
	return b
}

// ConsumingRight makes production drain the right neighbor.
func (b Builder) ConsumingRight() Builder {
	b.consumeRight = true
	return b
}

// Build creates a recipe with the given identity.
func (b Builder) Build(id ident.ID) (*Recipe, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidRecipe)
	}

	if b.result.IsEmpty() {
		return nil, fmt.Errorf("%w: %s has no result", ErrInvalidRecipe, id)
	}

	if b.speed <= 0 {
		return nil, fmt.Errorf(
			"%w: %s has non-positive speed %g", ErrInvalidRecipe, id, b.speed)
	}

	return &Recipe{
		id:           id,
		result:       b.result,
		left:         b.left,
		right:        b.right,
		modifier:     b.modifier,
		speed:        b.speed,
		consumeLeft:  b.consumeLeft,
		consumeRight: b.consumeRight,
	}, nil
}

// MustBuild is like Build but panics on invalid input.
func (b Builder) MustBuild(id ident.ID) *Recipe {
	r, err := b.Build(id)
	if err != nil {
		panic(err)
	}

	return r
}
