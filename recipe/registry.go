package recipe

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sarchlab/blockgen/ident"
)

// ErrDuplicateID is returned when two recipes share an identity.
var ErrDuplicateID = errors.New("recipe: duplicated id")

// A Registry owns the live recipe set. Recipes keep the order they were
// registered in, which is the order used for matching.
type Registry struct {
	mu      sync.RWMutex
	recipes []*Recipe
	index   map[ident.ID]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[ident.ID]int)}
}

// Register appends a recipe.
func (r *Registry) Register(recipe *Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.add(recipe)
}

func (r *Registry) add(recipe *Recipe) error {
	if _, found := r.index[recipe.ID()]; found {
		return fmt.Errorf("%w: %s", ErrDuplicateID, recipe.ID())
	}

	r.recipes = append(r.recipes, recipe)
	r.index[recipe.ID()] = len(r.recipes) - 1

	return nil
}

// Reload replaces every recipe. On error the registry keeps its previous
// content.
func (r *Registry) Reload(recipes []*Recipe) error {
	next := NewRegistry()
	for _, recipe := range recipes {
		if err := next.add(recipe); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.recipes = next.recipes
	r.index = next.index
	r.mu.Unlock()

	return nil
}

// Lookup finds a recipe by identity.
func (r *Registry) Lookup(id ident.ID) (*Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, found := r.index[id]
	if !found {
		return nil, false
	}

	return r.recipes[i], true
}

// All returns the recipes in registration order.
func (r *Registry) All() []*Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Recipe, len(r.recipes))
	copy(out, r.recipes)

	return out
}

// Len returns the number of recipes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.recipes)
}
