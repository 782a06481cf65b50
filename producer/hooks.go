package producer

import (
	"github.com/sarchlab/blockgen/hooking"
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/timing"
)

var (
	// HookPosRecipeBound fires when a pending id resolves or a rescan finds
	// a recipe. Item is a BindingRecord.
	HookPosRecipeBound = &hooking.HookPos{Name: "RecipeBound"}

	// HookPosRecipeAssigned fires when a recipe is assigned from outside.
	// The persisted state of the producer changed. Item is a BindingRecord.
	HookPosRecipeAssigned = &hooking.HookPos{Name: "RecipeAssigned"}

	// HookPosRecipeLost fires when a pending or bound id no longer resolves.
	// Item is a BindingRecord.
	HookPosRecipeLost = &hooking.HookPos{Name: "RecipeLost"}

	// HookPosProduced fires after every production attempt. Item is a
	// ProductionRecord.
	HookPosProduced = &hooking.HookPos{Name: "Produced"}

	// HookPosOutputPushed fires when items leave the buffer. Item is a
	// PushRecord.
	HookPosOutputPushed = &hooking.HookPos{Name: "OutputPushed"}
)

// BindingRecord describes a change of the bound recipe.
type BindingRecord struct {
	Time   timing.VTimeInCycle
	Recipe ident.ID
}

// ProductionRecord describes one production attempt.
type ProductionRecord struct {
	Time      timing.VTimeInCycle
	Recipe    ident.ID
	Item      ident.ID
	Requested int
	Actual    int
	Buffer    item.Stack
}

// PushRecord describes one transfer to the output.
type PushRecord struct {
	Time      timing.VTimeInCycle
	Item      ident.ID
	Pushed    int
	Remaining int
}

// BindingEvent names a binding hook position: bound, assigned, or lost. Other
// positions are named after the position itself.
func BindingEvent(pos *hooking.HookPos) string {
	switch pos {
	case HookPosRecipeBound:
		return "bound"
	case HookPosRecipeAssigned:
		return "assigned"
	case HookPosRecipeLost:
		return "lost"
	}

	return pos.Name
}
