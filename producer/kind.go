package producer

import "sort"

// A Kind is a variant of producer. Faster variants multiply the yield of every
// recipe.
type Kind interface {
	ProductionModifier() float64
}

// BasicKind is a named kind with a fixed modifier.
type BasicKind struct {
	Name     string
	Modifier float64
}

// ProductionModifier returns the yield multiplier.
func (k BasicKind) ProductionModifier() float64 {
	return k.Modifier
}

// Built-in producer kinds.
var (
	StoneKind     = BasicKind{Name: "stone", Modifier: 1}
	IronKind      = BasicKind{Name: "iron", Modifier: 2}
	GoldKind      = BasicKind{Name: "gold", Modifier: 4}
	DiamondKind   = BasicKind{Name: "diamond", Modifier: 8}
	NetheriteKind = BasicKind{Name: "netherite", Modifier: 16}
)

var kinds = map[string]BasicKind{
	StoneKind.Name:     StoneKind,
	IronKind.Name:      IronKind,
	GoldKind.Name:      GoldKind,
	DiamondKind.Name:   DiamondKind,
	NetheriteKind.Name: NetheriteKind,
}

// KindByName finds a built-in kind.
func KindByName(name string) (BasicKind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// KindNames lists the built-in kinds in alphabetical order.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
