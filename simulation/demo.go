package simulation

import (
	"github.com/sarchlab/blockgen/ident"
	"github.com/sarchlab/blockgen/producer"
	"github.com/sarchlab/blockgen/world"
)

// Positions of the demo producers.
var (
	DemoCobblePos = world.Pos{X: 0}
	DemoBasaltPos = world.Pos{X: 10}
	DemoSandPos   = world.Pos{X: 20}
)

// DemoLavaAmount is the lava the basalt generator of the demo starts with.
const DemoLavaAmount = 40

// Demo places three generators into the world of a simulation:
//
//   - cobble: a stone generator between water and lava, with a chest above.
//   - basalt: a gold generator on soul soil between a finite lava pool and
//     blue ice, with a chest above. It stops when the lava runs out.
//   - sand: an iron generator between water and sandstone without a container
//     above, so its buffer fills up.
func Demo(s *Simulation) []*producer.Comp {
	w := s.World()

	w.SetBlock(DemoCobblePos.Offset(world.West), ident.MustParse("water"))
	w.SetBlock(DemoCobblePos.Offset(world.East), ident.MustParse("lava"))
	w.PlaceContainer(DemoCobblePos.Offset(world.Up), ident.MustParse("chest"), 27)

	w.SetBlock(DemoBasaltPos.Offset(world.Down), ident.MustParse("soul_soil"))
	w.PlaceReservoir(DemoBasaltPos.Offset(world.North),
		ident.MustParse("lava"), DemoLavaAmount)
	w.SetBlock(DemoBasaltPos.Offset(world.South), ident.MustParse("blue_ice"))
	w.PlaceContainer(DemoBasaltPos.Offset(world.Up), ident.MustParse("chest"), 27)

	w.SetBlock(DemoSandPos.Offset(world.North), ident.MustParse("water"))
	w.SetBlock(DemoSandPos.Offset(world.South), ident.MustParse("sandstone"))

	return []*producer.Comp{
		s.NewProducer("cobble", DemoCobblePos, producer.StoneKind),
		s.NewProducer("basalt", DemoBasaltPos, producer.GoldKind),
		s.NewProducer("sand", DemoSandPos, producer.IronKind),
	}
}
