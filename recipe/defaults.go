package recipe

import "github.com/sarchlab/blockgen/ident"

var (
	water = ident.MustParse("water")
	lava  = ident.MustParse("lava")
)

// Defaults returns the built-in recipe set. Recipes with a modifier come
// before the plain generator with the same neighbors so that they win the
// first-match lookup.
func Defaults() []*Recipe {
	return []*Recipe{
		MakeBuilder().
			WithResult(ident.MustParse("basalt"), 1).
			WithLeft(lava).
			WithRight(ident.MustParse("blue_ice")).
			WithModifier(ident.MustParse("soul_soil")).
			ConsumingLeft().
			MustBuild("blockgen:basalt"),
		MakeBuilder().
			WithResult(ident.MustParse("stone"), 1).
			WithLeft(water).
			WithRight(lava).
			WithModifier(ident.MustParse("stone")).
			MustBuild("blockgen:stone"),
		MakeBuilder().
			WithResult(ident.MustParse("deepslate"), 1).
			WithLeft(water).
			WithRight(lava).
			WithModifier(ident.MustParse("deepslate")).
			WithSpeed(0.5).
			MustBuild("blockgen:deepslate"),
		MakeBuilder().
			WithResult(ident.MustParse("obsidian"), 1).
			WithLeft(water).
			WithRight(lava).
			WithModifier(ident.MustParse("crying_obsidian")).
			ConsumingRight().
			MustBuild("blockgen:obsidian"),
		MakeBuilder().
			WithResult(ident.MustParse("cobblestone"), 1).
			WithLeft(water).
			WithRight(lava).
			MustBuild("blockgen:cobblestone"),
		MakeBuilder().
			WithResult(ident.MustParse("sand"), 2).
			WithLeft(water).
			WithRight(ident.MustParse("sandstone")).
			MustBuild("blockgen:sand"),
		MakeBuilder().
			WithResult(ident.MustParse("gravel"), 1).
			WithLeft(water).
			WithRight(ident.MustParse("cobblestone")).
			ConsumingLeft().
			MustBuild("blockgen:gravel"),
	}
}
