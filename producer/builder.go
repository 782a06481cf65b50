package producer

import (
	"github.com/rs/zerolog"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/timing"
)

const (
	// DefaultTickRate is the number of ticks between two productions.
	DefaultTickRate = 20

	// DefaultRescanInterval is the number of ticks between two recipe
	// lookups of an unbound producer. It is prime so that rescans do not
	// stay in phase with other periodic work.
	DefaultRescanInterval = 113
)

// Builder creates producers.
type Builder struct {
	engine         timing.EventScheduler
	tickRate       uint64
	rescanInterval uint64
	kind           Kind
	recipes        RecipeSource
	neighbors      NeighborAccessor
	output         OutputSink
	catalog        StackSizer
	logger         zerolog.Logger
}

// MakeBuilder creates a builder with default values.
func MakeBuilder() Builder {
	return Builder{
		tickRate:       DefaultTickRate,
		rescanInterval: DefaultRescanInterval,
		kind:           StoneKind,
		catalog:        item.DefaultCatalog(),
		logger:         zerolog.Nop(),
	}
}

// WithEngine sets the engine that drives the producer.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithTickRate sets the number of ticks between two productions.
func (b Builder) WithTickRate(n uint64) Builder {
	b.tickRate = n
	return b
}

// WithRescanInterval sets the number of ticks between two recipe lookups.
func (b Builder) WithRescanInterval(n uint64) Builder {
	b.rescanInterval = n
	return b
}

// WithKind sets the producer variant.
func (b Builder) WithKind(kind Kind) Builder {
	b.kind = kind
	return b
}

// WithRecipes sets the recipe registry.
func (b Builder) WithRecipes(recipes RecipeSource) Builder {
	b.recipes = recipes
	return b
}

// WithNeighbors sets the accessor of the surrounding blocks.
func (b Builder) WithNeighbors(neighbors NeighborAccessor) Builder {
	b.neighbors = neighbors
	return b
}

// WithOutput sets where produced items go.
func (b Builder) WithOutput(output OutputSink) Builder {
	b.output = output
	return b
}

// WithCatalog sets the stack size limits.
func (b Builder) WithCatalog(catalog StackSizer) Builder {
	b.catalog = catalog
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger zerolog.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("producer: engine is not set")
	}

	if b.recipes == nil {
		panic("producer: recipe source is not set")
	}

	if b.neighbors == nil {
		panic("producer: neighbor accessor is not set")
	}

	if b.tickRate == 0 || b.rescanInterval == 0 {
		panic("producer: tick rate and rescan interval must be positive")
	}

	if b.kind == nil || b.kind.ProductionModifier() <= 0 {
		panic("producer: kind must have a positive modifier")
	}
}

// Build creates a producer with the given name.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		kind:           b.kind,
		recipes:        b.recipes,
		neighbors:      b.neighbors,
		output:         b.output,
		catalog:        b.catalog,
		tickRate:       b.tickRate,
		rescanInterval: b.rescanInterval,
		log:            b.logger.With().Str("producer", name).Logger(),
	}

	if c.output == nil {
		c.output = noOutput{}
	}

	c.TickingComponent = timing.NewTickingComponent(name, b.engine, c)

	return c
}
