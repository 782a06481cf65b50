// Package simulation assembles the engine, the recipes, the world, and the
// producers of a block generator simulation, together with the optional
// recorder and monitor.
package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/sarchlab/blockgen/config"
	"github.com/sarchlab/blockgen/datarecording"
	"github.com/sarchlab/blockgen/monitoring"
	"github.com/sarchlab/blockgen/producer"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/timing"
	"github.com/sarchlab/blockgen/tracing"
	"github.com/sarchlab/blockgen/world"
)

// A Simulation owns everything a set of producers needs to run.
type Simulation struct {
	id          string
	cfg         config.Config
	engine      timing.Engine
	registry    *recipe.Registry
	world       *world.World
	log         zerolog.Logger
	producerLog zerolog.Logger

	dataRecorder datarecording.DataRecorder
	tracer       *tracing.ProductionTracer
	monitor      *monitoring.Monitor
	monitorURL   string
	progress     *progressHook

	producers []*producer.Comp
	nameIndex map[string]int
}

// ID returns the unique id of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Engine returns the engine that drives the producers.
func (s *Simulation) Engine() timing.Engine {
	return s.engine
}

// Recipes returns the recipe registry.
func (s *Simulation) Recipes() *recipe.Registry {
	return s.registry
}

// World returns the world the producers live in.
func (s *Simulation) World() *world.World {
	return s.world
}

// DataRecorder returns the recorder, nil when recording is off.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor, nil when monitoring is off.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitor server, if it runs.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// ProducerBuilder returns a producer builder wired to the engine, the
// recipes, and the configured rates of this simulation. The neighbors and the
// output still need to be set.
func (s *Simulation) ProducerBuilder() producer.Builder {
	return producer.MakeBuilder().
		WithEngine(s.engine).
		WithRecipes(s.registry).
		WithCatalog(s.world.Catalog()).
		WithTickRate(s.cfg.TickRate).
		WithRescanInterval(s.cfg.RescanInterval).
		WithLogger(s.producerLog)
}

// NewProducer creates and registers a producer at a position of the world.
// It pushes into the block above.
func (s *Simulation) NewProducer(
	name string,
	pos world.Pos,
	kind producer.Kind,
) *producer.Comp {
	nb := s.world.Neighborhood(pos)

	p := s.ProducerBuilder().
		WithKind(kind).
		WithNeighbors(nb).
		WithOutput(nb.Output(world.Up)).
		Build(name)

	s.RegisterProducer(p)

	return p
}

// RegisterProducer adds a producer and starts ticking it. Registering two
// producers with the same name panics.
func (s *Simulation) RegisterProducer(p *producer.Comp) {
	name := p.Name()
	if _, exists := s.nameIndex[name]; exists {
		panic("producer " + name + " already registered")
	}

	s.producers = append(s.producers, p)
	s.nameIndex[name] = len(s.producers) - 1

	if s.tracer != nil {
		s.tracer.Attach(p)
	}

	if s.monitor != nil {
		s.monitor.RegisterProducer(p)
	}

	p.TickNow()
}

// Producer returns the producer with the given name.
func (s *Simulation) Producer(name string) (*producer.Comp, bool) {
	i, ok := s.nameIndex[name]
	if !ok {
		return nil, false
	}

	return s.producers[i], true
}

// Producers returns all producers in registration order.
func (s *Simulation) Producers() []*producer.Comp {
	return append([]*producer.Comp(nil), s.producers...)
}

// RunFor advances the simulation by a number of ticks.
func (s *Simulation) RunFor(ticks uint64) error {
	start := s.engine.CurrentTime()
	end := start + timing.VTimeInCycle(ticks)

	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar("Run", ticks)
		s.progress.track(bar, start)

		defer func() {
			s.progress.track(nil, 0)
			s.monitor.CompleteProgressBar(bar)
		}()
	}

	s.log.Info().
		Uint64("from", uint64(start)).
		Uint64("to", uint64(end)).
		Int("producers", len(s.producers)).
		Msg("running")

	if err := s.engine.RunUntil(end); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	if bar != nil {
		bar.SetFinished(ticks)
	}

	return nil
}

// State is the persisted state of all producers, keyed by producer name.
type State map[string]producer.Snapshot

// SaveState writes the state of every producer as JSON.
func (s *Simulation) SaveState(w io.Writer) error {
	state := make(State, len(s.producers))
	for _, p := range s.producers {
		state[p.Name()] = p.Save()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("simulation: saving state: %w", err)
	}

	return nil
}

// LoadState restores producer states written by SaveState. Entries for
// unknown producers are skipped. Producers without an entry keep their state.
func (s *Simulation) LoadState(r io.Reader) error {
	var state State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return fmt.Errorf("simulation: loading state: %w", err)
	}

	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		p, ok := s.Producer(name)
		if !ok {
			s.log.Warn().Str("producer", name).Msg("state for unknown producer")
			continue
		}

		p.Load(state[name])
	}

	return nil
}

// Terminate flushes the recorder and stops the monitor.
func (s *Simulation) Terminate() error {
	var errs []error

	if s.dataRecorder != nil {
		if err := s.dataRecorder.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := s.monitor.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
