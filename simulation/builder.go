package simulation

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/sarchlab/blockgen/config"
	"github.com/sarchlab/blockgen/datarecording"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/logging"
	"github.com/sarchlab/blockgen/monitoring"
	"github.com/sarchlab/blockgen/recipe"
	"github.com/sarchlab/blockgen/timing"
	"github.com/sarchlab/blockgen/tracing"
	"github.com/sarchlab/blockgen/world"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg            config.Config
	logger         zerolog.Logger
	recipes        []*recipe.Recipe
	outputFileName string
	startMonitor   bool
}

// MakeBuilder creates a new builder with the default configuration. Recording
// and monitoring follow the configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:          config.Default(),
		logger:       zerolog.Nop(),
		recipes:      recipe.Defaults(),
		startMonitor: true,
	}
}

// WithConfig sets the configuration.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithLogger sets the root logger.
func (b Builder) WithLogger(l zerolog.Logger) Builder {
	b.logger = l
	return b
}

// WithRecipes replaces the default recipe set.
func (b Builder) WithRecipes(recipes []*recipe.Recipe) Builder {
	b.recipes = recipes
	return b
}

// WithParallelEngine makes producers of the same tick run concurrently.
func (b Builder) WithParallelEngine() Builder {
	b.cfg.Parallel = true
	return b
}

// WithoutMonitoring disables the monitor regardless of the configuration.
func (b Builder) WithoutMonitoring() Builder {
	b.cfg.Monitor.Enabled = false
	return b
}

// WithoutMonitorServer creates the monitor but does not start serving.
func (b Builder) WithoutMonitorServer() Builder {
	b.startMonitor = false
	return b
}

// WithOutputFileName enables recording into the given file.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.cfg.Record.Enabled = true
	b.cfg.Record.Path = filename

	return b
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:        xid.New().String(),
		cfg:       b.cfg,
		engine:    newEngine(b.cfg.Parallel),
		registry:  recipe.NewRegistry(),
		world:     world.New(item.DefaultCatalog()),
		nameIndex: make(map[string]int),
	}

	s.log = logging.Component(b.logger, "simulation").
		With().Str("sim", s.id).Logger()
	s.producerLog = logging.Component(b.logger, "producer")

	if err := s.registry.Reload(b.recipes); err != nil {
		return nil, fmt.Errorf("simulation: loading recipes: %w", err)
	}

	if b.cfg.Record.Enabled {
		if err := b.buildRecorder(s); err != nil {
			return nil, err
		}
	}

	if b.cfg.Monitor.Enabled {
		if err := b.buildMonitor(s); err != nil {
			s.Terminate()
			return nil, err
		}
	}

	return s, nil
}

func newEngine(parallel bool) timing.Engine {
	if parallel {
		return timing.NewParallelEngine()
	}

	return timing.NewSerialEngine()
}

func (b Builder) buildRecorder(s *Simulation) error {
	path := b.cfg.Record.Path
	if path == "" {
		path = "blockgen_sim_" + s.id
	}

	recorder, err := datarecording.New(path)
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	s.dataRecorder = recorder
	s.tracer = tracing.NewProductionTracer(recorder)

	s.log.Info().
		Str("file", datarecording.Filename(recorder)).
		Msg("recording production")

	return nil
}

func (b Builder) buildMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor().
		WithLogger(logging.Component(b.logger, "monitor")).
		WithPortNumber(b.cfg.Monitor.Port)
	s.monitor.RegisterEngine(s.engine)

	s.progress = &progressHook{}
	s.engine.AcceptHook(s.progress)

	if !b.startMonitor {
		return nil
	}

	url, err := s.monitor.StartServer()
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	s.monitorURL = url

	if b.cfg.Monitor.OpenBrowser {
		if err := s.monitor.OpenInBrowser(url); err != nil {
			s.log.Warn().Err(err).Msg("cannot open browser")
		}
	}

	return nil
}
