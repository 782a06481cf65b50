package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/blockgen/config"
	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/logging"
	"github.com/sarchlab/blockgen/simulation"
	"github.com/sarchlab/blockgen/world"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo generators for a number of ticks.",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64("ticks", 2000, "Number of ticks to simulate.")
	runCmd.Flags().String("config", "", "YAML configuration file.")
	runCmd.Flags().String("env", ".env", "Optional .env file.")
	runCmd.Flags().Bool("parallel", false, "Tick producers of the same tick concurrently.")
	runCmd.Flags().Bool("record", false, "Record production into SQLite.")
	runCmd.Flags().Bool("monitor", false, "Serve the monitor and wait for Ctrl+C after the run.")
	runCmd.Flags().String("state", "", "Load producer state from this file.")
	runCmd.Flags().String("save", "", "Save producer state to this file.")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env")

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("parallel") {
		cfg.Parallel, _ = cmd.Flags().GetBool("parallel")
	}

	if cmd.Flags().Changed("record") {
		cfg.Record.Enabled, _ = cmd.Flags().GetBool("record")
	}

	if cmd.Flags().Changed("monitor") {
		cfg.Monitor.Enabled, _ = cmd.Flags().GetBool("monitor")
	}

	return cfg, nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)

	sim, err := simulation.MakeBuilder().
		WithConfig(cfg).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}
	defer func() {
		if err := sim.Terminate(); err != nil {
			logger.Error().Err(err).Msg("terminating simulation")
		}
	}()

	simulation.Demo(sim)

	if path, _ := cmd.Flags().GetString("state"); path != "" {
		if err := loadState(sim, path); err != nil {
			return err
		}
	}

	ticks, _ := cmd.Flags().GetUint64("ticks")
	if err := sim.RunFor(ticks); err != nil {
		return err
	}

	if err := printSummary(cmd.OutOrStdout(), sim); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := saveState(sim, path); err != nil {
			return err
		}
	}

	if sim.MonitorURL() != "" {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(),
			"Monitor running at %s, press Ctrl+C to exit\n", sim.MonitorURL())
		<-ctx.Done()
	}

	return nil
}

func loadState(sim *simulation.Simulation, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening state: %w", err)
	}
	defer f.Close()

	return sim.LoadState(f)
}

func saveState(sim *simulation.Simulation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating state: %w", err)
	}

	if err := sim.SaveState(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func printSummary(w io.Writer, sim *simulation.Simulation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Tick %d\n\n", sim.Engine().CurrentTime())
	fmt.Fprintln(tw, "PRODUCER\tBINDING\tRECIPE\tBUFFER\tOUTPUT")

	positions := map[string]world.Pos{
		"cobble": simulation.DemoCobblePos,
		"basalt": simulation.DemoBasaltPos,
		"sand":   simulation.DemoSandPos,
	}

	for _, p := range sim.Producers() {
		output := "-"

		if pos, ok := positions[p.Name()]; ok {
			if c, ok := sim.World().ContainerAt(pos.Offset(world.Up)); ok {
				output = describeContents(c.Contents())
			}
		}

		recipeID := string(p.BoundRecipeID())
		if recipeID == "" {
			recipeID = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name(), p.Binding(), recipeID, p.Buffer(), output)
	}

	return tw.Flush()
}

func describeContents(stacks []item.Stack) string {
	var parts []string

	for _, s := range stacks {
		if !s.IsEmpty() {
			parts = append(parts, s.String())
		}
	}

	if len(parts) == 0 {
		return "empty"
	}

	return strings.Join(parts, " ")
}
