// Package cmd provides the command-line interface of blockgen.
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blockgen",
	Short: "blockgen simulates block generators.",
	Long: `blockgen simulates block generators that turn neighboring fluids ` +
		`into items, tick by tick, and pushes the items into containers.`,
	SilenceUsage: true,
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}
