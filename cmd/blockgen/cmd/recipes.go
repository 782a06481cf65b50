package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/blockgen/recipe"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List the built-in recipes in lookup order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printRecipes(cmd.OutOrStdout(), recipe.Defaults())
	},
}

func init() {
	rootCmd.AddCommand(recipesCmd)
}

func printRecipes(w io.Writer, recipes []*recipe.Recipe) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tRESULT\tLEFT\tRIGHT\tBELOW\tSPEED\tCONSUMES")

	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%g\t%s\n",
			r.ID(), r.Result(), r.Left(), r.Right(), r.Modifier(),
			r.Speed(), consumedSides(r))
	}

	return tw.Flush()
}

func consumedSides(r *recipe.Recipe) string {
	var sides []string

	if r.ConsumeLeft() {
		sides = append(sides, "left")
	}

	if r.ConsumeRight() {
		sides = append(sides, "right")
	}

	if len(sides) == 0 {
		return "-"
	}

	return strings.Join(sides, ",")
}
