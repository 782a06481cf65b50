package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/blockgen/datarecording"
	"github.com/sarchlab/blockgen/tracing"
)

var reportCmd = &cobra.Command{
	Use:   "report FILE",
	Short: "Summarize a production recording.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		return printReport(cmd, reader)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

type productionRow struct {
	Producer string `structs:"producer"`
	Item     string `structs:"item"`
	Actual   int    `structs:"actual"`
}

type itemTotal struct {
	producer, item string
	count          int
	attempts       int
}

func printReport(cmd *cobra.Command, reader datarecording.DataReader) error {
	reader.MapTable(tracing.ProductionTable, productionRow{})

	rows, _, err := reader.Query(cmd.Context(), tracing.ProductionTable,
		datarecording.QueryParams{})
	if err != nil {
		return err
	}

	totals := make(map[[2]string]*itemTotal)

	for _, r := range rows {
		row := r.(*productionRow)
		key := [2]string{row.Producer, row.Item}

		t, ok := totals[key]
		if !ok {
			t = &itemTotal{producer: row.Producer, item: row.Item}
			totals[key] = t
		}

		t.count += row.Actual
		t.attempts++
	}

	return writeTotals(cmd.OutOrStdout(), totals)
}

func writeTotals(w io.Writer, totals map[[2]string]*itemTotal) error {
	sorted := make([]*itemTotal, 0, len(totals))
	for _, t := range totals {
		sorted = append(sorted, t)
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].producer != sorted[j].producer {
			return sorted[i].producer < sorted[j].producer
		}

		return sorted[i].item < sorted[j].item
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCER\tITEM\tPRODUCED\tATTEMPTS")

	for _, t := range sorted {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", t.producer, t.item, t.count, t.attempts)
	}

	return tw.Flush()
}
