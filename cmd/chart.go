package cmd

import (
	"fmt"

	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/report"
	"github.com/KaramelBytes/sosdash/internal/utils"
	"github.com/spf13/cobra"
)

var chartOutput string

var chartCmd = &cobra.Command{
	Use:   "chart <file> <column>",
	Short: "Save a bar chart of a column's frequencies",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := queryFromFlags()
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		t := freq.Single(ds, args[1], q)
		if t.Empty() {
			return fmt.Errorf("nothing to chart: %s", t.Note)
		}
		if err := utils.EnsureParentDir(chartOutput); err != nil {
			return err
		}
		if err := report.FreqChart(t, chartOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote chart to %s\n", chartOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "chart.png", "image path (png, svg or pdf)")
	addQueryFlags(chartCmd)
}
