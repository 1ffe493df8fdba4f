package cmd

import (
	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/report"
	"github.com/spf13/cobra"
)

var freqCmd = &cobra.Command{
	Use:   "freq <file> <column>",
	Short: "Count the values of one column",
	Example: `  sosdash freq clients.xlsx Gender
  sosdash freq clients.xlsx "Income Range (Thousands)" --filter "Follow Through" --value 1 --year 2022`,
	Args: cobra.ExactArgs(2),
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
		return emit(cmd, t, report.FreqTable(t))
	},
}

var crosstabCmd = &cobra.Command{
	Use:   "crosstab <file> <row-column> <col-column>",
	Short: "Cross-tabulate two columns",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := queryFromFlags()
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		x := freq.Multi(ds, args[1], args[2], q)
		return emit(cmd, x, report.CrosstabTable(x))
	},
}

func init() {
	rootCmd.AddCommand(freqCmd)
	rootCmd.AddCommand(crosstabCmd)
	for _, c := range []*cobra.Command{freqCmd, crosstabCmd} {
		addQueryFlags(c)
		addJSONFlag(c)
	}
}
