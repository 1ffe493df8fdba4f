package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/sosdash/internal/report"
	"github.com/KaramelBytes/sosdash/internal/workbook"
	"github.com/spf13/cobra"
)

var cleanOutput string

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a workbook and print the processing summary",
	Long: `Validate and clean a Students of Service workbook. With --output, the cleaned
client table and the derived summary sheets are written to a new workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		sum := ds.Summary()
		if !asJSON {
			fmt.Fprintln(cmd.OutOrStdout(), report.Title(filepath.Base(args[0])))
		}
		if err := emit(cmd, sum, report.SummaryTable(sum)); err != nil {
			return err
		}
		if cleanOutput != "" {
			if err := workbook.Save(cleanOutput, ds.Sheets()...); err != nil {
				return fmt.Errorf("write cleaned workbook: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote cleaned workbook to %s\n", cleanOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "path for the cleaned .xlsx")
	addJSONFlag(cleanCmd)
}
