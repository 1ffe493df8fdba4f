package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/report"
	"github.com/KaramelBytes/sosdash/internal/snapshot"
	"github.com/KaramelBytes/sosdash/internal/utils"
	"github.com/spf13/cobra"
)

// Query flags shared by the frequency commands
var (
	qFilter string
	qValue  string
	qYear   int
	asJSON  bool
)

func addQueryFlags(c *cobra.Command) {
	c.Flags().StringVar(&qFilter, "filter", "", "restrict to clients where this column matches --value (e.g. \"Follow Through\")")
	c.Flags().StringVar(&qValue, "value", "", "value for --filter")
	c.Flags().IntVar(&qYear, "year", 0, "only clients with service in this calendar year (0 = all years)")
}

func addJSONFlag(c *cobra.Command) {
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
}

func queryFromFlags() (freq.Query, error) {
	q := freq.Query{Filter: qFilter, Value: qValue, Year: qYear}
	if q.Filter != "" && q.Filter != freq.All {
		if _, err := freq.NewFilter(q.Filter, q.Value); err != nil {
			return q, fmt.Errorf("%w (filterable columns: %s)", err, strings.Join(freq.Filterable(), ", "))
		}
	}
	return q, nil
}

// loadDataset reads and cleans a workbook with the configured options.
func loadDataset(path string) (*pipeline.Dataset, error) {
	opt, err := settings().Options()
	if err != nil {
		return nil, err
	}
	return snapshot.BuildFile(path, opt)
}

// emit prints v as JSON when --json is set, otherwise the rendered tables.
func emit(cmd *cobra.Command, v any, tables ...report.Table) error {
	out := cmd.OutOrStdout()
	if asJSON {
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}
	for _, t := range tables {
		fmt.Fprint(out, report.Render(t))
	}
	return nil
}
