package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/report"
	"github.com/KaramelBytes/sosdash/internal/stats"
	"github.com/spf13/cobra"
)

var (
	popMarkdown bool
	actBy       string
	actChart    string
	evLimit     int
	mapLayer    string
	mapAll      bool
)

var popstatCmd = &cobra.Command{
	Use:   "popstat <file> <column>",
	Short: "Per-group population statistics",
	Long: `Group clients by a column and report counts, age statistics and the sums and
means of hours, follow-through, service range and participation flags.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		if !ds.HasColumn(args[1]) {
			return fmt.Errorf("unknown column %q", args[1])
		}
		tbl := stats.Population(ds, args[1])
		if popMarkdown {
			fmt.Fprint(cmd.OutOrStdout(), tbl.Markdown())
			return nil
		}
		return emit(cmd, tbl.Flat(), report.PopulationTable(tbl))
	},
}

var ciCmd = &cobra.Command{
	Use:   "ci <file>",
	Short: "Confidence intervals of hours per school, club vs no club",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		ci := stats.ClubCI(ds.ClubHours)
		body := struct {
			Alpha     float64                `json:"alpha"`
			ClubHours []pipeline.SchoolHours `json:"club_hours"`
			Interval  stats.ClubInterval     `json:"interval"`
		}{stats.Alpha, ds.ClubHours, ci}
		return emit(cmd, body, report.ClubHoursTable(ds.ClubHours), report.CITable(ci))
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity <file>",
	Short: "Active volunteers per quarter or month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pick func(*pipeline.Dataset) []pipeline.ActivityBucket
		switch strings.ToLower(actBy) {
		case "quarter", "q":
			actBy = "quarter"
			pick = func(d *pipeline.Dataset) []pipeline.ActivityBucket { return d.Quarters }
		case "month", "m":
			actBy = "month"
			pick = func(d *pipeline.Dataset) []pipeline.ActivityBucket { return d.Months }
		default:
			return fmt.Errorf("unsupported --by: %s (use quarter|month)", actBy)
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		buckets := pick(ds)
		if actChart != "" {
			if err := report.ActivityChart(actBy, buckets, actChart); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote chart to %s\n", actChart)
		}
		return emit(cmd, buckets, report.ActivityTable(actBy, buckets))
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events <file>",
	Short: "Service events by location, virtual vs in person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		s := ds.EventSummary()
		return emit(cmd, s, report.EventTable(s, evLimit))
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <file>",
	Short: "Client counts per zip code or county of the service region",
	Long: `Print the client-distribution map layer: every zip code (or county) of the
service region with its median family income and client count.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		switch strings.ToLower(mapLayer) {
		case "zips":
			zips := ds.ZipLayer()
			return emit(cmd, zips, report.ZipLayerTable(zips, !mapAll))
		case "counties":
			counties := ds.CountyLayer()
			return emit(cmd, counties, report.CountyLayerTable(counties))
		}
		return fmt.Errorf("--layer must be zips or counties, got %q", mapLayer)
	},
}

var surveyCmd = &cobra.Command{
	Use:   "survey <file> [question]",
	Short: "List survey questions or count the answers to one",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			qs := ds.SurveyQuestions()
			t := report.Table{Title: "Survey questions", Headers: []string{"Question"}, Note: "workbook has no survey sheet"}
			for _, q := range qs {
				t.Rows = append(t.Rows, []string{q})
			}
			return emit(cmd, qs, t)
		}
		counts := ds.SurveyCounts(args[1])
		t := report.Table{Title: args[1], Headers: []string{"Answer", "Count"}, Note: "no answers for this question"}
		for _, c := range counts {
			t.Rows = append(t.Rows, []string{report.Cell(c.Value), report.Int(c.Count)})
		}
		return emit(cmd, counts, t)
	},
}

func init() {
	rootCmd.AddCommand(popstatCmd, ciCmd, activityCmd, eventsCmd, mapCmd, surveyCmd)
	popstatCmd.Flags().BoolVar(&popMarkdown, "markdown", false, "print a Markdown table")
	activityCmd.Flags().StringVar(&actBy, "by", "quarter", "bucket size: quarter|month")
	activityCmd.Flags().StringVarP(&actChart, "chart", "c", "", "also save a line chart (png, svg or pdf)")
	eventsCmd.Flags().IntVar(&evLimit, "limit", 15, "locations to list (0 = all)")
	mapCmd.Flags().StringVar(&mapLayer, "layer", "zips", "map layer: zips|counties")
	mapCmd.Flags().BoolVar(&mapAll, "all", false, "also list zip codes without clients")
	for _, c := range []*cobra.Command{popstatCmd, ciCmd, activityCmd, eventsCmd, mapCmd, surveyCmd} {
		addJSONFlag(c)
	}
}
