package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/stats"
)

func sampleFreq() *freq.Table {
	return &freq.Table{
		Variable: "Gender",
		Rows: []pipeline.ValueCount{
			{Value: pipeline.StringValue("F"), Count: 3},
			{Value: pipeline.StringValue("M"), Count: 1},
		},
		Total: 4,
	}
}

func TestFormatting(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{Int(1234567), "1,234,567"},
		{Float(1234.5), "1,234.50"},
		{Money(31), "$31.00"},
		{Percent(62.56), "62.6%"},
		{Cell(pipeline.Null), "-"},
		{Cell(pipeline.FloatValue(12000)), "12,000"},
		{Cell(pipeline.FloatValue(0.33)), "0.33"},
		{Cell(pipeline.IntValue(78245)), "78245"},
		{Cell(pipeline.StringValue("60 - 69")), "60 - 69"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestRenderFreqTable(t *testing.T) {
	out := Render(FreqTable(sampleFreq()))
	for _, want := range []string{"Frequency of Gender", "F", "75.0%", "Total", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptyShowsNote(t *testing.T) {
	out := Render(FreqTable(&freq.Table{Variable: "Gender", Note: freq.NoteNoMatchingRows}))
	if !strings.Contains(out, freq.NoteNoMatchingRows) {
		t.Fatalf("empty render = %q", out)
	}
	if out := Render(Table{Title: "x"}); !strings.Contains(out, "no data") {
		t.Fatalf("default note missing: %q", out)
	}
}

func TestCrosstabAndCITables(t *testing.T) {
	x := &freq.Crosstab{
		Var1:   "Gender",
		Var2:   "Club",
		Rows:   []pipeline.Value{pipeline.StringValue("F"), pipeline.StringValue("M")},
		Cols:   []pipeline.Value{pipeline.IntValue(0), pipeline.IntValue(1)},
		Counts: [][]int{{1, 2}, {1, 0}},
		Total:  4,
	}
	tbl := CrosstabTable(x)
	if len(tbl.Headers) != 4 || tbl.Rows[0][3] != "3" || tbl.Rows[1][3] != "1" {
		t.Fatalf("crosstab layout = %+v", tbl)
	}

	ci := CITable(stats.ClubInterval{Club: stats.Interval{N: 3, Mean: 12, Lower: 7.03, Upper: 16.97}})
	if !strings.HasPrefix(ci.Title, "95%") || ci.Rows[0][3] != "7.03" {
		t.Fatalf("ci layout = %+v", ci)
	}
}

func TestSummaryAndEventTables(t *testing.T) {
	s := pipeline.ProcessingSummary{Clients: 1200, TotalHours: 3000, VolunteerValue: 93000}
	out := Render(SummaryTable(s))
	if !strings.Contains(out, "1,200") || !strings.Contains(out, "$93,000.00") {
		t.Fatalf("summary render:\n%s", out)
	}
	ev := pipeline.EventSummary{
		TotalEvents: 3,
		ByZip: []pipeline.ZipActivity{
			{Zip: 78245, County: "Bexar", Events: 2, Hours: 4},
			{Zip: 99999, Events: 1, Hours: 1},
		},
	}
	tbl := EventTable(ev, 1)
	if len(tbl.Rows) != 1 || tbl.Rows[0][0] != "78245" {
		t.Fatalf("event rows = %v", tbl.Rows)
	}
	if tbl := EventTable(ev, 0); tbl.Rows[1][1] != "-" {
		t.Fatalf("missing county = %q", tbl.Rows[1][1])
	}
}

func TestMapLayerTables(t *testing.T) {
	zips := []pipeline.ZipClients{
		{Zip: 78210, County: "Bexar", Income: 51990, Clients: 2},
		{Zip: 78201, County: "Bexar", Income: 46129},
	}
	if tbl := ZipLayerTable(zips, true); len(tbl.Rows) != 1 || tbl.Rows[0][2] != "$51,990" || !strings.Contains(tbl.Note, "1 of 2") {
		t.Fatalf("occupied zips = %+v", tbl)
	}
	if tbl := ZipLayerTable(zips, false); len(tbl.Rows) != 2 || tbl.Rows[1][3] != "0" {
		t.Fatalf("all zips = %+v", tbl)
	}
	tbl := CountyLayerTable([]pipeline.CountyClients{{County: "Kendall", Income: 110498, Clients: 4}})
	if out := Render(tbl); !strings.Contains(out, "Kendall") || !strings.Contains(out, "110,498") {
		t.Fatalf("county render:\n%s", out)
	}
	if out := Title("export.xlsx"); !strings.Contains(out, "export.xlsx") {
		t.Fatalf("Title = %q", out)
	}
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	bar := filepath.Join(dir, "freq.png")
	if err := FreqChart(sampleFreq(), bar); err != nil {
		t.Fatalf("FreqChart: %v", err)
	}
	line := filepath.Join(dir, "activity.svg")
	buckets := []pipeline.ActivityBucket{{Period: "2022-Q1", Volunteers: 4}, {Period: "2022-Q2", Volunteers: 7}}
	if err := ActivityChart("quarter", buckets, line); err != nil {
		t.Fatalf("ActivityChart: %v", err)
	}
	for _, p := range []string{bar, line} {
		info, err := os.Stat(p)
		if err != nil || info.Size() == 0 {
			t.Fatalf("%s not written: %v", p, err)
		}
	}

	if err := FreqChart(&freq.Table{}, bar); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("empty freq chart err = %v", err)
	}
	if err := ActivityChart("month", nil, line); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("empty activity chart err = %v", err)
	}
}
