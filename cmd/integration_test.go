package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/workbook"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset bound flag variables that persist across invocations
	asJSON, qFilter, qValue, qYear = false, "", "", 0
	cleanOutput, popMarkdown, actBy, actChart, evLimit = "", false, "quarter", "", 15
	mapLayer, mapAll = "zips", false
	chartOutput = "chart.png"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is execute for commands that must succeed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func writeWorkbook(t *testing.T, dir string, withHours bool) string {
	t.Helper()
	sheets := []workbook.Sheet{{
		Name: pipeline.SheetClients,
		Header: []string{
			pipeline.ColGalaxyID, pipeline.ColAgeAtSignUp, pipeline.ColSchool,
			pipeline.ColZip, pipeline.ColHours, pipeline.ColGender,
		},
		Rows: [][]any{
			{1, 15, "Churchill High School", 78210, 5, "F"},
			{2, 16, "Lee High School", 78210, 0, "M"},
			{3, "Unknown", "Lee High School", 78245, 3, "F"},
			{4, 18, "Johnson High School", 78245, 2, "M"},
			{5, 25, "Lee High School", 78245, 2, "M"},
		},
	}}
	if withHours {
		sheets = append(sheets, workbook.Sheet{
			Name:   pipeline.SheetHours,
			Header: []string{"userId", pipeline.ColEventDate, pipeline.ColEventHrs},
			Rows: [][]any{
				{1, "2022-03-01", 2},
				{1, "2022-07-01", 3},
				{3, "2023-01-15", 3},
				{4, "2023-02-01", 2},
			},
		})
	}
	path := filepath.Join(dir, "export.xlsx")
	if err := workbook.Save(path, sheets...); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func TestCLI_CleanWritesWorkbook(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	in := writeWorkbook(t, home, true)
	out := filepath.Join(home, "out", "cleaned.xlsx")

	text := runCmd(t, "clean", in, "-o", out)
	if !strings.Contains(text, "export.xlsx") || !strings.Contains(text, "Clients kept") || !strings.Contains(text, "Wrote cleaned workbook") {
		t.Fatalf("clean output:\n%s", text)
	}
	wb, err := workbook.Open(out)
	if err != nil {
		t.Fatalf("open cleaned: %v", err)
	}
	defer wb.Close()
	tbl, err := wb.Table(pipeline.SheetClients)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("cleaned clients = %d, want 4 (age 25 dropped)", tbl.Len())
	}

	var sum pipeline.ProcessingSummary
	if err := json.Unmarshal([]byte(runCmd(t, "clean", in, "--json")), &sum); err != nil {
		t.Fatalf("clean --json: %v", err)
	}
	if sum.Clients != 4 || sum.DroppedAge != 1 || sum.AgesFloored != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestCLI_FreqAndCrosstab(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	in := writeWorkbook(t, home, true)

	var tbl struct {
		Total int    `json:"total"`
		Note  string `json:"note"`
	}
	out := runCmd(t, "freq", in, "Gender", "--filter", "Follow Through", "--value", "1", "--json")
	if err := json.Unmarshal([]byte(out), &tbl); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if tbl.Total != 3 {
		t.Fatalf("follow-through freq total = %d, want 3", tbl.Total)
	}

	out = runCmd(t, "freq", in, "Gender", "--year", "2023")
	if !strings.Contains(out, "Frequency of Gender") || !strings.Contains(out, "50.0%") {
		t.Fatalf("2023 freq output:\n%s", out)
	}

	if _, err := execute(t, "freq", in, "Gender", "--filter", "Hours", "--value", "2"); err == nil {
		t.Fatal("expected error for unfilterable column")
	}

	out = runCmd(t, "crosstab", in, "School", "Gender")
	if !strings.Contains(out, "School by Gender") || !strings.Contains(out, "Lee High School") {
		t.Fatalf("crosstab output:\n%s", out)
	}
}

func TestCLI_StatsCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	in := writeWorkbook(t, home, true)

	if out := runCmd(t, "popstat", in, "School", "--markdown"); !strings.Contains(out, "[POPULATION BY SCHOOL]") {
		t.Fatalf("popstat markdown:\n%s", out)
	}
	for _, args := range [][]string{{"popstat", in, "Shoe Size"}, {"popstat", in, "Shoe Size", "--markdown"}} {
		if _, err := execute(t, args...); err == nil {
			t.Fatalf("%v: expected error for unknown popstat column", args)
		}
	}

	out := runCmd(t, "map", in)
	if !strings.Contains(out, "Clients by zip code") || !strings.Contains(out, "78245") || strings.Contains(out, "78201") {
		t.Fatalf("map output:\n%s", out)
	}
	var zips []pipeline.ZipClients
	if err := json.Unmarshal([]byte(runCmd(t, "map", in, "--json")), &zips); err != nil {
		t.Fatalf("map --json: %v", err)
	}
	zeros := 0
	for _, z := range zips {
		if z.Clients == 0 {
			zeros++
		}
	}
	if zeros == 0 || len(zips) < 100 {
		t.Fatalf("map --json: %d zips, %d empty; want zero-filled coverage", len(zips), zeros)
	}
	if out := runCmd(t, "map", in, "--layer", "counties"); !strings.Contains(out, "Kendall") {
		t.Fatalf("county map output:\n%s", out)
	}
	if _, err := execute(t, "map", in, "--layer", "states"); err == nil {
		t.Fatal("expected error for --layer states")
	}

	var ci struct {
		Alpha float64 `json:"alpha"`
	}
	if err := json.Unmarshal([]byte(runCmd(t, "ci", in, "--json")), &ci); err != nil || ci.Alpha != 0.05 {
		t.Fatalf("ci --json alpha = %v, %v", ci.Alpha, err)
	}

	chart := filepath.Join(home, "activity.png")
	out = runCmd(t, "activity", in, "--by", "month", "--chart", chart)
	if !strings.Contains(out, "2022-03") || !strings.Contains(out, "2023-02") {
		t.Fatalf("activity output:\n%s", out)
	}
	if _, err := os.Stat(chart); err != nil {
		t.Fatalf("activity chart not written: %v", err)
	}
	if _, err := execute(t, "activity", in, "--by", "week"); err == nil {
		t.Fatal("expected error for --by week")
	}

	bar := filepath.Join(home, "charts", "gender.png")
	runCmd(t, "chart", in, "Gender", "-o", bar)
	if _, err := os.Stat(bar); err != nil {
		t.Fatalf("bar chart not written: %v", err)
	}

	if out := runCmd(t, "survey", in); !strings.Contains(out, "no survey sheet") {
		t.Fatalf("survey output:\n%s", out)
	}
	runCmd(t, "events", in)
}

func TestCLI_MissingSheetIsReported(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	in := writeWorkbook(t, home, false)

	_, err := execute(t, "clean", in)
	if err == nil || !strings.Contains(err.Error(), pipeline.SheetHours) {
		t.Fatalf("err = %v, want missing %q", err, pipeline.SheetHours)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	runCmd(t, "config", "set", "hourly_value", "33.5")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "hourly_value: 33.50") {
		t.Fatalf("config show:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".sosdash", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, err := execute(t, "config", "set", "colour", "blue"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
