package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/workbook"
)

const tol = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func TestTCritical(t *testing.T) {
	cases := map[int]float64{1: 12.706204736174705, 2: 4.302652729911275, 10: 2.2281388519649385}
	for df, want := range cases {
		if got := TCritical(df); !near(got, want) {
			t.Fatalf("TCritical(%d) = %v, want %v", df, got, want)
		}
	}
}

func TestConfidenceIntervalDegenerate(t *testing.T) {
	if got := ConfidenceInterval(nil); got != (Interval{}) {
		t.Fatalf("empty = %+v, want zeros", got)
	}
	got := ConfidenceInterval([]float64{7.5})
	if got.Lower != 7.5 || got.Upper != 7.5 || got.N != 1 {
		t.Fatalf("single = %+v, want (7.5, 7.5)", got)
	}
	// identical values have zero spread
	same := ConfidenceInterval([]float64{4, 4, 4})
	if same.Lower != 4 || same.Upper != 4 {
		t.Fatalf("constant sample = %+v", same)
	}
}

func TestClubCI(t *testing.T) {
	summary := []pipeline.SchoolHours{
		{School: "Brackenridge High School", Hours: 10, Club: 1},
		{School: "Churchill High School", Hours: 12, Club: 1},
		{School: "Johnson High School", Hours: 14, Club: 1},
		{School: "Lee High School", Hours: 2},
		{School: "Reagan High School", Hours: 3},
	}
	ci := ClubCI(summary)
	if ci.Club.N != 3 || !near(ci.Club.Mean, 12) {
		t.Fatalf("club = %+v", ci.Club)
	}
	if !near(ci.Club.Lower, 7.031724576312494) || !near(ci.Club.Upper, 16.968275423687505) {
		t.Fatalf("club bounds = (%v, %v)", ci.Club.Lower, ci.Club.Upper)
	}
	if ci.NoClub.N != 2 || !near(ci.NoClub.Mean, 2.5) {
		t.Fatalf("no club = %+v", ci.NoClub)
	}
	if !near(ci.NoClub.Lower, -3.8531023680873524) || !near(ci.NoClub.Upper, 8.853102368087352) {
		t.Fatalf("no club bounds = (%v, %v)", ci.NoClub.Lower, ci.NoClub.Upper)
	}

	onlyClub := ClubCI(summary[:1])
	if onlyClub.Club.Lower != 10 || onlyClub.Club.Upper != 10 {
		t.Fatalf("single club school = %+v", onlyClub.Club)
	}
	if onlyClub.NoClub != (Interval{}) {
		t.Fatalf("empty no-club side = %+v", onlyClub.NoClub)
	}
}

func testDataset(t *testing.T) *pipeline.Dataset {
	t.Helper()
	header := []string{
		pipeline.ColGalaxyID, pipeline.ColAgeAtSignUp, pipeline.ColSchool, pipeline.ColZip,
		pipeline.ColHours, pipeline.ColGender, pipeline.ColTripEligible, pipeline.ColResponses,
	}
	clients := [][]string{
		{"1", "15", "Lee High School", "78245", "4", "F", "Yes", "2"},
		{"2", "16", "Lee High School", "78245", "0", "F", "No", ""},
		{"3", "17", "Lee High School", "78006", "", "M", "", "1"},
		{"4", "18", "Churchill High School", "78006", "6", "M", "Yes", ""},
		{"5", "18", "Churchill High School", "", "2", "", "No", ""},
		{"6", "19", "Johnson High School", "", "1", "F", "", ""},
	}
	hours := [][]string{
		{"1", "2022-01-01", "2"},
		{"1", "2022-01-11", "2"},
		{"4", "2022-02-01", "3"},
		{"4", "2022-02-06", "3"},
	}
	raw := &pipeline.RawData{
		Clients: workbook.NewTable(pipeline.SheetClients, header, clients),
		Hours:   workbook.NewTable(pipeline.SheetHours, []string{pipeline.ColGalaxyID, pipeline.ColEventDate, pipeline.ColEventHrs}, hours),
	}
	ds, err := pipeline.Run(raw, pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return ds
}

func value(t *testing.T, tbl *PopulationTable, row int, name string) pipeline.Value {
	t.Helper()
	for i, s := range tbl.Stats {
		if s.Name() == name {
			return tbl.Rows[row].Values[i]
		}
	}
	t.Fatalf("stat %s not in table", name)
	return pipeline.Null
}

func TestPopulationBySchool(t *testing.T) {
	tbl := Population(testDataset(t), pipeline.ColSchool)
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}
	for i := 1; i < len(tbl.Rows); i++ {
		if tbl.Rows[i-1].Count < tbl.Rows[i].Count {
			t.Fatalf("rows not sorted by count: %d before %d", tbl.Rows[i-1].Count, tbl.Rows[i].Count)
		}
	}
	if g := tbl.Rows[0].Group.String(); g != "Lee High School" {
		t.Fatalf("largest group = %s", g)
	}
	checks := map[string]float64{
		"Galaxy ID_count":             3,
		"Age at Sign Up_mean":         16,
		"Age at Sign Up_median":       16,
		"Age at Sign Up_min":          15,
		"Age at Sign Up_max":          17,
		"Hours_sum":                   4,
		"Hours_mean":                  2,
		"Follow Through_sum":          1,
		"Follow Through_mean":         0.33,
		"Trip Eligible (Yes/No)_sum":  1,
		"Trip Eligible (Yes/No)_mean": 0.5,
		"Responses_sum":               3,
		"Responses_mean":              1.5,
		"Service Range_mean":          10,
		"Service Count_sum":           2,
	}
	for name, want := range checks {
		got, ok := value(t, tbl, 0, name).Float()
		if !ok || !near(got, want) {
			t.Fatalf("%s = %v, want %v", name, value(t, tbl, 0, name), want)
		}
	}
	// no survey answers in this group
	if v := value(t, tbl, 0, "Explore Participation_mean"); !v.IsNull() {
		t.Fatalf("all-null mean = %v, want null", v)
	}
	if v, _ := value(t, tbl, 0, "Explore Participation_sum").Float(); v != 0 {
		t.Fatalf("all-null sum = %v, want 0", v)
	}
	// remaining groups in descending size
	if tbl.Rows[1].Group.String() != "Churchill High School" || tbl.Rows[2].Group.String() != "Johnson High School" {
		t.Fatalf("order = %v, %v", tbl.Rows[1].Group, tbl.Rows[2].Group)
	}
}

func TestPopulationByAgeOmitsAgeStats(t *testing.T) {
	tbl := Population(testDataset(t), pipeline.ColAgeAtSignUp)
	for _, s := range tbl.Stats {
		if s.Column == pipeline.ColAgeAtSignUp {
			t.Fatalf("age stat %s present when grouping by age", s.Name())
		}
	}
	if tbl.Rows[0].Group.String() != "18" || tbl.Rows[0].Count != 2 {
		t.Fatalf("first row = %+v", tbl.Rows[0])
	}
}

func TestPopulationEmptyCases(t *testing.T) {
	if tbl := Population(testDataset(t), "No Such Column"); !tbl.Empty() {
		t.Fatalf("unknown column should give empty table, got %d rows", len(tbl.Rows))
	}
	if tbl := Population(&pipeline.Dataset{}, pipeline.ColSchool); !tbl.Empty() {
		t.Fatal("empty dataset should give empty table")
	}
	if tbl := Population(nil, pipeline.ColSchool); !tbl.Empty() {
		t.Fatal("nil dataset should give empty table")
	}
}

func TestPopulationNullGroupsDropped(t *testing.T) {
	tbl := Population(testDataset(t), pipeline.ColGender)
	total := 0
	for _, r := range tbl.Rows {
		total += r.Count
	}
	if total != 5 {
		t.Fatalf("grouped clients = %d, want 5 (blank gender dropped)", total)
	}
}

func TestFlatAndMarkdown(t *testing.T) {
	tbl := Population(testDataset(t), pipeline.ColCounty)
	ft := tbl.Flat()
	if ft.Columns[0] != pipeline.ColCounty || ft.Columns[1] != "Galaxy ID_count" {
		t.Fatalf("flat columns = %v", ft.Columns[:2])
	}
	if len(ft.Rows) != 2 || len(ft.Rows[0]) != len(ft.Columns) {
		t.Fatalf("flat shape = %d x %d", len(ft.Rows), len(ft.Rows[0]))
	}
	md := tbl.Markdown()
	if !strings.Contains(md, "[POPULATION BY COUNTY]") || !strings.Contains(md, "| Bexar |") {
		t.Fatalf("markdown = %s", md)
	}
	if md := Population(nil, "County").Markdown(); !strings.Contains(md, "No data") {
		t.Fatalf("empty markdown = %s", md)
	}
}
