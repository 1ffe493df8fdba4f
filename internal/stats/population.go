package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Agg is an aggregation applied to one column of a group.
type Agg string

const (
	Count  Agg = "count"
	Mean   Agg = "mean"
	Median Agg = "median"
	Min    Agg = "min"
	Max    Agg = "max"
	Sum    Agg = "sum"
)

// Stat names one output column: an aggregation of a client column.
type Stat struct {
	Column string `json:"column"`
	Agg    Agg    `json:"agg"`
}

// Name is the flat, single-level column name.
func (s Stat) Name() string { return s.Column + "_" + string(s.Agg) }

var ageStats = []Stat{
	{pipeline.ColAgeAtSignUp, Mean}, {pipeline.ColAgeAtSignUp, Median},
	{pipeline.ColAgeAtSignUp, Min}, {pipeline.ColAgeAtSignUp, Max},
}

var bundle = []Stat{
	{pipeline.ColServiceRange, Mean},
	{pipeline.ColHours, Sum}, {pipeline.ColHours, Mean},
	{pipeline.ColFollowThrough, Sum}, {pipeline.ColFollowThrough, Mean},
	{pipeline.ColTripEligible, Sum}, {pipeline.ColTripEligible, Mean},
	{pipeline.ColServiceCount, Mean}, {pipeline.ColServiceCount, Sum},
	{pipeline.ColResponses, Mean}, {pipeline.ColResponses, Sum},
	{pipeline.ColMakeItHappen, Sum}, {pipeline.ColMakeItHappen, Mean},
	{pipeline.ColScholarship, Sum}, {pipeline.ColScholarship, Mean},
	{pipeline.ColExplore, Sum}, {pipeline.ColExplore, Mean},
	{pipeline.ColLearn, Sum}, {pipeline.ColLearn, Mean},
}

// StatsFor returns the statistic bundle used when grouping by column. Age
// statistics are left out when grouping by age itself.
func StatsFor(column string) []Stat {
	out := []Stat{{pipeline.ColGalaxyID, Count}}
	if column != pipeline.ColAgeAtSignUp {
		out = append(out, ageStats...)
	}
	return append(out, bundle...)
}

// PopulationRow holds one group's statistics, aligned with
// PopulationTable.Stats. Missing results are null.
type PopulationRow struct {
	Group  pipeline.Value   `json:"group"`
	Count  int              `json:"count"`
	Values []pipeline.Value `json:"values"`
}

// PopulationTable is the per-group statistic bundle for one grouping column.
type PopulationTable struct {
	GroupBy string          `json:"group_by"`
	Stats   []Stat          `json:"stats"`
	Rows    []PopulationRow `json:"rows"`
}

// Empty reports whether there are no groups.
func (t *PopulationTable) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Population groups clients by column and computes StatsFor(column) for
// each group, rounded to two decimals. Rows are sorted by count descending,
// then by group value. Null group values are dropped. An unknown column or
// an empty dataset gives an empty table.
func Population(ds *pipeline.Dataset, column string) *PopulationTable {
	t := &PopulationTable{GroupBy: column, Stats: StatsFor(column)}
	if ds.Empty() || !ds.HasColumn(column) {
		return t
	}
	groups := map[pipeline.Value][]*pipeline.Client{}
	for i := range ds.Clients {
		c := &ds.Clients[i]
		g, _ := c.Field(column)
		if g.IsNull() {
			continue
		}
		groups[g] = append(groups[g], c)
	}
	for g, members := range groups {
		row := PopulationRow{Group: g, Count: len(members), Values: make([]pipeline.Value, len(t.Stats))}
		for i, s := range t.Stats {
			row.Values[i] = aggregate(members, s)
		}
		t.Rows = append(t.Rows, row)
	}
	sort.Slice(t.Rows, func(i, j int) bool {
		if t.Rows[i].Count != t.Rows[j].Count {
			return t.Rows[i].Count > t.Rows[j].Count
		}
		return pipeline.Compare(t.Rows[i].Group, t.Rows[j].Group) < 0
	})
	return t
}

func aggregate(members []*pipeline.Client, s Stat) pipeline.Value {
	if s.Agg == Count {
		return pipeline.IntValue(int64(len(members)))
	}
	xs := make([]float64, 0, len(members))
	for _, c := range members {
		v, _ := c.Field(s.Column)
		if f, ok := v.Float(); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		if s.Agg == Sum {
			return pipeline.FloatValue(0)
		}
		return pipeline.Null
	}
	var r float64
	switch s.Agg {
	case Sum:
		r = floats.Sum(xs)
	case Mean:
		r = stat.Mean(xs, nil)
	case Median:
		sort.Float64s(xs)
		r = quantile(xs, 0.5)
	case Min:
		r = floats.Min(xs)
	case Max:
		r = floats.Max(xs)
	}
	if s.Column == pipeline.ColServiceRange {
		// whole days, like the range itself
		r = math.Floor(r)
	}
	return pipeline.FloatValue(round2(r))
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// FlatTable is the numeric-only projection with single-level column names.
type FlatTable struct {
	Columns []string           `json:"columns"`
	Rows    [][]pipeline.Value `json:"rows"`
}

// Flat projects the table to single-level "Column_agg" names, with the
// grouping column first.
func (t *PopulationTable) Flat() *FlatTable {
	ft := &FlatTable{Columns: []string{t.GroupBy}}
	for _, s := range t.Stats {
		ft.Columns = append(ft.Columns, s.Name())
	}
	for _, r := range t.Rows {
		row := make([]pipeline.Value, 0, len(ft.Columns))
		row = append(row, r.Group)
		row = append(row, r.Values...)
		ft.Rows = append(ft.Rows, row)
	}
	return ft
}

// Markdown renders the table for reports and terminals without styling.
func (t *PopulationTable) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[POPULATION BY %s]\n", strings.ToUpper(t.GroupBy)))
	if t.Empty() {
		b.WriteString("No data for this selection.\n")
		return b.String()
	}
	ft := t.Flat()
	b.WriteString("| " + strings.Join(ft.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(ft.Columns)) + "\n")
	for _, row := range ft.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strings.ReplaceAll(v.String(), "|", "/")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}
