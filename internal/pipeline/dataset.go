package pipeline

import (
	"sort"

	"github.com/KaramelBytes/sosdash/internal/workbook"
)

// Dataset is the cleaned result of one upload. It is never mutated after Run
// returns, so it can be shared between readers.
type Dataset struct {
	Clients   []Client
	Events    []ServiceEvent
	ClubHours []SchoolHours
	Quarters  []ActivityBucket
	Months    []ActivityBucket
	Survey    *workbook.Table
	Counts    Counts
	Options   Options

	extraCols    []string
	activeByYear map[int]map[int64]struct{}
}

// Empty reports whether the dataset has no clients.
func (d *Dataset) Empty() bool { return d == nil || len(d.Clients) == 0 }

// Columns lists every queryable client column.
func (d *Dataset) Columns() []string {
	out := make([]string, 0, len(knownColumns)+len(d.extraCols))
	out = append(out, knownColumns...)
	return append(out, d.extraCols...)
}

// HasColumn reports whether name is a client column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	if _, ok := fieldGetters[name]; ok {
		return true
	}
	for _, c := range d.extraCols {
		if c == name {
			return true
		}
	}
	return false
}

// Years lists the calendar years with at least one dated event, ascending.
func (d *Dataset) Years() []int {
	if d == nil {
		return nil
	}
	out := make([]int, 0, len(d.activeByYear))
	for y := range d.activeByYear {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// ActiveIn reports whether the client logged an event in year.
func (d *Dataset) ActiveIn(id int64, year int) bool {
	if d == nil {
		return false
	}
	_, ok := d.activeByYear[year][id]
	return ok
}

func activeByYear(events []ServiceEvent) map[int]map[int64]struct{} {
	m := make(map[int]map[int64]struct{})
	for _, e := range events {
		y := e.Year()
		if y == 0 {
			continue
		}
		set := m[y]
		if set == nil {
			set = make(map[int64]struct{})
			m[y] = set
		}
		set[e.GalaxyID] = struct{}{}
	}
	return m
}

// ValueCount is one row of a value-count table.
type ValueCount struct {
	Value Value `json:"value"`
	Count int   `json:"count"`
}

// SurveyCounts counts the answers in one column of the survey sheet, in
// ascending value order. Unknown columns and blanks give nothing.
func (d *Dataset) SurveyCounts(question string) []ValueCount {
	if d == nil || d.Survey == nil || !d.Survey.Has(question) {
		return nil
	}
	counts := map[Value]int{}
	for i := 0; i < d.Survey.Len(); i++ {
		v := inferValue(d.Survey.Value(i, question))
		if v.IsNull() {
			continue
		}
		counts[v]++
	}
	return SortedCounts(counts)
}

// SurveyQuestions lists the survey sheet columns.
func (d *Dataset) SurveyQuestions() []string {
	if d == nil || d.Survey == nil {
		return nil
	}
	return append([]string(nil), d.Survey.Header...)
}

// SortedCounts flattens a count map into ascending value order.
func SortedCounts(counts map[Value]int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return Compare(out[i].Value, out[j].Value) < 0 })
	return out
}
