package freq

import (
	"sort"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
)

// Query restricts the population a table is computed over.
type Query struct {
	// Filter is a column from Filterable(); "" or All disables filtering.
	Filter string
	// Value is compared against Filter after coercion.
	Value any
	// Year keeps clients with at least one service event in that calendar
	// year. 0 means every year.
	Year int
}

// Reasons a result is empty.
const (
	NoteEmptyDataset   = "no data loaded"
	NoteUnknownColumn  = "unknown column"
	NoteInvalidFilter  = "invalid filter"
	NoteNoMatchingRows = "no data for this selection"
)

// Table is a single-variable frequency table in ascending value order.
type Table struct {
	Variable string                `json:"variable"`
	Rows     []pipeline.ValueCount `json:"rows"`
	Total    int                   `json:"total"`
	Note     string                `json:"note,omitempty"`
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Crosstab counts pairs of values of two variables.
type Crosstab struct {
	Var1   string           `json:"var1"`
	Var2   string           `json:"var2"`
	Rows   []pipeline.Value `json:"rows"`
	Cols   []pipeline.Value `json:"cols"`
	Counts [][]int          `json:"counts"`
	Total  int              `json:"total"`
	Note   string           `json:"note,omitempty"`
}

// Empty reports whether no pair was counted.
func (x *Crosstab) Empty() bool { return x == nil || x.Total == 0 }

// population applies the query and returns the selected clients, or a note
// explaining why the selection is empty.
func population(ds *pipeline.Dataset, q Query, vars ...string) ([]*pipeline.Client, string) {
	if ds.Empty() {
		return nil, NoteEmptyDataset
	}
	for _, v := range vars {
		if !ds.HasColumn(v) {
			return nil, NoteUnknownColumn
		}
	}
	var filter *Filter
	if q.Filter != "" && q.Filter != All {
		f, err := NewFilter(q.Filter, q.Value)
		if err != nil {
			return nil, NoteInvalidFilter
		}
		filter = f
	}
	var out []*pipeline.Client
	for i := range ds.Clients {
		c := &ds.Clients[i]
		if q.Year != 0 && !ds.ActiveIn(c.GalaxyID, q.Year) {
			continue
		}
		if !filter.Match(c) {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, NoteNoMatchingRows
	}
	return out, ""
}

// Single counts the values of variable over the selected population. Nulls
// are not counted. Problems with the query give an empty table with a Note
// rather than an error.
func Single(ds *pipeline.Dataset, variable string, q Query) *Table {
	t := &Table{Variable: variable}
	clients, note := population(ds, q, variable)
	if note != "" {
		t.Note = note
		return t
	}
	counts := map[pipeline.Value]int{}
	for _, c := range clients {
		v, _ := c.Field(variable)
		if v.IsNull() {
			continue
		}
		counts[v]++
		t.Total++
	}
	t.Rows = pipeline.SortedCounts(counts)
	if len(t.Rows) == 0 {
		t.Note = NoteNoMatchingRows
	}
	return t
}

// Multi cross-tabulates var1 (rows) against var2 (columns). Clients missing
// either value are skipped.
func Multi(ds *pipeline.Dataset, var1, var2 string, q Query) *Crosstab {
	x := &Crosstab{Var1: var1, Var2: var2}
	clients, note := population(ds, q, var1, var2)
	if note != "" {
		x.Note = note
		return x
	}
	type pair struct{ a, b pipeline.Value }
	cells := map[pair]int{}
	rows := map[pipeline.Value]struct{}{}
	cols := map[pipeline.Value]struct{}{}
	for _, c := range clients {
		a, _ := c.Field(var1)
		b, _ := c.Field(var2)
		if a.IsNull() || b.IsNull() {
			continue
		}
		cells[pair{a, b}]++
		rows[a] = struct{}{}
		cols[b] = struct{}{}
		x.Total++
	}
	if x.Total == 0 {
		x.Note = NoteNoMatchingRows
		return x
	}
	x.Rows = sortedKeys(rows)
	x.Cols = sortedKeys(cols)
	x.Counts = make([][]int, len(x.Rows))
	for i, a := range x.Rows {
		x.Counts[i] = make([]int, len(x.Cols))
		for j, b := range x.Cols {
			x.Counts[i][j] = cells[pair{a, b}]
		}
	}
	return x
}

func sortedKeys(m map[pipeline.Value]struct{}) []pipeline.Value {
	out := make([]pipeline.Value, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return pipeline.Compare(out[i], out[j]) < 0 })
	return out
}

// FilterValues lists the distinct non-null values of a filter column, for
// building selection lists.
func FilterValues(ds *pipeline.Dataset, column string) []pipeline.Value {
	if ds.Empty() || ClassOf(column) == Unfilterable {
		return nil
	}
	seen := map[pipeline.Value]struct{}{}
	for i := range ds.Clients {
		v, _ := ds.Clients[i].Field(column)
		if !v.IsNull() {
			seen[v] = struct{}{}
		}
	}
	return sortedKeys(seen)
}
