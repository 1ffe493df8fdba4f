package workbook

import "strings"

// Table is a sheet with a header row.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string

	index map[string]int
	lower map[string]int
}

// NewTable builds a table from in-memory rows.
func NewTable(sheet string, header []string, rows [][]string) *Table {
	t := &Table{Sheet: sheet, Header: header, Rows: rows}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	t.lower = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
		k := strings.ToLower(h)
		if _, dup := t.lower[k]; !dup {
			t.lower[k] = i
		}
	}
}

// Col returns the index of a column, matching case-insensitively when no
// exact header exists. It returns -1 when absent.
func (t *Table) Col(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	if i, ok := t.lower[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// Has reports whether the column exists.
func (t *Table) Has(name string) bool { return t.Col(name) >= 0 }

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Value returns the trimmed cell at row for column name, or "" when the
// column is absent.
func (t *Table) Value(row int, name string) string {
	i := t.Col(name)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// Rename changes a header in place. It is a no-op when from is absent or
// to already exists.
func (t *Table) Rename(from, to string) {
	i := t.Col(from)
	if i < 0 || t.Has(to) {
		return
	}
	t.Header[i] = to
	t.reindex()
}

// RequireColumns returns an *IngestionError naming every missing column.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &IngestionError{MissingColumns: map[string][]string{t.Sheet: missing}}
}
