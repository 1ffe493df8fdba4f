package workbook

import (
	"fmt"
	"sort"
	"strings"
)

// IngestionError reports a workbook that cannot be loaded: an unreadable
// file, or required sheets or columns that are missing.
type IngestionError struct {
	File           string
	MissingSheets  []string
	MissingColumns map[string][]string // by sheet
	FoundSheets    []string
	Err            error
}

func (e *IngestionError) Error() string {
	if e == nil {
		return "ingestion failed"
	}
	var parts []string
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(e.MissingSheets) > 0 {
		parts = append(parts, fmt.Sprintf("missing required sheets: %s. Found sheets: %s",
			strings.Join(e.MissingSheets, ", "), strings.Join(e.FoundSheets, ", ")))
	}
	sheets := make([]string, 0, len(e.MissingColumns))
	for s := range e.MissingColumns {
		sheets = append(sheets, s)
	}
	sort.Strings(sheets)
	for _, s := range sheets {
		parts = append(parts, fmt.Sprintf("sheet '%s' is missing columns: %s", s, strings.Join(e.MissingColumns[s], ", ")))
	}
	msg := strings.Join(parts, "; ")
	if e.File != "" {
		return fmt.Sprintf("workbook '%s': %s", e.File, msg)
	}
	return msg
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Merge folds other into e so a single error can list every problem.
func (e *IngestionError) Merge(other *IngestionError) {
	if other == nil {
		return
	}
	e.MissingSheets = append(e.MissingSheets, other.MissingSheets...)
	if len(other.FoundSheets) > 0 && len(e.FoundSheets) == 0 {
		e.FoundSheets = other.FoundSheets
	}
	for s, cols := range other.MissingColumns {
		if e.MissingColumns == nil {
			e.MissingColumns = map[string][]string{}
		}
		e.MissingColumns[s] = append(e.MissingColumns[s], cols...)
	}
	if e.Err == nil {
		e.Err = other.Err
	}
}
