// Package workbook reads xlsx uploads into header-indexed tables.
package workbook

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is an opened spreadsheet.
type Workbook struct {
	Name string
	f    *excelize.File
}

// Open opens an xlsx workbook from disk.
func Open(path string) (*Workbook, error) {
	name := filepath.Base(path)
	if err := checkExt(name); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &IngestionError{File: name, Err: fmt.Errorf("open workbook: %w", err)}
	}
	return &Workbook{Name: name, f: f}, nil
}

// Read opens an xlsx workbook from r. name is used for messages and the
// extension check; an empty name skips the check.
func Read(name string, r io.Reader) (*Workbook, error) {
	if name != "" {
		if err := checkExt(name); err != nil {
			return nil, err
		}
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &IngestionError{File: name, Err: fmt.Errorf("read workbook: %w", err)}
	}
	return &Workbook{Name: name, f: f}, nil
}

func checkExt(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return nil
	}
	return &IngestionError{File: name, Err: fmt.Errorf("unsupported file type %q (expected .xlsx)", filepath.Ext(name))}
}

// Close releases the underlying file.
func (w *Workbook) Close() error { return w.f.Close() }

// Sheets lists sheet names in workbook order.
func (w *Workbook) Sheets() []string { return w.f.GetSheetList() }

// HasSheet reports whether a sheet exists.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.Sheets() {
		if s == name {
			return true
		}
	}
	return false
}

// FirstSheet returns the first candidate sheet present in the workbook.
func (w *Workbook) FirstSheet(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if w.HasSheet(c) {
			return c, true
		}
	}
	return "", false
}

// RequireSheets returns an *IngestionError naming every missing sheet.
func (w *Workbook) RequireSheets(names ...string) error {
	var missing []string
	for _, n := range names {
		if !w.HasSheet(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &IngestionError{File: w.Name, MissingSheets: missing, FoundSheets: w.Sheets()}
}

// Table reads a sheet. The first row is the header; ragged rows are padded
// to the header width. Cell values are raw, so dates arrive as Excel serials.
func (w *Workbook) Table(sheet string) (*Table, error) {
	if !w.HasSheet(sheet) {
		return nil, &IngestionError{File: w.Name, MissingSheets: []string{sheet}, FoundSheets: w.Sheets()}
	}
	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &IngestionError{File: w.Name, Err: fmt.Errorf("read sheet '%s': %w", sheet, err)}
	}
	t := &Table{Sheet: sheet}
	if len(rows) == 0 {
		t.reindex()
		return t, nil
	}
	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = cleanHeader(h)
	}
	for _, r := range rows[1:] {
		if blankRow(r) {
			continue
		}
		row := make([]string, len(t.Header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	t.reindex()
	return t, nil
}

func cleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(s)
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
