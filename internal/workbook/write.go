package workbook

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KaramelBytes/sosdash/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet is a named block of rows to write.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Write encodes sheets as an xlsx workbook.
func Write(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("new sheet '%s': %w", s.Name, err)
		}
		hdr := make([]any, len(s.Header))
		for j, h := range s.Header {
			hdr[j] = h
		}
		if err := f.SetSheetRow(s.Name, "A1", &hdr); err != nil {
			return fmt.Errorf("write header '%s': %w", s.Name, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			vals := row
			if err := f.SetSheetRow(s.Name, cell, &vals); err != nil {
				return fmt.Errorf("write row %d of '%s': %w", r+2, s.Name, err)
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return nil
}

// Save writes sheets to path atomically.
func Save(path string, sheets ...Sheet) error {
	var buf bytes.Buffer
	if err := Write(&buf, sheets...); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
