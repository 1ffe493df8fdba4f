package snapshot

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/workbook"
)

func clientsSheet() workbook.Sheet {
	return workbook.Sheet{
		Name: pipeline.SheetClients,
		Header: []string{
			pipeline.ColGalaxyID, pipeline.ColAgeAtSignUp, pipeline.ColSchool,
			pipeline.ColZip, pipeline.ColHours,
		},
		Rows: [][]any{
			{1, 16, "Lee High School", 78245, 4},
			{2, "Unknown", "Churchill High School", 78006, 0},
		},
	}
}

func hoursSheet() workbook.Sheet {
	return workbook.Sheet{
		Name:   pipeline.SheetHours,
		Header: []string{"userId", pipeline.ColEventDate, pipeline.ColEventHrs},
		Rows:   [][]any{{1, "2022-03-01", 2}, {1, "2022-04-01", 2}},
	}
}

func xlsx(t *testing.T, sheets ...workbook.Sheet) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := workbook.Write(&buf, sheets...); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return &buf
}

func TestLoadSwapsSnapshot(t *testing.T) {
	s := New(pipeline.DefaultOptions())
	if s.Current() != nil || s.Dataset() != nil || s.Status().Loaded {
		t.Fatal("new store should be empty")
	}
	snap, err := s.Load(context.Background(), "first.xlsx", xlsx(t, clientsSheet(), hoursSheet()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.ID == "" || snap.Name != "first.xlsx" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if got := len(s.Dataset().Clients); got != 2 {
		t.Fatalf("clients = %d, want 2", got)
	}
	st := s.Status()
	if !st.Loaded || st.Loads != 1 || st.Summary == nil || st.Summary.Clients != 2 {
		t.Fatalf("status = %+v", st)
	}

	second, err := s.Load(context.Background(), "second.xlsx", xlsx(t, clientsSheet(), hoursSheet()))
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if second.ID == snap.ID || s.Current() != second {
		t.Fatal("second load did not replace the snapshot")
	}
}

func TestFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	s := New(pipeline.DefaultOptions())
	good, err := s.Load(context.Background(), "good.xlsx", xlsx(t, clientsSheet(), hoursSheet()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = s.Load(context.Background(), "bad.xlsx", xlsx(t, clientsSheet()))
	var ie *workbook.IngestionError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *workbook.IngestionError", err)
	}
	if len(ie.MissingSheets) != 1 || ie.MissingSheets[0] != pipeline.SheetHours {
		t.Fatalf("missing sheets = %v", ie.MissingSheets)
	}
	if s.Current() != good {
		t.Fatal("failed load replaced the snapshot")
	}
	st := s.Status()
	if st.Failures != 1 || st.LastError == "" || st.Loads != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestLoadRejectsGarbageAndCanceledContext(t *testing.T) {
	s := New(pipeline.DefaultOptions())
	if _, err := s.Load(context.Background(), "notes.xlsx", bytes.NewBufferString("not a zip")); err == nil {
		t.Fatal("expected error for corrupt workbook")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Load(ctx, "good.xlsx", xlsx(t, clientsSheet(), hoursSheet())); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if s.Current() != nil {
		t.Fatal("store should still be empty")
	}
}

func TestLoadFileAndBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.xlsx")
	if err := os.WriteFile(path, xlsx(t, clientsSheet(), hoursSheet()).Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := BuildFile(path, pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if len(ds.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(ds.Events))
	}
	s := New(pipeline.DefaultOptions())
	snap, err := s.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if snap.Name != "clients.xlsx" {
		t.Fatalf("name = %s", snap.Name)
	}
	if _, err := BuildFile(filepath.Join(t.TempDir(), "missing.xlsx"), pipeline.DefaultOptions()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
