// Package snapshot holds the most recent successfully processed upload and
// swaps it atomically when a new workbook loads cleanly.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/workbook"
	"github.com/google/uuid"
)

// Snapshot is one processed upload. Its Dataset is read-only.
type Snapshot struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	LoadedAt time.Time         `json:"loaded_at"`
	Dataset  *pipeline.Dataset `json:"-"`
}

// Status is a point-in-time view of the store.
type Status struct {
	Loaded    bool                        `json:"loaded"`
	Snapshot  *Snapshot                   `json:"snapshot,omitempty"`
	Loads     int64                       `json:"loads"`
	Failures  int64                       `json:"failures"`
	LastError string                      `json:"last_error,omitempty"`
	Summary   *pipeline.ProcessingSummary `json:"summary,omitempty"`
}

// Store keeps the current snapshot. A failed load leaves it untouched.
type Store struct {
	opt pipeline.Options

	mu        sync.RWMutex
	cur       *Snapshot
	loads     int64
	failures  int64
	lastError string
}

// New returns an empty store that cleans uploads with opt.
func New(opt pipeline.Options) *Store {
	return &Store{opt: opt}
}

// Build reads, validates and cleans a workbook without touching any store.
func Build(name string, r io.Reader, opt pipeline.Options) (*pipeline.Dataset, error) {
	wb, err := workbook.Read(name, r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	raw, err := pipeline.Extract(wb)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(raw, opt)
}

// BuildFile is Build for a file on disk.
func BuildFile(path string, opt pipeline.Options) (*pipeline.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return Build(filepath.Base(path), f, opt)
}

// Load processes an upload and, if it succeeds and ctx is still live,
// replaces the current snapshot. Validation errors are returned unchanged so
// callers can inspect a *workbook.IngestionError.
func (s *Store) Load(ctx context.Context, name string, r io.Reader) (*Snapshot, error) {
	ds, err := Build(name, r, s.opt)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		s.failures++
		s.lastError = err.Error()
		s.mu.Unlock()
		log.Printf("[snapshot] rejected %s: %v", name, err)
		return nil, err
	}
	snap := &Snapshot{ID: uuid.NewString(), Name: name, LoadedAt: time.Now().UTC(), Dataset: ds}

	s.mu.Lock()
	s.cur = snap
	s.loads++
	s.lastError = ""
	s.mu.Unlock()
	log.Printf("[snapshot] loaded %s as %s: %d clients, %d events", name, snap.ID, len(ds.Clients), len(ds.Events))
	return snap, nil
}

// LoadFile is Load for a file on disk.
func (s *Store) LoadFile(ctx context.Context, path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return s.Load(ctx, filepath.Base(path), f)
}

// Current returns the active snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Dataset returns the active dataset, or nil before the first load.
func (s *Store) Dataset() *pipeline.Dataset {
	if snap := s.Current(); snap != nil {
		return snap.Dataset
	}
	return nil
}

// Status reports what is loaded and how loads have gone.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Loaded:    s.cur != nil,
		Snapshot:  s.cur,
		Loads:     s.loads,
		Failures:  s.failures,
		LastError: s.lastError,
	}
	if s.cur != nil {
		sum := s.cur.Dataset.Summary()
		st.Summary = &sum
	}
	return st
}
