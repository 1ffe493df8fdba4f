package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/snapshot"
	"github.com/KaramelBytes/sosdash/internal/stats"
	"github.com/KaramelBytes/sosdash/internal/workbook"
)

// uploadError is the body of a rejected upload.
type uploadError struct {
	Error          string              `json:"error"`
	MissingSheets  []string            `json:"missing_sheets,omitempty"`
	MissingColumns map[string][]string `json:"missing_columns,omitempty"`
	FoundSheets    []string            `json:"found_sheets,omitempty"`
}

type uploadResult struct {
	Snapshot *snapshot.Snapshot          `json:"snapshot"`
	Summary  pipeline.ProcessingSummary `json:"summary"`
}

// dataset never returns nil so handlers answer with empty payloads before
// the first upload.
func (s *Server) dataset() *pipeline.Dataset {
	if ds := s.store.Dataset(); ds != nil {
		return ds
	}
	return &pipeline.Dataset{}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Status())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "too large") {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart form with a 'file' field")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	snap, err := s.store.Load(r.Context(), hdr.Filename, file)
	if err != nil {
		var ie *workbook.IngestionError
		if errors.As(err, &ie) {
			writeJSONStatus(w, http.StatusUnprocessableEntity, uploadError{
				Error:          ie.Error(),
				MissingSheets:  ie.MissingSheets,
				MissingColumns: ie.MissingColumns,
				FoundSheets:    ie.FoundSheets,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, uploadResult{Snapshot: snap, Summary: snap.Dataset.Summary()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.dataset().Summary())
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	ds := s.dataset()
	body := struct {
		Columns    []string `json:"columns"`
		Filterable []string `json:"filterable"`
		Years      []int    `json:"years"`
	}{Columns: []string{}, Filterable: freq.Filterable(), Years: ds.Years()}
	if !ds.Empty() {
		body.Columns = ds.Columns()
	}
	writeJSON(w, body)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	column := r.URL.Query().Get("column")
	if column == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'column' is required")
		return
	}
	if freq.ClassOf(column) == freq.Unfilterable {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("column %q cannot be used as a filter", column))
		return
	}
	values := freq.FilterValues(s.dataset(), column)
	if values == nil {
		values = []pipeline.Value{}
	}
	writeJSON(w, map[string]any{"column": column, "values": values})
}

// parseQuery reads the filter/value/year parameters shared by the
// frequency endpoints.
func parseQuery(r *http.Request) (freq.Query, error) {
	v := r.URL.Query()
	q := freq.Query{Filter: v.Get("filter"), Value: v.Get("value")}
	if y := v.Get("year"); y != "" && !strings.EqualFold(y, freq.All) {
		n, err := strconv.Atoi(y)
		if err != nil {
			return q, fmt.Errorf("invalid year %q", y)
		}
		q.Year = n
	}
	return q, nil
}

func (s *Server) handleFreq(w http.ResponseWriter, r *http.Request) {
	variable := r.URL.Query().Get("var")
	if variable == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'var' is required")
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, freq.Single(s.dataset(), variable, q))
}

func (s *Server) handleCrosstab(w http.ResponseWriter, r *http.Request) {
	v1, v2 := r.URL.Query().Get("var1"), r.URL.Query().Get("var2")
	if v1 == "" || v2 == "" {
		writeError(w, http.StatusBadRequest, "query parameters 'var1' and 'var2' are required")
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, freq.Multi(s.dataset(), v1, v2, q))
}

func (s *Server) handlePopStat(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'by' is required")
		return
	}
	tbl := stats.Population(s.dataset(), by)
	if r.URL.Query().Get("flat") == "1" {
		writeJSON(w, tbl.Flat())
		return
	}
	writeJSON(w, tbl)
}

func (s *Server) handleCI(w http.ResponseWriter, r *http.Request) {
	ds := s.dataset()
	clubHours := ds.ClubHours
	if clubHours == nil {
		clubHours = []pipeline.SchoolHours{}
	}
	writeJSON(w, map[string]any{
		"alpha":      stats.Alpha,
		"club_hours": clubHours,
		"interval":   stats.ClubCI(clubHours),
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	ds := s.dataset()
	by := strings.ToLower(r.URL.Query().Get("by"))
	var buckets []pipeline.ActivityBucket
	switch by {
	case "", "quarter":
		by, buckets = "quarter", ds.Quarters
	case "month":
		buckets = ds.Months
	default:
		writeError(w, http.StatusBadRequest, "'by' must be quarter or month")
		return
	}
	if buckets == nil {
		buckets = []pipeline.ActivityBucket{}
	}
	writeJSON(w, map[string]any{"by": by, "buckets": buckets})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.dataset().EventSummary())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	ds := s.dataset()
	switch layer := strings.ToLower(r.URL.Query().Get("layer")); layer {
	case "", "zips":
		writeJSON(w, map[string]any{"layer": "zips", "areas": ds.ZipLayer()})
	case "counties":
		writeJSON(w, map[string]any{"layer": "counties", "areas": ds.CountyLayer()})
	default:
		writeError(w, http.StatusBadRequest, "'layer' must be zips or counties")
	}
}

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	ds := s.dataset()
	question := r.URL.Query().Get("question")
	if question == "" {
		qs := ds.SurveyQuestions()
		if qs == nil {
			qs = []string{}
		}
		writeJSON(w, map[string]any{"questions": qs})
		return
	}
	counts := ds.SurveyCounts(question)
	if counts == nil {
		counts = []pipeline.ValueCount{}
	}
	writeJSON(w, map[string]any{"question": question, "counts": counts})
}
