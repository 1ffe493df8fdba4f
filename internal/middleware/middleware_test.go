package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/sosdash/internal/middleware"
	"golang.org/x/time/rate"
)

// call wraps a 200-OK handler in mw and records one request.
func call(t *testing.T, mw func(http.Handler) http.Handler, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/api/status", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowedOrigin(t *testing.T) {
	mw := middleware.CORS([]string{"https://dash.example.org/", " http://localhost:5173 "})

	rec := call(t, mw, http.MethodGet, "https://dash.example.org")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.org" {
		t.Errorf("expected origin echoed, got %q", got)
	}

	rec = call(t, mw, http.MethodGet, "http://localhost:5173")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected trimmed origin to match, got %q", got)
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	mw := middleware.CORS([]string{"https://dash.example.org"})

	rec := call(t, mw, http.MethodGet, "https://evil.example.com")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	mw := middleware.CORS([]string{"https://dash.example.org"})

	rec := call(t, mw, http.MethodOptions, "https://dash.example.org")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("expected POST in allowed methods, got %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	mw := middleware.RateLimit(rate.NewLimiter(rate.Limit(0.5), 1))

	if rec := call(t, mw, http.MethodPost, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	rec := call(t, mw, http.MethodPost, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("expected Retry-After 2, got %q", got)
	}
}

func TestRateLimit_NilIsUnlimited(t *testing.T) {
	mw := middleware.RateLimit(middleware.UploadLimiter(0))
	for i := 0; i < 5; i++ {
		if rec := call(t, mw, http.MethodPost, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if l := middleware.UploadLimiter(6); l == nil || l.Burst() != 6 {
		t.Errorf("expected limiter with burst 6, got %v", l)
	}
}
