// Package middleware holds the HTTP middleware shared by the API routes.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

// CORS echoes the request origin back only when it is on the allow-list.
// Preflight requests are answered directly.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
			w.Header().Set("Access-Control-Expose-Headers", "Retry-After")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects requests beyond the limiter's budget with 429.
// A nil limiter disables the check.
func RateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				retry := 1
				if lim := float64(l.Limit()); lim > 0 {
					retry = int(math.Ceil(1 / lim))
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, "Too many uploads, try again shortly", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UploadLimiter allows perMinute uploads per minute with a matching burst.
// perMinute <= 0 returns nil, which RateLimit treats as unlimited.
func UploadLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
}
