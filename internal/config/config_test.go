package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AgeFloor != 15 || c.MaxAge != 20 || c.EnrollmentCutoff != "2020-01-01" {
		t.Fatalf("cleaning defaults = %+v", c)
	}
	if c.HourlyValue != 31 || c.Addr != "127.0.0.1:8080" || c.MaxUploadMB != 25 {
		t.Fatalf("server defaults = %+v", c)
	}
	if len(c.ClubSchools) != len(pipeline.DefaultClubSchools) {
		t.Fatalf("club schools = %d, want %d", len(c.ClubSchools), len(pipeline.DefaultClubSchools))
	}
	opt, err := c.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opt.EnrollmentCutoff.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("cutoff = %v", opt.EnrollmentCutoff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "age_floor: 14\nhourly_value: 29.95\nallowed_origins:\n  - https://dash.example.org\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOSDASH_MAX_AGE", "19")
	t.Setenv("SOSDASH_ADDR", ":9090")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AgeFloor != 14 || c.HourlyValue != 29.95 {
		t.Fatalf("file values = %+v", c)
	}
	if c.MaxAge != 19 || c.Addr != ":9090" {
		t.Fatalf("env values = %+v", c)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "https://dash.example.org" {
		t.Fatalf("origins = %v", c.AllowedOrigins)
	}
	if sc := c.Server(); sc.Addr != ":9090" || sc.AllowedOrigins[0] != "https://dash.example.org" {
		t.Fatalf("server config = %+v", sc)
	}
}

func TestLoadRejectsBadCutoff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("enrollment_cutoff: 01/01/2020\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "enrollment_cutoff") {
		t.Fatalf("err = %v, want enrollment_cutoff error", err)
	}
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sets := map[string]string{
		"age_floor":          "14",
		"enrollment_cutoff":  "2021-08-01",
		"club_schools":       "Lee High School, Churchill High School",
		"hourly_value":       "33.5",
		"uploads_per_minute": "0",
		"allowed_origins":    "https://a.example.org,https://b.example.org",
	}
	for k, v := range sets {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	path, _ := DefaultPath()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	got, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.AgeFloor != 14 || got.EnrollmentCutoff != "2021-08-01" || got.HourlyValue != 33.5 {
		t.Fatalf("reloaded = %+v", got)
	}
	if len(got.ClubSchools) != 2 || got.ClubSchools[1] != "Churchill High School" {
		t.Fatalf("club schools = %v", got.ClubSchools)
	}
	if got.Get("allowed_origins") != "https://a.example.org, https://b.example.org" {
		t.Fatalf("origins = %q", got.Get("allowed_origins"))
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	for _, kv := range [][2]string{
		{"age_floor", "abc"},
		{"max_age", "-3"},
		{"enrollment_cutoff", "yesterday"},
		{"hourly_value", "free"},
		{"uploads_per_minute", "-1"},
		{"colour", "blue"},
	} {
		if err := c.Set(kv[0], kv[1]); err == nil {
			t.Fatalf("Set(%s, %s) should fail", kv[0], kv[1])
		}
	}
}
