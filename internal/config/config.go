package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/server"
	"github.com/KaramelBytes/sosdash/internal/utils"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Global configuration structure.
type Global struct {
	// Cleaning rules
	AgeFloor         int      `mapstructure:"age_floor" yaml:"age_floor"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
	EnrollmentCutoff string   `mapstructure:"enrollment_cutoff" yaml:"enrollment_cutoff"`
	ClubSchools      []string `mapstructure:"club_schools" yaml:"club_schools"`
	HourlyValue      float64  `mapstructure:"hourly_value" yaml:"hourly_value"`

	// HTTP server
	Addr             string   `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB      int64    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	UploadsPerMinute int      `mapstructure:"uploads_per_minute" yaml:"uploads_per_minute"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"age_floor", "max_age", "enrollment_cutoff", "club_schools", "hourly_value",
	"addr", "max_upload_mb", "uploads_per_minute", "allowed_origins",
}

// DefaultPath is ~/.sosdash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sosdash", "config.yaml"), nil
}

// Save writes c to cfgFile, or to DefaultPath when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Env vars use the SOSDASH_ prefix.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SOSDASH")
	v.AutomaticEnv()

	def := pipeline.DefaultOptions()
	v.SetDefault("age_floor", def.AgeFloor)
	v.SetDefault("max_age", def.MaxAge)
	v.SetDefault("enrollment_cutoff", def.EnrollmentCutoff.Format(dateLayout))
	v.SetDefault("club_schools", def.ClubSchools)
	v.SetDefault("hourly_value", def.HourlyValue)
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("max_upload_mb", 25)
	v.SetDefault("uploads_per_minute", 6)
	v.SetDefault("allowed_origins", []string{"http://localhost:5173"})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// comma-separated lists from the environment arrive as one element
	c.ClubSchools = splitList(c.ClubSchools)
	c.AllowedOrigins = splitList(c.AllowedOrigins)
	if _, err := c.Options(); err != nil {
		return nil, err
	}
	return &c, nil
}

func splitList(in []string) []string {
	if len(in) != 1 || !strings.Contains(in[0], ",") {
		return in
	}
	var out []string
	for _, s := range strings.Split(in[0], ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Options converts the cleaning settings for the pipeline.
func (c *Global) Options() (pipeline.Options, error) {
	opt := pipeline.DefaultOptions()
	if c.AgeFloor > 0 {
		opt.AgeFloor = c.AgeFloor
	}
	if c.MaxAge > 0 {
		opt.MaxAge = c.MaxAge
	}
	if opt.AgeFloor > opt.MaxAge {
		return opt, fmt.Errorf("age_floor %d is above max_age %d", opt.AgeFloor, opt.MaxAge)
	}
	if c.EnrollmentCutoff != "" {
		t, err := time.Parse(dateLayout, c.EnrollmentCutoff)
		if err != nil {
			return opt, fmt.Errorf("invalid enrollment_cutoff %q (use YYYY-MM-DD)", c.EnrollmentCutoff)
		}
		opt.EnrollmentCutoff = t
	}
	if len(c.ClubSchools) > 0 {
		opt.ClubSchools = c.ClubSchools
	}
	if c.HourlyValue > 0 {
		opt.HourlyValue = c.HourlyValue
	}
	return opt, nil
}

// Server converts the HTTP settings.
func (c *Global) Server() server.Config {
	return server.Config{
		Addr:             c.Addr,
		MaxUploadMB:      c.MaxUploadMB,
		AllowedOrigins:   c.AllowedOrigins,
		UploadsPerMinute: c.UploadsPerMinute,
	}
}

// Set parses val for key and stores it. Lists are comma-separated.
func (c *Global) Set(key, val string) error {
	var err error
	switch key {
	case "age_floor":
		c.AgeFloor, err = positiveInt(key, val)
	case "max_age":
		c.MaxAge, err = positiveInt(key, val)
	case "enrollment_cutoff":
		if _, perr := time.Parse(dateLayout, val); perr != nil {
			return fmt.Errorf("invalid date for %s: %s (use YYYY-MM-DD)", key, val)
		}
		c.EnrollmentCutoff = val
	case "club_schools":
		c.ClubSchools = splitList([]string{val + ","})
	case "hourly_value":
		f, perr := cast.ToFloat64E(val)
		if perr != nil || f <= 0 {
			return fmt.Errorf("invalid amount for %s: %s", key, val)
		}
		c.HourlyValue = f
	case "addr":
		c.Addr = val
	case "max_upload_mb":
		var n int
		n, err = positiveInt(key, val)
		c.MaxUploadMB = int64(n)
	case "uploads_per_minute":
		c.UploadsPerMinute, err = cast.ToIntE(val)
		if err != nil || c.UploadsPerMinute < 0 {
			return fmt.Errorf("invalid int for %s: %s", key, val)
		}
	case "allowed_origins":
		c.AllowedOrigins = splitList([]string{val + ","})
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func positiveInt(key, val string) (int, error) {
	n, err := cast.ToIntE(val)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid int for %s: %s", key, val)
	}
	return n, nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) string {
	switch key {
	case "age_floor":
		return cast.ToString(c.AgeFloor)
	case "max_age":
		return cast.ToString(c.MaxAge)
	case "enrollment_cutoff":
		return c.EnrollmentCutoff
	case "club_schools":
		return fmt.Sprintf("%d schools", len(c.ClubSchools))
	case "hourly_value":
		return fmt.Sprintf("%.2f", c.HourlyValue)
	case "addr":
		return c.Addr
	case "max_upload_mb":
		return cast.ToString(c.MaxUploadMB)
	case "uploads_per_minute":
		return cast.ToString(c.UploadsPerMinute)
	case "allowed_origins":
		return strings.Join(c.AllowedOrigins, ", ")
	}
	return ""
}
