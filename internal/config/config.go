package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/christopherklint97/sitterload/internal/workload"
)

type Config struct {
	Calendar   CalendarConfig   `toml:"calendar"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Travel     TravelConfig     `toml:"travel"`
	Routing    RoutingConfig    `toml:"routing"`
	Alerts     AlertsConfig     `toml:"alerts"`
	Schedule   ScheduleConfig   `toml:"schedule"`
}

type CalendarConfig struct {
	Source   string `toml:"source"` // ICS URL or file path
	Timezone string `toml:"timezone"`
}

type ThresholdsConfig struct {
	Daily   workload.ThresholdSet `toml:"daily"`
	Weekly  workload.ThresholdSet `toml:"weekly"`
	Monthly workload.ThresholdSet `toml:"monthly"`
}

type TravelConfig struct {
	HomeAddress         string  `toml:"home_address"`
	IncludeInThresholds bool    `toml:"include_in_thresholds"`
	FallbackMinutes     float64 `toml:"fallback_minutes"`
	FreshnessMinutes    int     `toml:"freshness_minutes"`
	ExpiryHours         int     `toml:"expiry_hours"`
	CacheBackend        string  `toml:"cache_backend"` // "sqlite" | "file"
}

type RoutingConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type AlertsConfig struct {
	Enabled       bool   `toml:"enabled"`
	Cron          string `toml:"cron"`
	SweepCron     string `toml:"sweep_cron"`
	LookAheadDays int    `toml:"look_ahead_days"`
	MinLevel      string `toml:"min_level"`
}

type ScheduleConfig struct {
	WeekStart string `toml:"week_start"`
}

func DefaultConfig() Config {
	t := workload.DefaultThresholds()
	return Config{
		Thresholds: ThresholdsConfig{
			Daily:   t.Daily(),
			Weekly:  t.Weekly(),
			Monthly: t.Monthly(),
		},
		Travel: TravelConfig{
			FallbackMinutes:  15,
			FreshnessMinutes: 60,
			ExpiryHours:      7 * 24,
			CacheBackend:     "sqlite",
		},
		Routing: RoutingConfig{
			TimeoutSeconds: 30,
		},
		Alerts: AlertsConfig{
			Enabled:       true,
			Cron:          "0 7 * * *",
			SweepCron:     "@hourly",
			LookAheadDays: 3,
			MinLevel:      workload.LevelHigh.String(),
		},
		Schedule: ScheduleConfig{
			WeekStart: "monday",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sitterload"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SITTERLOAD_ROUTING_API_KEY"); v != "" {
		cfg.Routing.APIKey = v
	}
	if v := os.Getenv("SITTERLOAD_HOME_ADDRESS"); v != "" {
		cfg.Travel.HomeAddress = v
	}
	if v := os.Getenv("SITTERLOAD_CALENDAR_SOURCE"); v != "" {
		cfg.Calendar.Source = v
	}
}

// Workload validates the configured threshold sets. Invalid values are
// reported, not clamped.
func (c *Config) Workload() (workload.Thresholds, error) {
	t, err := workload.NewThresholds(c.Thresholds.Daily, c.Thresholds.Weekly, c.Thresholds.Monthly)
	if err != nil {
		return workload.Thresholds{}, fmt.Errorf("config: %w", err)
	}
	return t, nil
}

// Location returns the configured timezone, or the local zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// WeekStart parses schedule.week_start; only sunday and monday are accepted.
func (c *Config) WeekStart() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.Schedule.WeekStart)) {
	case "", "monday", "mon":
		return time.Monday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	}
	return time.Monday, fmt.Errorf("unsupported week_start %q (want monday or sunday)", c.Schedule.WeekStart)
}

func (c *Config) MinAlertLevel() (workload.Level, error) {
	l, ok := workload.ParseLevel(strings.ToLower(strings.TrimSpace(c.Alerts.MinLevel)))
	if !ok {
		return workload.LevelHigh, fmt.Errorf("unknown alerts.min_level %q", c.Alerts.MinLevel)
	}
	return l, nil
}

func (t TravelConfig) Freshness() time.Duration {
	return time.Duration(t.FreshnessMinutes) * time.Minute
}

func (t TravelConfig) Expiry() time.Duration {
	return time.Duration(t.ExpiryHours) * time.Hour
}

func (r RoutingConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// EnsureConfigDir creates the directory that holds the config file at path.
func EnsureConfigDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

// SaveThresholds validates set against the current configuration and writes
// it to path, preserving every other setting in the file.
func SaveThresholds(path string, p workload.Period, set workload.ThresholdSet) error {
	current, err := LoadFrom(path)
	if err != nil {
		return err
	}
	existing, err := current.Workload()
	if err != nil {
		existing = workload.DefaultThresholds()
	}
	if _, err := existing.With(p, set); err != nil {
		return err
	}

	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	th, ok := cfg["thresholds"].(map[string]any)
	if !ok {
		th = make(map[string]any)
	}
	th[string(p)] = map[string]any{
		"comfortable": set.Comfortable,
		"busy":        set.Busy,
		"high":        set.High,
		"burnout":     set.Burnout,
	}
	cfg["thresholds"] = th

	if err := EnsureConfigDir(path); err != nil {
		return err
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
