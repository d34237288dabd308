// Package config loads and validates the YAML simulation configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/courtsim/internal/core/policy"
)

// Courtroom configures one hearing resource.
type Courtroom struct {
	ID       int `yaml:"id"`
	Capacity int `yaml:"capacity"`
}

// Inflow configures simulated filings.
type Inflow struct {
	Enabled       bool               `yaml:"enabled"`
	RatePerDay    float64            `yaml:"rate_per_day"`
	CaseTypes     map[string]float64 `yaml:"case_types,omitempty"`
	InitialStages map[string]float64 `yaml:"initial_stages,omitempty"`
}

// Output configures run persistence.
type Output struct {
	Dir    string `yaml:"dir,omitempty"`
	SQLite bool   `yaml:"sqlite"`
	NDJSON bool   `yaml:"ndjson"`
}

// Logging configures the slog default.
type Logging struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// SimConfig is the full run configuration.
type SimConfig struct {
	StartDate              string      `yaml:"start_date"`
	HorizonDays            int         `yaml:"horizon_days"`
	Seed                   int64       `yaml:"seed"`
	Policy                 string      `yaml:"policy"`
	MinGapDays             int         `yaml:"min_gap_days"`
	RipenessEvalPeriodDays int         `yaml:"ripeness_eval_period_days"`
	StrictRipeness         bool        `yaml:"strict_ripeness"`
	DurationPercentile     string      `yaml:"duration_percentile"`
	MaxGapAlertDays        int         `yaml:"max_gap_alert_days"`
	Courtrooms             []Courtroom `yaml:"courtrooms"`
	Inflow                 Inflow      `yaml:"inflow"`
	Holidays               []string    `yaml:"holidays,omitempty"`
	Output                 Output      `yaml:"output"`
	Logging                Logging     `yaml:"logging"`
}

// Defaults applied by Load when fields are zero.
const (
	DefaultMinGapDays      = 14
	DefaultRipenessEvalDay = 7
	DefaultMaxGapAlertDays = 90
)

// Load reads and validates a SimConfig from path.
func Load(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg SimConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *SimConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *SimConfig) applyDefaults() {
	if c.MinGapDays == 0 {
		c.MinGapDays = DefaultMinGapDays
	}
	if c.RipenessEvalPeriodDays == 0 {
		c.RipenessEvalPeriodDays = DefaultRipenessEvalDay
	}
	if c.MaxGapAlertDays == 0 {
		c.MaxGapAlertDays = DefaultMaxGapAlertDays
	}
	if c.Policy == "" {
		c.Policy = policy.NameReadiness
	}
	if c.DurationPercentile == "" {
		c.DurationPercentile = "median"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks the configuration; failures are fatal at engine
// construction.
func (c *SimConfig) Validate() error {
	if _, err := c.Start(); err != nil {
		return err
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("config: horizon_days must be > 0")
	}
	known := false
	for _, name := range policy.Names() {
		if c.Policy == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("config: unknown policy %q", c.Policy)
	}
	if c.MinGapDays < 0 {
		return fmt.Errorf("config: min_gap_days must be >= 0")
	}
	if c.MaxGapAlertDays < 0 {
		return fmt.Errorf("config: max_gap_alert_days must be >= 0")
	}
	if len(c.Courtrooms) == 0 {
		return fmt.Errorf("config: at least one courtroom is required")
	}
	seen := make(map[int]struct{}, len(c.Courtrooms))
	for _, r := range c.Courtrooms {
		if r.Capacity < 0 {
			return fmt.Errorf("config: courtroom %d capacity must be >= 0", r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("config: duplicate courtroom id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	if c.DurationPercentile != "median" && c.DurationPercentile != "p90" {
		return fmt.Errorf("config: duration_percentile must be median or p90")
	}
	if c.Inflow.Enabled && c.Inflow.RatePerDay < 0 {
		return fmt.Errorf("config: inflow rate_per_day must be >= 0")
	}
	for _, h := range c.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("config: invalid holiday date %q: %w", h, err)
		}
	}
	return nil
}

// Start parses the configured start date.
func (c *SimConfig) Start() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: invalid start_date %q: %w", c.StartDate, err)
	}
	return t, nil
}

// HolidayDates parses the configured holidays. Validate has already
// checked the formats.
func (c *SimConfig) HolidayDates() []time.Time {
	out := make([]time.Time, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		if t, err := time.Parse("2006-01-02", h); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// Sample returns a documented example configuration.
func Sample() *SimConfig {
	return &SimConfig{
		StartDate:              "2024-01-01",
		HorizonDays:            384,
		Seed:                   42,
		Policy:                 policy.NameReadiness,
		MinGapDays:             DefaultMinGapDays,
		RipenessEvalPeriodDays: DefaultRipenessEvalDay,
		MaxGapAlertDays:        DefaultMaxGapAlertDays,
		DurationPercentile:     "median",
		Courtrooms: []Courtroom{
			{ID: 1, Capacity: 151},
			{ID: 2, Capacity: 151},
			{ID: 3, Capacity: 151},
			{ID: 4, Capacity: 151},
			{ID: 5, Capacity: 151},
		},
		Inflow: Inflow{
			Enabled:    true,
			RatePerDay: 2.6,
			CaseTypes: map[string]float64{
				"CRP": 0.201, "CA": 0.200, "RSA": 0.196, "RFA": 0.167,
				"CCC": 0.111, "CP": 0.096, "CMP": 0.028,
			},
		},
		Output:  Output{Dir: "runs", SQLite: true, NDJSON: true},
		Logging: Logging{Level: "info", Format: "text"},
	}
}
