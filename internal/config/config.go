// Package config loads the layered tool configuration: programmatic
// defaults, overridden by an optional YAML file, overridden by CLTV_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"cltvcli/internal/cltv"
	apperrors "cltvcli/internal/errors"
)

// envPrefix namespaces the environment overrides, e.g.
// CLTV_REFERENCE_DATE or CLTV_MIN_FREQUENCY.
const envPrefix = "CLTV"

// referenceDateLayouts are the accepted reference_date formats.
var referenceDateLayouts = []string{"2006-01-02", time.RFC3339}

// Config represents the complete tool configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig carries the parameters of the CLTV transform. The
// reference date anchors the recency calculation and is deliberately a
// required input, never derived from the data, so a run is reproducible
// against any dataset vintage.
type PipelineConfig struct {
	ReferenceDate          string  `yaml:"reference_date" envconfig:"REFERENCE_DATE" validate:"required"`
	RareCountryThreshold   int     `yaml:"rare_country_threshold" envconfig:"RARE_COUNTRY_THRESHOLD" validate:"gte=0"`
	OutlierFenceMultiplier float64 `yaml:"outlier_fence_multiplier" envconfig:"OUTLIER_FENCE_MULTIPLIER" validate:"gte=0"`
	OutlierPercentileLow   float64 `yaml:"outlier_percentile_low" envconfig:"OUTLIER_PERCENTILE_LOW" validate:"gte=0,lte=1"`
	OutlierPercentileHigh  float64 `yaml:"outlier_percentile_high" envconfig:"OUTLIER_PERCENTILE_HIGH" validate:"gte=0,lte=1,gtfield=OutlierPercentileLow"`
	MinFrequency           int     `yaml:"min_frequency" envconfig:"MIN_FREQUENCY" validate:"gte=0"`
}

// PathsConfig contains file system locations.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT" validate:"oneof=text json"`
}

// Default returns the configuration before any file or env overrides.
// ReferenceDate stays empty: it has no sensible default.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			RareCountryThreshold:   1000,
			OutlierFenceMultiplier: 1.5,
			OutlierPercentileLow:   0.01,
			OutlierPercentileHigh:  0.99,
			MinFrequency:           1,
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "data/reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty the file must exist; otherwise a missing file is
// fine), and CLTV_* environment variables, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, apperrors.NewConfigError("apply environment overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("read config file %s", path), err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("parse config file %s", path), err)
	}
	return nil
}

// Validate checks struct constraints and the reference date format.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("invalid configuration", err)
	}
	if _, err := c.Pipeline.referenceDate(); err != nil {
		return err
	}
	return nil
}

// Params converts the pipeline section into cltv.Params.
func (c Config) Params() (cltv.Params, error) {
	ref, err := c.Pipeline.referenceDate()
	if err != nil {
		return cltv.Params{}, err
	}
	return cltv.Params{
		ReferenceDate:        ref,
		RareCountryThreshold: c.Pipeline.RareCountryThreshold,
		FenceMultiplier:      c.Pipeline.OutlierFenceMultiplier,
		PercentileLow:        c.Pipeline.OutlierPercentileLow,
		PercentileHigh:       c.Pipeline.OutlierPercentileHigh,
		MinFrequency:         c.Pipeline.MinFrequency,
	}, nil
}

func (p PipelineConfig) referenceDate() (time.Time, error) {
	for _, layout := range referenceDateLayouts {
		if ts, err := time.Parse(layout, p.ReferenceDate); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, apperrors.NewConfigError(
		fmt.Sprintf("reference_date %q is not a date (want 2006-01-02 or RFC 3339)", p.ReferenceDate), nil)
}
