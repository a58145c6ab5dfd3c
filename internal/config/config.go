package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8050" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100" validate:"gt=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/sopulse.log"`
}

// DatasetConfig describes the survey CSV input
type DatasetConfig struct {
	CSVPath string `yaml:"csv_path" envconfig:"CSV_PATH" default:"dataset/stackoverflow_harmonized_core_all.csv" validate:"required"`
}

// AnalyticsConfig carries the externally supplied aggregation constants:
// clip percentiles, top-N defaults, the pre/post period boundaries and the
// framework cohort membership sets.
type AnalyticsConfig struct {
	ClipLowerPct float64 `yaml:"clip_lower_pct" envconfig:"CLIP_LOWER_PCT" default:"0.01" validate:"gte=0,lt=1"`
	ClipUpperPct float64 `yaml:"clip_upper_pct" envconfig:"CLIP_UPPER_PCT" default:"0.99" validate:"gt=0,lte=1,gtfield=ClipLowerPct"`

	TopLanguages  int `yaml:"top_languages" envconfig:"TOP_LANGUAGES" default:"12" validate:"gt=0"`
	TopFrameworks int `yaml:"top_frameworks" envconfig:"TOP_FRAMEWORKS" default:"8" validate:"gt=0"`

	SplitYear       int `yaml:"split_year" envconfig:"SPLIT_YEAR" default:"2020" validate:"gt=0"`
	PrePeriodStart  int `yaml:"pre_period_start" envconfig:"PRE_PERIOD_START" default:"2017" validate:"gt=0"`
	PrePeriodEnd    int `yaml:"pre_period_end" envconfig:"PRE_PERIOD_END" default:"2019" validate:"gtefield=PrePeriodStart"`
	PostPeriodStart int `yaml:"post_period_start" envconfig:"POST_PERIOD_START" default:"2024" validate:"gt=0"`
	PostPeriodEnd   int `yaml:"post_period_end" envconfig:"POST_PERIOD_END" default:"2025" validate:"gtefield=PostPeriodStart"`

	FrontEndFrameworks []string `yaml:"front_end_frameworks" envconfig:"FRONT_END_FRAMEWORKS"`
	BackEndFrameworks  []string `yaml:"back_end_frameworks" envconfig:"BACK_END_FRAMEWORKS"`
}

// ExportConfig contains report output configuration
type ExportConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values; defaults fill
// whatever neither provides.
func Load() (*Config, error) {
	var cfg Config

	// File values first; envconfig then overrides from the environment and
	// fills remaining zero fields from the struct-tag defaults.
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileConfig
	}

	if err := envconfig.Process("SOPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyCohortDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyCohortDefaults fills the framework cohort membership sets when the
// environment and config file left them empty.
func (c *Config) applyCohortDefaults() {
	if len(c.Analytics.FrontEndFrameworks) == 0 {
		c.Analytics.FrontEndFrameworks = DefaultFrontEndFrameworks()
	}
	if len(c.Analytics.BackEndFrameworks) == 0 {
		c.Analytics.BackEndFrameworks = DefaultBackEndFrameworks()
	}
}

// Validate validates the configuration using struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// GetReportsDir returns the resolved reports directory path
func (c *Config) GetReportsDir() string {
	if filepath.IsAbs(c.Export.ReportsDir) {
		return c.Export.ReportsDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Export.ReportsDir
	}
	return filepath.Join(wd, c.Export.ReportsDir)
}

// GetReportPath returns the full path for a report file name
func (c *Config) GetReportPath(name string) string {
	return filepath.Join(c.GetReportsDir(), name)
}

// getConfigFilePath returns the config file path, honoring SOPULSE_CONFIG
func getConfigFilePath() string {
	if path := os.Getenv("SOPULSE_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
