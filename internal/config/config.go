package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wardpulse.log"`
}

// DataConfig locates the staffing dataset and names its date column.
type DataConfig struct {
	SourceFile string `yaml:"source_file" envconfig:"SOURCE_FILE" default:"data/staffing.csv"`
	DateColumn string `yaml:"date_column" envconfig:"DATE_COLUMN" default:"D.O.A"`
}

// AnalyticsConfig carries the staffing model constants. These were inline
// literals in earlier renditions of the dashboard; hoisting them here lets
// tests and deployments vary them without touching the engine.
type AnalyticsConfig struct {
	// RiskRatio is the clinical patients-per-nurse threshold above which a
	// day counts as a risk day. It is independent of the user-selected
	// minimum-ratio filter.
	RiskRatio float64 `yaml:"risk_ratio" envconfig:"RISK_RATIO" default:"4.0"`
	// PatientsPerNurseModel is the 1:N staffing model used to estimate
	// nurse counts when the source file does not supply them.
	PatientsPerNurseModel float64 `yaml:"patients_per_nurse_model" envconfig:"PATIENTS_PER_NURSE_MODEL" default:"5.0"`
	// MinRatioFloor and MinRatioCeil bound the minimum-ratio control.
	MinRatioFloor float64 `yaml:"min_ratio_floor" envconfig:"MIN_RATIO_FLOOR" default:"1.0"`
	MinRatioCeil  float64 `yaml:"min_ratio_ceil" envconfig:"MIN_RATIO_CEIL" default:"5.0"`
	// HistogramBins is the default bucket count for the ratio frequency chart.
	HistogramBins int `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" default:"20"`
	// MissingValues selects how NaN cells participate in means:
	// "skip" excludes them from the denominator, "propagate" poisons the mean.
	MissingValues string `yaml:"missing_values" envconfig:"MISSING_VALUES" default:"skip"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment variables establish the baseline (including defaults)
	if err := envconfig.Process("WARD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Config file, when present, fills in anything the environment left unset
	if configFile := getConfigFilePath(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
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

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Data.SourceFile == "" {
		envConfig.Data.SourceFile = fileConfig.Data.SourceFile
	}
	if envConfig.Data.DateColumn == "" {
		envConfig.Data.DateColumn = fileConfig.Data.DateColumn
	}
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Analytics.RiskRatio == 0 {
		envConfig.Analytics.RiskRatio = fileConfig.Analytics.RiskRatio
	}
	if envConfig.Analytics.HistogramBins == 0 {
		envConfig.Analytics.HistogramBins = fileConfig.Analytics.HistogramBins
	}
	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if c.Data.SourceFile == "" {
		return fmt.Errorf("data source file must be configured")
	}

	if c.Analytics.RiskRatio <= 0 {
		return fmt.Errorf("risk ratio must be positive, got %v", c.Analytics.RiskRatio)
	}

	if c.Analytics.PatientsPerNurseModel <= 0 {
		return fmt.Errorf("patients-per-nurse model must be positive, got %v", c.Analytics.PatientsPerNurseModel)
	}

	if c.Analytics.MinRatioFloor > c.Analytics.MinRatioCeil {
		return fmt.Errorf("min ratio floor %v exceeds ceiling %v",
			c.Analytics.MinRatioFloor, c.Analytics.MinRatioCeil)
	}

	if c.Analytics.HistogramBins <= 0 {
		return fmt.Errorf("histogram bins must be positive, got %d", c.Analytics.HistogramBins)
	}

	switch strings.ToLower(c.Analytics.MissingValues) {
	case "skip", "propagate":
	default:
		return fmt.Errorf("missing values policy must be skip or propagate, got %q", c.Analytics.MissingValues)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if len(c.Security.AllowedOrigins) == 0 && c.Security.EnableCORS {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/wardpulse.log",
		},
		Data: DataConfig{
			SourceFile: "data/staffing.csv",
			DateColumn: "D.O.A",
		},
		Analytics: AnalyticsConfig{
			RiskRatio:             4.0,
			PatientsPerNurseModel: 5.0,
			MinRatioFloor:         1.0,
			MinRatioCeil:          5.0,
			HistogramBins:         20,
			MissingValues:         "skip",
		},
	}
}
