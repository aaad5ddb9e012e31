package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Report      ReportConfig  `toml:"report"`
	Limits      LimitsConfig  `toml:"limits"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// ReportConfig contains document generation settings
type ReportConfig struct {
	DefaultTitle   string `toml:"default_title"`   // Header title when the payload carries none
	PageSize       string `toml:"page_size"`       // "Letter", "A4", "Legal"
	MinTableRows   int    `toml:"min_table_rows"`  // Minimum data rows kept with a table header before a break
	ValidateOutput bool   `toml:"validate_output"` // Run pdfcpu validation on generated documents
	Disclaimer     string `toml:"disclaimer"`      // Closing disclaimer paragraph, empty to omit
}

// LimitsConfig contains request throttling settings for the generate endpoint
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"` // 0 disables throttling
	Burst             int     `toml:"burst"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings are exposed in marketreport.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		Report: ReportConfig{
			DefaultTitle:   "Market Daily Report",
			PageSize:       "Letter",
			MinTableRows:   3,
			ValidateOutput: false,
			Disclaimer: "This report is generated automatically and should not be considered " +
				"as financial advice. Always do your own research before making investment decisions.",
		},
		Limits: LimitsConfig{
			RequestsPerSecond: 0, // disabled by default
			Burst:             5,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override everything from files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETREPORT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("MARKETREPORT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MARKETREPORT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("MARKETREPORT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
