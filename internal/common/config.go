package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	Batch   BatchConfig
	Export  ExportConfig
	Journal JournalConfig
	Log     LogConfig
}

// LLMConfig holds extraction-service configuration
type LLMConfig struct {
	Provider    string // gemini | openai
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration // per extraction call
}

// BatchConfig holds orchestration configuration
type BatchConfig struct {
	Workers int
}

// ExportConfig holds spreadsheet output configuration
type ExportConfig struct {
	Mode   string // upload | standard
	OutDir string
}

// JournalConfig holds run-journal configuration. An empty DSN disables the journal.
type JournalConfig struct {
	DSN         string
	MaxConns    int32
	DialTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // text | json
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// fileConfig mirrors Config for TOML decoding; durations are written as "45s".
type fileConfig struct {
	LLM struct {
		Provider    string  `toml:"provider"`
		Model       string  `toml:"model"`
		APIKey      string  `toml:"api_key"`
		BaseURL     string  `toml:"base_url"`
		Temperature float32 `toml:"temperature"`
		Timeout     string  `toml:"timeout"`
	} `toml:"llm"`
	Batch struct {
		Workers int `toml:"workers"`
	} `toml:"batch"`
	Export struct {
		Mode   string `toml:"mode"`
		OutDir string `toml:"out_dir"`
	} `toml:"export"`
	Journal struct {
		DSN         string `toml:"dsn"`
		MaxConns    int32  `toml:"max_conns"`
		DialTimeout string `toml:"dial_timeout"`
	} `toml:"journal"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

func defaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			Temperature: 0.0,
			Timeout:     60 * time.Second,
		},
		Batch:   BatchConfig{Workers: 1},
		Export:  ExportConfig{Mode: "standard", OutDir: "."},
		Journal: JournalConfig{MaxConns: 4, DialTimeout: 3 * time.Second},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	c := defaultConfig()
	c.applyEnv()
	return c
}

// LoadConfigFile overlays a TOML file on the defaults, then applies environment
// variables, which always win. An empty path behaves like LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	c := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError(CodeConfig, "read config file", err)
		}
		var fc fileConfig
		if err := toml.Unmarshal(b, &fc); err != nil {
			return nil, NewAppError(CodeConfig, "decode config file "+path, err)
		}
		if err := c.merge(fc); err != nil {
			return nil, err
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) merge(fc fileConfig) error {
	if fc.LLM.Provider != "" {
		c.LLM.Provider = fc.LLM.Provider
	}
	if fc.LLM.Model != "" {
		c.LLM.Model = fc.LLM.Model
	}
	if fc.LLM.APIKey != "" {
		c.LLM.APIKey = fc.LLM.APIKey
	}
	if fc.LLM.BaseURL != "" {
		c.LLM.BaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Temperature != 0 {
		c.LLM.Temperature = fc.LLM.Temperature
	}
	if fc.LLM.Timeout != "" {
		d, err := time.ParseDuration(fc.LLM.Timeout)
		if err != nil {
			return NewAppError(CodeConfig, "llm.timeout", err)
		}
		c.LLM.Timeout = d
	}
	if fc.Batch.Workers != 0 {
		c.Batch.Workers = fc.Batch.Workers
	}
	if fc.Export.Mode != "" {
		c.Export.Mode = fc.Export.Mode
	}
	if fc.Export.OutDir != "" {
		c.Export.OutDir = fc.Export.OutDir
	}
	if fc.Journal.DSN != "" {
		c.Journal.DSN = fc.Journal.DSN
	}
	if fc.Journal.MaxConns != 0 {
		c.Journal.MaxConns = fc.Journal.MaxConns
	}
	if fc.Journal.DialTimeout != "" {
		d, err := time.ParseDuration(fc.Journal.DialTimeout)
		if err != nil {
			return NewAppError(CodeConfig, "journal.dial_timeout", err)
		}
		c.Journal.DialTimeout = d
	}
	if fc.Log.Level != "" {
		c.Log.Level = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.Log.Format = fc.Log.Format
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = strings.ToLower(getEnv("EXTRACTION_PROVIDER", c.LLM.Provider))
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvAsDuration("EXTRACTION_TIMEOUT", c.LLM.Timeout)
	switch c.LLM.Provider {
	case ProviderOpenAI:
		c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-4o-mini"
		}
	default:
		c.LLM.APIKey = getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", c.LLM.APIKey))
		if c.LLM.Model == "" {
			c.LLM.Model = "gemini-2.5-flash"
		}
	}

	c.Batch.Workers = getEnvAsInt("BATCH_WORKERS", c.Batch.Workers)

	c.Export.Mode = strings.ToLower(getEnv("EXPORT_MODE", c.Export.Mode))
	c.Export.OutDir = getEnv("EXPORT_OUT_DIR", c.Export.OutDir)

	c.Journal.DSN = getEnv("JOURNAL_DSN", c.Journal.DSN)
	c.Journal.MaxConns = getEnvAsInt32("JOURNAL_MAX_CONNS", c.Journal.MaxConns)
	c.Journal.DialTimeout = getEnvAsDuration("JOURNAL_DIAL_TIMEOUT", c.Journal.DialTimeout)

	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(getEnv("LOG_FORMAT", c.Log.Format))
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. A missing API key is not an error here:
// the batch itself fails with SERVICE_UNAVAILABLE when no extractor can be built.
func (c *Config) Validate() error {
	if c.LLM.Provider != ProviderGemini && c.LLM.Provider != ProviderOpenAI {
		return NewAppError(CodeConfig, fmt.Sprintf("unknown extraction provider %q", c.LLM.Provider), ErrInvalidInput)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError(CodeConfig, "EXTRACTION_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Batch.Workers < 1 {
		return NewAppError(CodeConfig, "BATCH_WORKERS must be at least 1", ErrInvalidInput)
	}
	if c.Export.Mode != "upload" && c.Export.Mode != "standard" {
		return NewAppError(CodeConfig, fmt.Sprintf("unknown export mode %q", c.Export.Mode), ErrInvalidInput)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return NewAppError(CodeConfig, fmt.Sprintf("unknown log format %q", c.Log.Format), ErrInvalidInput)
	}
	return nil
}

// ParseLogLevel maps debug/info/warn/error onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, NewAppError(CodeConfig, fmt.Sprintf("unknown log level %q", s), ErrInvalidInput)
	}
	return lvl, nil
}
