// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// Config is the service configuration that can be loaded from a JSON file.
// All fields are optional; missing values are filled by MergeWithDefaults.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	Server     ServerConfig       `json:"server"`
	LLM        LLMConfig          `json:"llm"`
	Validation validation.Options `json:"validation"`
	Logger     logger.Config      `json:"logger"`
	Generation GenerationConfig   `json:"generation"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port                int      `json:"port,omitempty"`
	ReadTimeoutSeconds  int      `json:"read_timeout_seconds,omitempty"`
	WriteTimeoutSeconds int      `json:"write_timeout_seconds,omitempty"`
	AllowedOrigins      []string `json:"allowed_origins,omitempty"` // CORS; "*" allows any origin
}

// LLMConfig selects the model used to draft résumés.
type LLMConfig struct {
	APIKey         string  `json:"api_key,omitempty"`         // Gemini API key
	Tier           string  `json:"tier,omitempty"`            // lite, standard or advanced
	Model          string  `json:"model,omitempty"`           // overrides the model for Tier
	Temperature    float32 `json:"temperature,omitempty"`     // sampling temperature
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"` // per-call deadline
}

// GenerationConfig tunes résumé generation.
type GenerationConfig struct {
	MaxConcurrent int64  `json:"max_concurrent,omitempty"` // concurrent LLM calls
	DefaultStyle  string `json:"default_style,omitempty"`  // style label when a request has none
	DefaultTheme  string `json:"default_theme,omitempty"`  // HTML theme when a request has none
	UseBrowser    bool   `json:"use_browser,omitempty"`    // render job posting URLs with headless Chrome
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 120, // generation waits on the LLM
			AllowedOrigins:      []string{"*"},
		},
		LLM: LLMConfig{
			Tier:           "standard",
			Temperature:    0.3,
			TimeoutSeconds: 90,
		},
		Validation: *validation.DefaultOptions(),
		Logger:     logger.DefaultConfig(),
		Generation: GenerationConfig{
			MaxConcurrent: 4,
			DefaultStyle:  "default",
			DefaultTheme:  "classic",
		},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads path when it is set, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv fills fields from DATABASE_URL, GEMINI_API_KEY, PORT and LOG_LEVEL.
// Values already present in the file win.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Server.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Server.Port = port
		}
	}
	if c.Logger.Level == "" {
		c.Logger.Level = os.Getenv("LOG_LEVEL")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("config error: server timeouts must be non-negative")
	}

	switch c.LLM.Tier {
	case "", "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: 'llm.tier' must be lite, standard or advanced, got %q", c.LLM.Tier)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'llm.timeout_seconds' must be non-negative")
	}

	v := c.Validation
	if v.StructuredMaxWords < 0 || v.MarkdownMaxWords < 0 || v.MaxKeywordHints < 0 {
		return fmt.Errorf("config error: validation limits must be non-negative")
	}
	if v.MinBulletMetricRatio < 0 || v.MinBulletMetricRatio > 1 {
		return fmt.Errorf("config error: 'validation.min_bullet_metric_ratio' must be between 0 and 1")
	}
	for i, s := range v.MarkdownSections {
		if s.Name == "" || len(s.Synonyms) == 0 {
			return fmt.Errorf("config error: 'validation.markdown_sections[%d]' needs a name and at least one synonym", i)
		}
	}

	switch c.Logger.Format {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: 'logger.format' must be json or pretty, got %q", c.Logger.Format)
	}

	if c.Generation.MaxConcurrent < 0 {
		return fmt.Errorf("config error: 'generation.max_concurrent' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Server
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.ReadTimeoutSeconds == 0 {
		result.Server.ReadTimeoutSeconds = defaults.Server.ReadTimeoutSeconds
	}
	if result.Server.WriteTimeoutSeconds == 0 {
		result.Server.WriteTimeoutSeconds = defaults.Server.WriteTimeoutSeconds
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	// LLM
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.LLM.Tier == "" {
		result.LLM.Tier = defaults.LLM.Tier
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.Temperature == 0 {
		result.LLM.Temperature = defaults.LLM.Temperature
	}
	if result.LLM.TimeoutSeconds == 0 {
		result.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}

	// Validation: zero thresholds and nil lists take the defaults
	v, dv := &result.Validation, defaults.Validation
	if v.StructuredMaxWords == 0 {
		v.StructuredMaxWords = dv.StructuredMaxWords
	}
	if v.MarkdownMaxWords == 0 {
		v.MarkdownMaxWords = dv.MarkdownMaxWords
	}
	if v.MaxKeywordHints == 0 {
		v.MaxKeywordHints = dv.MaxKeywordHints
	}
	if v.MinBulletMetricRatio == 0 {
		v.MinBulletMetricRatio = dv.MinBulletMetricRatio
	}
	if v.MetricWords == nil {
		v.MetricWords = dv.MetricWords
	}
	if v.RequiredKeys == nil {
		v.RequiredKeys = dv.RequiredKeys
	}
	if v.MarkdownSections == nil {
		v.MarkdownSections = dv.MarkdownSections
	}

	// Logger
	if result.Logger.Level == "" {
		result.Logger.Level = defaults.Logger.Level
	}
	if result.Logger.Format == "" {
		result.Logger.Format = defaults.Logger.Format
	}
	if result.Logger.TimeFormat == "" {
		result.Logger.TimeFormat = defaults.Logger.TimeFormat
	}

	// Generation
	if result.Generation.MaxConcurrent == 0 {
		result.Generation.MaxConcurrent = defaults.Generation.MaxConcurrent
	}
	if result.Generation.DefaultStyle == "" {
		result.Generation.DefaultStyle = defaults.Generation.DefaultStyle
	}
	if result.Generation.DefaultTheme == "" {
		result.Generation.DefaultTheme = defaults.Generation.DefaultTheme
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
