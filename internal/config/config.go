// Package config loads job-matcher settings from an optional YAML file, JOB_MATCHER_*
// environment variables, and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/signals"
	"github.com/jonathan/job-matcher/internal/skills"
)

const (
	// FileName is the config file name searched for without an explicit --config.
	FileName = "job_matcher"
	// EnvPrefix prefixes environment overrides, e.g. JOB_MATCHER_SERVER_PORT.
	EnvPrefix = "JOB_MATCHER"
)

// Config is the full application configuration. Zero values are filled from Default.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Skills     []skills.Entry   `mapstructure:"skills" validate:"dive"`
	Signals    SignalsConfig    `mapstructure:"signals"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Server     ServerConfig     `mapstructure:"server"`
	MCP        MCPConfig        `mapstructure:"mcp"`
	Corpus     CorpusConfig     `mapstructure:"corpus"`
}

// LogConfig selects the log format and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ExtractionConfig tunes skill extraction and posting parsing.
type ExtractionConfig struct {
	MinLength       int                 `mapstructure:"min-length" validate:"gte=0"`
	MaxInputLength  int                 `mapstructure:"max-input-length" validate:"gte=0"`
	Window          int                 `mapstructure:"window" validate:"gte=0,lte=500"`
	MaxRequirements int                 `mapstructure:"max-requirements" validate:"gte=0,lte=200"`
	NegativePhrases map[string][]string `mapstructure:"negative-phrases"` // Added to the built-in phrases per term
	TechnicalCues   []string            `mapstructure:"technical-cues"`   // Added to the built-in cues
}

// SignalsConfig replaces the built-in fair-chance tiers when Tiers is non-empty.
type SignalsConfig struct {
	Tiers []signals.Tier `mapstructure:"tiers" validate:"dive"`
}

// MatchingConfig tunes match scoring.
type MatchingConfig struct {
	TopSkills int `mapstructure:"top-skills" validate:"gte=0,lte=100"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int             `mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration   `mapstructure:"read-timeout" validate:"gte=0"`
	WriteTimeout    time.Duration   `mapstructure:"write-timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown-timeout" validate:"gte=0"`
	MaxBodyBytes    int64           `mapstructure:"max-body-bytes" validate:"gte=0"`
	AllowedOrigins  []string        `mapstructure:"allowed-origins"`
	ValidateOutput  bool            `mapstructure:"validate-output"` // Check responses against JSON schemas
	RateLimit       RateLimitConfig `mapstructure:"rate-limit"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Limit     int           `mapstructure:"limit" validate:"gte=0"`
	Window    time.Duration `mapstructure:"window" validate:"gte=0"`
	Whitelist []string      `mapstructure:"whitelist" validate:"dive,ip"`
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	Addr string `mapstructure:"addr"` // Empty serves over stdio
}

// CorpusConfig locates the reference corpus of postings.
type CorpusConfig struct {
	Dir         string `mapstructure:"dir"`
	Concurrency int    `mapstructure:"concurrency" validate:"gte=0,lte=64"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extraction: ExtractionConfig{
			MinLength:       skills.DefaultMinLength,
			MaxInputLength:  skills.DefaultMaxInputLength,
			Window:          skills.DefaultWindow,
			MaxRequirements: 15,
		},
		Matching: MatchingConfig{TopSkills: matching.DefaultTopSkills},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			AllowedOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				Limit:   600,
				Window:  time.Minute,
			},
		},
		Corpus: CorpusConfig{Concurrency: 8},
	}
}

// LoadConfig loads configuration from an explicit file path.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, &Error{Message: "config path is empty"}
	}
	return Load(viper.New(), path)
}

// Load reads configuration into v. With an empty path, job_matcher.yaml is searched for in
// the working directory and $HOME/.config/job_matcher; a missing file is not an error.
// Environment variables override file values and flags bound to v override both.
func Load(v *viper.Viper, path string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var parseErr viper.ConfigParseError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Defaults and environment only
		case errors.As(err, &parseErr):
			return nil, &Error{Message: "failed to parse config file", Cause: err}
		default:
			return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Message: "failed to decode config", Cause: err}
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// setDefaults registers scalar defaults so that environment overrides of nested keys are
// seen by Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("extraction.min-length", d.Extraction.MinLength)
	v.SetDefault("extraction.max-input-length", d.Extraction.MaxInputLength)
	v.SetDefault("extraction.window", d.Extraction.Window)
	v.SetDefault("extraction.max-requirements", d.Extraction.MaxRequirements)
	v.SetDefault("matching.top-skills", d.Matching.TopSkills)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read-timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write-timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown-timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max-body-bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.allowed-origins", d.Server.AllowedOrigins)
	v.SetDefault("server.validate-output", d.Server.ValidateOutput)
	v.SetDefault("server.rate-limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate-limit.limit", d.Server.RateLimit.Limit)
	v.SetDefault("server.rate-limit.window", d.Server.RateLimit.Window)
	v.SetDefault("mcp.addr", d.MCP.Addr)
	v.SetDefault("corpus.dir", d.Corpus.Dir)
	v.SetDefault("corpus.concurrency", d.Corpus.Concurrency)
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &Error{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q validation (value %v)", fe.Tag(), fe.Value()),
				Cause:   err,
			}
		}
		return &Error{Message: "invalid configuration", Cause: err}
	}

	if c.Extraction.MaxInputLength > 0 && c.Extraction.MinLength > c.Extraction.MaxInputLength {
		return &Error{Field: "extraction.min-length", Message: "must not exceed max-input-length"}
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.Limit > 0 && c.Server.RateLimit.Window <= 0 {
		return &Error{Field: "server.rate-limit.window", Message: "must be positive when a limit is set"}
	}
	return nil
}

// MergeWithDefaults returns a copy of c with zero-valued fields filled from defaults.
// Booleans are not merged because false cannot be told apart from unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	ext, dext := &result.Extraction, defaults.Extraction
	if ext.MinLength == 0 {
		ext.MinLength = dext.MinLength
	}
	if ext.MaxInputLength == 0 {
		ext.MaxInputLength = dext.MaxInputLength
	}
	if ext.Window == 0 {
		ext.Window = dext.Window
	}
	if ext.MaxRequirements == 0 {
		ext.MaxRequirements = dext.MaxRequirements
	}

	if result.Matching.TopSkills == 0 {
		result.Matching.TopSkills = defaults.Matching.TopSkills
	}

	srv, dsrv := &result.Server, defaults.Server
	if srv.Port == 0 {
		srv.Port = dsrv.Port
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = dsrv.ReadTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = dsrv.WriteTimeout
	}
	if srv.ShutdownTimeout == 0 {
		srv.ShutdownTimeout = dsrv.ShutdownTimeout
	}
	if srv.MaxBodyBytes == 0 {
		srv.MaxBodyBytes = dsrv.MaxBodyBytes
	}
	if len(srv.AllowedOrigins) == 0 {
		srv.AllowedOrigins = dsrv.AllowedOrigins
	}
	if srv.RateLimit.Limit == 0 {
		srv.RateLimit.Limit = dsrv.RateLimit.Limit
	}
	if srv.RateLimit.Window == 0 {
		srv.RateLimit.Window = dsrv.RateLimit.Window
	}

	if result.MCP.Addr == "" {
		result.MCP.Addr = defaults.MCP.Addr
	}
	if result.Corpus.Dir == "" {
		result.Corpus.Dir = defaults.Corpus.Dir
	}
	if result.Corpus.Concurrency == 0 {
		result.Corpus.Concurrency = defaults.Corpus.Concurrency
	}

	return result
}
