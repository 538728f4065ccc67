package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
)

func skillEntry(canonical string, variants ...string) skills.Entry {
	return skills.Entry{Canonical: canonical, Variants: variants, Category: skills.CategoryLanguage}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "job_matcher.yaml", `
log:
  json: true
extraction:
  window: 30
  max-requirements: 10
matching:
  top-skills: 3
server:
  port: 9000
  read-timeout: 30s
  allowed-origins: [https://jobs.example.com]
  rate-limit:
    limit: 60
    window: 10s
corpus:
  dir: ./corpus
skills:
  - canonical: Elixir
    variants: [elixir-lang]
    category: programming_languages
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 30, cfg.Extraction.Window)
	assert.Equal(t, 10, cfg.Extraction.MaxRequirements)
	assert.Equal(t, 3, cfg.Matching.TopSkills)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://jobs.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 60, cfg.Server.RateLimit.Limit)
	assert.Equal(t, 10*time.Second, cfg.Server.RateLimit.Window)
	assert.Equal(t, "./corpus", cfg.Corpus.Dir)
	require.Len(t, cfg.Skills, 1)
	assert.Equal(t, "Elixir", cfg.Skills[0].Canonical)

	// Unset values come from defaults
	d := Default()
	assert.Equal(t, d.Extraction.MinLength, cfg.Extraction.MinLength)
	assert.Equal(t, d.Server.WriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, d.Corpus.Concurrency, cfg.Corpus.Concurrency)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "job_matcher.yaml", "server:\n  port: [1, 2\n")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/job_matcher.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	path := writeConfig(t, "job_matcher.yaml", "server:\n  port: 70000\n")

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Nil(t, cfg)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Config.Server.Port", cfgErr.Field)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "job_matcher.yaml", "server:\n  port: 9000\n")
	t.Setenv("JOB_MATCHER_SERVER_PORT", "9191")
	t.Setenv("JOB_MATCHER_MATCHING_TOP_SKILLS", "7")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Matching.TopSkills)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
	assert.Equal(t, Default().Extraction, cfg.Extraction)
}

func TestLoad_FlagOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	v.Set("log.debug", true)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.True(t, cfg.Log.Debug)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative window", func(c *Config) { c.Extraction.Window = -1 }, "Config.Extraction.Window"},
		{"negative top skills", func(c *Config) { c.Matching.TopSkills = -2 }, "Config.Matching.TopSkills"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit.Limit = -5 }, "Config.Server.RateLimit.Limit"},
		{"negative concurrency", func(c *Config) { c.Corpus.Concurrency = -1 }, "Config.Corpus.Concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidate_CrossField(t *testing.T) {
	cfg := Default()
	cfg.Extraction.MinLength = 500
	cfg.Extraction.MaxInputLength = 100

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed max-input-length")
}

func TestValidate_Whitelist(t *testing.T) {
	cfg := Default()
	cfg.Server.RateLimit.Whitelist = []string{"10.0.0.1", "not-an-ip"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Whitelist")
}

func TestValidate_InvalidTier(t *testing.T) {
	path := writeConfig(t, "job_matcher.yaml", `
signals:
  tiers:
    - confidence: high
      groups:
        - name: keywords
          reason: "found {signal}"
`)

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "Terms")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Extraction: ExtractionConfig{Window: 40},
		Server:     ServerConfig{Port: 3000},
	}

	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, 40, merged.Extraction.Window)
	assert.Equal(t, 3000, merged.Server.Port)
	assert.Equal(t, Default().Extraction.MinLength, merged.Extraction.MinLength)
	assert.Equal(t, Default().Server.ShutdownTimeout, merged.Server.ShutdownTimeout)
	assert.Equal(t, Default().Server.AllowedOrigins, merged.Server.AllowedOrigins)
	assert.Equal(t, Default().Matching.TopSkills, merged.Matching.TopSkills)

	// Original is unchanged
	assert.Equal(t, 0, cfg.Extraction.MinLength)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Matching: MatchingConfig{TopSkills: 4}}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 4, merged.Matching.TopSkills)
	assert.Equal(t, 0, merged.Server.Port)
}

func TestConfig_Dictionary(t *testing.T) {
	cfg := Default()
	assert.Same(t, cfg.Dictionary(), cfg.Dictionary())

	cfg.Skills = append(cfg.Skills, skillEntry("Elixir", "elixir-lang"))
	dict := cfg.Dictionary()

	canonical, ok := dict.Lookup("elixir-lang")
	require.True(t, ok)
	assert.Equal(t, "Elixir", canonical)
	assert.True(t, dict.Contains("Python"))
}

func TestConfig_Extractor(t *testing.T) {
	cfg := Default()
	cfg.Skills = append(cfg.Skills, skillEntry("Elixir"))
	cfg.Extraction.NegativePhrases = map[string][]string{"Elixir": {"magic elixir"}}

	ext := cfg.Extractor(nil)

	assert.Equal(t, []string{"Elixir", "Python"}, ext.Extract("Experience building Elixir and Python services"))
	assert.Empty(t, ext.Extract("Drink the magic Elixir every morning at work"))
}

func TestConfig_Classifier(t *testing.T) {
	cfg := Default()
	classifier, err := cfg.Classifier()
	require.NoError(t, err)
	assert.True(t, classifier.Classify("We are a fair chance employer").Matched)

	path := writeConfig(t, "job_matcher.yaml", `
signals:
  tiers:
    - confidence: high
      groups:
        - name: remote
          terms: [fully remote, work from home]
          reason: "Detected {signal}"
`)
	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	classifier, err = loaded.Classifier()
	require.NoError(t, err)
	result := classifier.Classify("This role is fully remote.")
	assert.Equal(t, types.ClassificationResult{
		Matched:    true,
		Confidence: "high",
		Signal:     "fully remote",
		Group:      "remote",
		Reason:     "Detected fully remote",
	}, result)
}
