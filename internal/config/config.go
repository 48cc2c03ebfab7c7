package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/observability"
)

// PromptConfig holds the system prompt and the user template. The user
// template may contain {diff}.
type PromptConfig struct {
	System string `toml:"system"`
	User   string `toml:"user"`
}

// Config is the validated application configuration.
type Config struct {
	DefaultModel     string               `toml:"default_model"`
	TokenLimit       int                  `toml:"token_limit"`
	StrictTokenLimit bool                 `toml:"strict_token_limit"`
	RedactSecrets    bool                 `toml:"redact_secrets"`
	RequestTimeout   string               `toml:"request_timeout"`
	Prompt           PromptConfig         `toml:"prompt"`
	Models           []domain.ModelConfig `toml:"models"`

	// Timeout is RequestTimeout parsed.
	Timeout time.Duration `toml:"-"`
	// Path is the file this config was loaded from.
	Path string `toml:"-"`
}

// Load reads path, applies defaults for absent keys, then environment
// overrides, then validates.
//
// Environment: LLMC_MODEL, LLMC_TOKEN_LIMIT, LLMC_STRICT_TOKEN_LIMIT,
// LLMC_REDACT_SECRETS, LLMC_REQUEST_TIMEOUT.
func Load(path string) (*Config, error) {
	var file Config
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.Errorf(domain.KindConfig, err, "config file %s not found", path)
		}
		return nil, domain.Errorf(domain.KindConfig, err, "parse %s", path)
	}
	for _, key := range md.Undecoded() {
		observability.Logger().Printf("config: unknown key %q in %s", key.String(), path)
	}

	cfg := merge(Default(), &file, md)
	cfg.Path = path
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge overlays keys that are present in the file onto defaults.
func merge(dst, src *Config, md toml.MetaData) *Config {
	if md.IsDefined("default_model") {
		dst.DefaultModel = src.DefaultModel
	}
	if md.IsDefined("token_limit") {
		dst.TokenLimit = src.TokenLimit
	}
	if md.IsDefined("strict_token_limit") {
		dst.StrictTokenLimit = src.StrictTokenLimit
	}
	if md.IsDefined("redact_secrets") {
		dst.RedactSecrets = src.RedactSecrets
	}
	if md.IsDefined("request_timeout") {
		dst.RequestTimeout = src.RequestTimeout
	}
	if md.IsDefined("prompt", "system") {
		dst.Prompt.System = src.Prompt.System
	}
	if md.IsDefined("prompt", "user") {
		dst.Prompt.User = src.Prompt.User
	}
	if md.IsDefined("models") {
		dst.Models = src.Models
	}
	return dst
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(getEnv("LLMC_MODEL", "")); v != "" {
		cfg.DefaultModel = v
	}
	if _, ok := os.LookupEnv("LLMC_TOKEN_LIMIT"); ok {
		cfg.TokenLimit = getEnvInt("LLMC_TOKEN_LIMIT", cfg.TokenLimit)
	}
	if _, ok := os.LookupEnv("LLMC_STRICT_TOKEN_LIMIT"); ok {
		cfg.StrictTokenLimit = getEnvBool("LLMC_STRICT_TOKEN_LIMIT", cfg.StrictTokenLimit)
	}
	if _, ok := os.LookupEnv("LLMC_REDACT_SECRETS"); ok {
		cfg.RedactSecrets = getEnvBool("LLMC_REDACT_SECRETS", cfg.RedactSecrets)
	}
	if v := strings.TrimSpace(getEnv("LLMC_REQUEST_TIMEOUT", "")); v != "" {
		cfg.RequestTimeout = v
	}
}

// Validate checks the configuration and fills Timeout.
func (c *Config) Validate() error {
	if c.TokenLimit <= 0 {
		return domain.Errorf(domain.KindConfig, nil, "token_limit must be positive, got %d", c.TokenLimit)
	}
	if strings.TrimSpace(c.Prompt.System) == "" {
		return domain.Errorf(domain.KindConfig, nil, "prompt.system must not be empty")
	}
	if strings.TrimSpace(c.Prompt.User) == "" {
		return domain.Errorf(domain.KindConfig, nil, "prompt.user must not be empty")
	}

	c.Timeout = DefaultRequestTimeout
	if s := strings.TrimSpace(c.RequestTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return domain.Errorf(domain.KindConfig, err, "request_timeout %q", s)
		}
		if d <= 0 {
			return domain.Errorf(domain.KindConfig, nil, "request_timeout must be positive, got %s", s)
		}
		c.Timeout = d
	}

	if len(c.Models) == 0 {
		return domain.Errorf(domain.KindConfig, nil, "no models configured")
	}
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if strings.TrimSpace(m.Name) == "" {
			return domain.Errorf(domain.KindConfig, nil, "models[%d]: name is required", i)
		}
		if seen[m.Name] {
			return domain.Errorf(domain.KindConfig, nil, "duplicate model name %q", m.Name)
		}
		seen[m.Name] = true
		if strings.TrimSpace(m.Provider) == "" {
			return domain.Errorf(domain.KindConfig, nil, "model %q: provider is required", m.Name)
		}
		if strings.TrimSpace(m.ModelID) == "" {
			return domain.Errorf(domain.KindConfig, nil, "model %q: model_id is required", m.Name)
		}
		if m.MaxTokens < 0 {
			return domain.Errorf(domain.KindConfig, nil, "model %q: max_tokens must not be negative", m.Name)
		}
	}
	return nil
}

// FindModel returns the model called name.
func (c *Config) FindModel(name string) (domain.ModelConfig, error) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, nil
		}
	}
	return domain.ModelConfig{}, domain.Errorf(domain.KindModelNotFound, nil,
		"%q (run `llmc models` to list configured models)", name)
}

// ActiveModel resolves the model to use: override if set, else default_model.
func (c *Config) ActiveModel(override string) (domain.ModelConfig, error) {
	name := strings.TrimSpace(override)
	if name == "" {
		name = c.DefaultModel
	}
	if name == "" {
		return domain.ModelConfig{}, domain.Errorf(domain.KindConfig, nil, "no model selected and default_model is empty")
	}
	return c.FindModel(name)
}

// UserPrompt fills the {diff} placeholder of the user template.
func (c *Config) UserPrompt(diff string) string {
	return strings.ReplaceAll(c.Prompt.User, domain.DiffPlaceholder, diff)
}

func (c *Config) String() string {
	return fmt.Sprintf("config(%s, default_model=%s, models=%d)", c.Path, c.DefaultModel, len(c.Models))
}

// getEnv retrieves an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
		observability.Logger().Printf("config: ignoring %s=%q (not an integer)", key, val)
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as bool with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no", "":
			return false
		}
	}
	return defaultValue
}
