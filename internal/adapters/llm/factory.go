package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/chuckie/llmc/internal/adapters/llm/anthropic"
	"github.com/chuckie/llmc/internal/adapters/llm/mock"
	"github.com/chuckie/llmc/internal/adapters/llm/ollama"
	"github.com/chuckie/llmc/internal/adapters/llm/openai"
	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/ports"
)

// Providers lists the recognized provider identifiers.
var Providers = []string{"openai", "anthropic", "ollama", "mock"}

// New creates the backend for a model configuration. The provider string is
// matched exactly; unknown providers are an error.
func New(cfg domain.ModelConfig) (ports.Backend, error) {
	switch cfg.Provider {
	case "openai":
		key, err := requireKey(cfg)
		if err != nil {
			return nil, err
		}
		c, err := openai.NewClient(cfg, key)
		if err != nil {
			return nil, domain.Errorf(domain.KindConfig, err, "model %q", cfg.Name)
		}
		return c, nil
	case "anthropic":
		key, err := requireKey(cfg)
		if err != nil {
			return nil, err
		}
		c, err := anthropic.NewClient(cfg, key)
		if err != nil {
			return nil, domain.Errorf(domain.KindConfig, err, "model %q", cfg.Name)
		}
		return c, nil
	case "ollama":
		c, err := ollama.NewClient(cfg, optionalKey(cfg))
		if err != nil {
			return nil, domain.Errorf(domain.KindConfig, err, "model %q", cfg.Name)
		}
		return c, nil
	case "mock":
		return mock.NewClient(), nil
	default:
		return nil, domain.Errorf(domain.KindConfig, domain.ErrUnknownProvider,
			"unknown provider %q for model %q (supported: %s)", cfg.Provider, cfg.Name, strings.Join(Providers, ", "))
	}
}

// RequiresKey reports whether provider needs a credential to run.
func RequiresKey(provider string) bool {
	return provider == "openai" || provider == "anthropic"
}

func requireKey(cfg domain.ModelConfig) (string, error) {
	if strings.TrimSpace(cfg.APIKeyEnv) == "" {
		return "", domain.Errorf(domain.KindConfig, domain.ErrMissingCredential,
			"model %q has no api_key_env", cfg.Name)
	}
	key, ok := os.LookupEnv(cfg.APIKeyEnv)
	if !ok || strings.TrimSpace(key) == "" {
		return "", domain.Errorf(domain.KindConfig, domain.ErrMissingCredential,
			"environment variable %s is not set (required by model %q)", cfg.APIKeyEnv, cfg.Name)
	}
	return strings.TrimSpace(key), nil
}

func optionalKey(cfg domain.ModelConfig) string {
	if cfg.APIKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
}

// KeyStatus describes a model's credential state for display.
func KeyStatus(cfg domain.ModelConfig) string {
	if !RequiresKey(cfg.Provider) {
		return "(not required)"
	}
	if _, err := requireKey(cfg); err != nil {
		return fmt.Sprintf("(missing: %s)", cfg.APIKeyEnv)
	}
	return "(set)"
}
