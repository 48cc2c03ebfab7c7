package config

import (
	"time"

	"github.com/chuckie/llmc/internal/domain"
)

const (
	DefaultTokenLimit     = 4096
	DefaultRequestTimeout = 90 * time.Second

	DefaultSystemPrompt = `You are an expert at writing git commit messages.
Write a single commit message in Conventional Commits format for the staged diff.
The subject line is at most 72 characters, imperative mood, no trailing period.
Add a short body only when the change needs explanation.
Reply with the commit message only: no markdown, no code fences, no commentary.`

	DefaultUserPrompt = "Generate a commit message for the following git diff:\n\n{diff}"
)

// DefaultModels is written to a freshly created config file.
func DefaultModels() []domain.ModelConfig {
	return []domain.ModelConfig{
		{
			Name:      "gpt-4o-mini",
			Provider:  "openai",
			APIBase:   "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY",
			ModelID:   "gpt-4o-mini",
			MaxTokens: 1024,
		},
		{
			Name:      "deepseek",
			Provider:  "openai",
			APIBase:   "https://api.deepseek.com/v1",
			APIKeyEnv: "DEEPSEEK_API_KEY",
			ModelID:   "deepseek-chat",
			MaxTokens: 1024,
		},
		{
			Name:      "groq-llama",
			Provider:  "openai",
			APIBase:   "https://api.groq.com/openai/v1",
			APIKeyEnv: "GROQ_API_KEY",
			ModelID:   "llama-3.3-70b-versatile",
			MaxTokens: 1024,
		},
		{
			Name:      "claude-haiku",
			Provider:  "anthropic",
			APIBase:   "https://api.anthropic.com/v1",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			ModelID:   "claude-3-5-haiku-latest",
			MaxTokens: 1024,
		},
		{
			Name:     "ollama-qwen",
			Provider: "ollama",
			APIBase:  "http://localhost:11434",
			ModelID:  "qwen2.5-coder",
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultModel:   "gpt-4o-mini",
		TokenLimit:     DefaultTokenLimit,
		RequestTimeout: DefaultRequestTimeout.String(),
		Prompt: PromptConfig{
			System: DefaultSystemPrompt,
			User:   DefaultUserPrompt,
		},
		Models:  DefaultModels(),
		Timeout: DefaultRequestTimeout,
	}
}
