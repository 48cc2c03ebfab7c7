package domain

// ModelConfig describes one configured language model.
type ModelConfig struct {
	Name      string `toml:"name"`
	Provider  string `toml:"provider"`
	APIBase   string `toml:"api_base"`
	APIKeyEnv string `toml:"api_key_env"`
	ModelID   string `toml:"model_id"`
	MaxTokens int    `toml:"max_tokens,omitempty"`
}
