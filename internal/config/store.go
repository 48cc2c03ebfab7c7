package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chuckie/llmc/internal/domain"
)

// DefaultConfigPath returns the default per-user config path.
//
// Typically:
// - Linux:   ~/.config/llmc/config.toml
// - macOS:   ~/Library/Application Support/llmc/config.toml
// - Windows: %AppData%/llmc/config.toml
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, "llmc", "config.toml"), nil
}

// ResolvePath picks the config file to use, in order: explicit flag,
// LLMC_CONFIG, the per-user path, ./config.toml. When none exists the
// defaults are written to the per-user path and created is true.
func ResolvePath(flag string) (path string, created bool, err error) {
	if p := strings.TrimSpace(flag); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", false, domain.Errorf(domain.KindConfig, err, "config file %s", p)
		}
		return p, false, nil
	}
	if p := strings.TrimSpace(os.Getenv("LLMC_CONFIG")); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", false, domain.Errorf(domain.KindConfig, err, "LLMC_CONFIG=%s", p)
		}
		return p, false, nil
	}

	userPath, err := DefaultConfigPath()
	if err == nil && fileExists(userPath) {
		return userPath, false, nil
	}
	if fileExists("config.toml") {
		abs, absErr := filepath.Abs("config.toml")
		if absErr != nil {
			return "config.toml", false, nil
		}
		return abs, false, nil
	}
	if err != nil {
		return "", false, domain.Errorf(domain.KindConfig, err, "no config file found")
	}

	if err := SaveToFile(userPath, Default()); err != nil {
		return "", false, domain.Errorf(domain.KindConfig, err, "create default config")
	}
	return userPath, true, nil
}

// WriteDefault writes the built-in config to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if fileExists(path) && !force {
		return domain.Errorf(domain.KindConfig, os.ErrExist, "%s already exists (use --force to overwrite)", path)
	}
	return SaveToFile(path, Default())
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveToFile saves config to a TOML file (atomic write). Creates directories as needed.
func SaveToFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	b, err := Encode(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0o600); err != nil {
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}
