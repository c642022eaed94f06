// Package config loads the application configuration: an optional YAML
// file, then CURIOLOOP_* environment overrides, then API key discovery.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/curioloop/internal/gateway"
	"github.com/abhisek/curioloop/internal/llm"
	"github.com/abhisek/curioloop/internal/logging"
)

// Config is the full application configuration.
type Config struct {
	LLM        llm.Config     `yaml:"llm"`
	Generation gateway.Config `yaml:"generation"`
	DBPath     string         `yaml:"db_path"`
	Log        logging.Config `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:        llm.DefaultConfig(),
		Generation: gateway.DefaultConfig(),
		Log:        logging.DefaultConfig(),
	}
}

// DefaultPath returns the config file location.
// Checks: $XDG_CONFIG_HOME/curioloop/config.yaml → ~/.config/curioloop/config.yaml
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "curioloop", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "curioloop", "config.yaml"), nil
}

// Load reads the configuration. An explicit path must exist; when path is
// empty the default location is used if present. Environment overrides
// are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	ApplyEnv(&cfg)
	cfg.Generation = cfg.Generation.WithDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields of cfg from the environment.
func ApplyEnv(cfg *Config) {
	llm.ApplyEnv(&cfg.LLM)
	if v := os.Getenv("CURIOLOOP_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CURIOLOOP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CURIOLOOP_LOG_FILE"); v != "" {
		cfg.Log.Path = v
	}
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Redacted returns a copy with API keys masked, for display.
func (c Config) Redacted() Config {
	mask := func(s *string) {
		if *s == "" {
			return
		}
		if len(*s) <= 8 {
			*s = "****"
			return
		}
		*s = (*s)[:4] + "****"
	}
	mask(&c.LLM.Gemini.APIKey)
	mask(&c.LLM.OpenAI.APIKey)
	mask(&c.LLM.Anthropic.APIKey)
	mask(&c.LLM.OpenRouter.APIKey)
	return c
}
