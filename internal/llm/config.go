package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all provider configuration.
type Config struct {
	// Provider selects which provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single Generate call. Zero leaves calls unbounded,
	// which is the default: a stalled call keeps the caller loading.
	Timeout time.Duration `yaml:"timeout"`
}

// ClassModelConfig names one model per ModelClass. Empty reasoning or
// multimodal entries fall back to Model.
type ClassModelConfig struct {
	Model           string `yaml:"model"`
	ReasoningModel  string `yaml:"reasoning_model"`
	MultimodalModel string `yaml:"multimodal_model"`
}

func (c ClassModelConfig) resolve(aliases map[string]string) classModels {
	return classModels{
		fast:       resolveModel(c.Model, aliases),
		reasoning:  resolveModel(c.ReasoningModel, aliases),
		multimodal: resolveModel(c.MultimodalModel, aliases),
	}
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey           string `yaml:"api_key"`
	ClassModelConfig `yaml:",inline"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"` // Optional. Override for compatible APIs.
	ClassModelConfig `yaml:",inline"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey           string `yaml:"api_key"`
	ClassModelConfig `yaml:",inline"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
	ClassModelConfig `yaml:",inline"`
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retrying.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			ClassModelConfig: ClassModelConfig{
				Model:           "gemini-flash",
				ReasoningModel:  "gemini-pro",
				MultimodalModel: "gemini-flash-image",
			},
		},
		OpenAI: OpenAIConfig{
			ClassModelConfig: ClassModelConfig{
				Model:           "gpt-4o-mini",
				ReasoningModel:  "gpt-4o",
				MultimodalModel: "gpt-4o-mini",
			},
		},
		Anthropic: AnthropicConfig{
			ClassModelConfig: ClassModelConfig{
				Model:           "claude-haiku",
				ReasoningModel:  "claude-sonnet",
				MultimodalModel: "claude-haiku",
			},
		},
		OpenRouter: OpenRouterConfig{
			ClassModelConfig: ClassModelConfig{
				Model:           "google/gemini-2.5-flash",
				ReasoningModel:  "google/gemini-2.5-pro",
				MultimodalModel: "google/gemini-2.5-flash",
			},
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ApplyEnv overrides fields of cfg from CURIOLOOP_* environment variables.
func ApplyEnv(cfg *Config) {
	setEnv := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setEnv(&cfg.Provider, "CURIOLOOP_LLM_PROVIDER")

	setEnv(&cfg.Gemini.APIKey, "CURIOLOOP_GEMINI_API_KEY")
	setEnv(&cfg.Gemini.Model, "CURIOLOOP_GEMINI_MODEL")
	setEnv(&cfg.Gemini.ReasoningModel, "CURIOLOOP_GEMINI_REASONING_MODEL")
	setEnv(&cfg.Gemini.MultimodalModel, "CURIOLOOP_GEMINI_MULTIMODAL_MODEL")

	setEnv(&cfg.OpenAI.APIKey, "CURIOLOOP_OPENAI_API_KEY")
	setEnv(&cfg.OpenAI.Model, "CURIOLOOP_OPENAI_MODEL")
	setEnv(&cfg.OpenAI.ReasoningModel, "CURIOLOOP_OPENAI_REASONING_MODEL")
	setEnv(&cfg.OpenAI.BaseURL, "CURIOLOOP_OPENAI_BASE_URL")

	setEnv(&cfg.Anthropic.APIKey, "CURIOLOOP_ANTHROPIC_API_KEY")
	setEnv(&cfg.Anthropic.Model, "CURIOLOOP_ANTHROPIC_MODEL")
	setEnv(&cfg.Anthropic.ReasoningModel, "CURIOLOOP_ANTHROPIC_REASONING_MODEL")

	setEnv(&cfg.OpenRouter.APIKey, "CURIOLOOP_OPENROUTER_API_KEY")
	setEnv(&cfg.OpenRouter.Model, "CURIOLOOP_OPENROUTER_MODEL")
	setEnv(&cfg.OpenRouter.ReasoningModel, "CURIOLOOP_OPENROUTER_REASONING_MODEL")

	if v := os.Getenv("CURIOLOOP_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// Discover fills in the selected provider's key from the vendors' standard
// API key variables when none is configured. If the selected provider still
// has no key, it switches to the first provider whose standard key is set,
// probing Gemini, OpenAI, Anthropic, then OpenRouter. Returns false when
// no key was found anywhere.
func Discover(cfg *Config) bool {
	if cfg.Validate() == nil {
		return true
	}

	probes := []struct {
		provider string
		env      string
		key      *string
	}{
		{"gemini", "GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"openai", "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"anthropic", "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"openrouter", "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
	}

	for _, p := range probes {
		if p.provider != cfg.Provider {
			continue
		}
		if k := os.Getenv(p.env); k != "" {
			*p.key = k
			return true
		}
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("CURIOLOOP_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("CURIOLOOP_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("CURIOLOOP_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("CURIOLOOP_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
