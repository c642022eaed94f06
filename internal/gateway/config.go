package gateway

// OpConfig holds the sampling settings for one gateway operation.
type OpConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Config holds per-operation generation settings.
type Config struct {
	Diagnostic OpConfig `yaml:"diagnostic"`
	Plan       OpConfig `yaml:"plan"`
	Chapter    OpConfig `yaml:"chapter"`
	Adapt      OpConfig `yaml:"adapt"`
	Extract    OpConfig `yaml:"extract"`
}

// DefaultConfig returns sensible defaults for content generation.
// Plan evaluation runs cold so the curriculum is stable across retries.
func DefaultConfig() Config {
	return Config{
		Diagnostic: OpConfig{MaxTokens: 2048, Temperature: 0.7},
		Plan:       OpConfig{MaxTokens: 4096, Temperature: 0.2},
		Chapter:    OpConfig{MaxTokens: 8192, Temperature: 0.7},
		Adapt:      OpConfig{MaxTokens: 2048, Temperature: 0.4},
		Extract:    OpConfig{MaxTokens: 1024, Temperature: 0.2},
	}
}

// WithDefaults fills any zero MaxTokens from DefaultConfig. A zero
// temperature is a legitimate setting and is kept.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(dst *OpConfig, def OpConfig) {
		if dst.MaxTokens <= 0 {
			*dst = def
		}
	}
	fill(&c.Diagnostic, d.Diagnostic)
	fill(&c.Plan, d.Plan)
	fill(&c.Chapter, d.Chapter)
	fill(&c.Adapt, d.Adapt)
	fill(&c.Extract, d.Extract)
	return c
}
