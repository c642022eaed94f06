package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for generative model interaction.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the model and returns a structured response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON with any markdown code fence removed.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the default model identifier this provider uses.
	ModelID() string
}

// ModelClass selects a model tier rather than a concrete model name.
// Each provider maps classes to its own configured models.
type ModelClass string

const (
	// ClassFast is a low-latency model for quizzes and chapter content.
	ClassFast ModelClass = "fast"
	// ClassReasoning is a stronger model for planning and adaptation.
	ClassReasoning ModelClass = "reasoning"
	// ClassMultimodal accepts image input.
	ClassMultimodal ModelClass = "multimodal"
)

// Request describes what to send to the model.
type Request struct {
	// Class picks the model tier. Empty means ClassFast.
	Class ModelClass

	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation history. For single-turn generation
	// (the common case here), this contains one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are sent inline alongside Content. Only meaningful for
	// ClassMultimodal requests.
	Images []Image
}

// Image is an inline binary image attachment.
type Image struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (used as schema name for OpenAI and as
	// the compiled-schema cache key). Kebab-case, e.g. "learning-plan".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. When no Schema was
	// provided, this is the raw text response.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// classModels is the per-class model table shared by the vendor providers.
type classModels struct {
	fast       string
	reasoning  string
	multimodal string
}

func (m classModels) pick(c ModelClass) string {
	switch c {
	case ClassReasoning:
		if m.reasoning != "" {
			return m.reasoning
		}
	case ClassMultimodal:
		if m.multimodal != "" {
			return m.multimodal
		}
	}
	return m.fast
}
