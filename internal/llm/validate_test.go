package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

const validQuestion = `{"id":"q1","type":"mcq","prompt":"2+2?","options":["3","4"],"correctIndex":1}`

func questionSchema() *Schema {
	return &Schema{
		Name:        "test-question",
		Description: "One multiple-choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":     map[string]any{"type": "string"},
				"type":   map[string]any{"type": "string", "enum": []any{"mcq"}},
				"prompt": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
				},
				"correctIndex": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"id", "prompt", "options", "correctIndex"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"id":"q1","type":"mcq","prompt":"2+2?","options":["3","4"],"correctIndex":1}`, false},
		{"optional field omitted", `{"id":"q1","prompt":"2+2?","options":["3","4"],"correctIndex":1}`, false},
		{"missing required", `{"id":"q1","prompt":"2+2?","options":["3","4"]}`, true},
		{"wrong type", `{"id":"q1","prompt":"2+2?","options":["3","4"],"correctIndex":"1"}`, true},
		{"enum violation", `{"id":"q1","type":"essay","prompt":"?","options":["a","b"],"correctIndex":0}`, true},
		{"too few options", `{"id":"q1","prompt":"?","options":["a"],"correctIndex":0}`, true},
		{"negative index", `{"id":"q1","prompt":"?","options":["a","b"],"correctIndex":-1}`, true},
		{"wrong item type", `{"id":"q1","prompt":"?","options":[1,2],"correctIndex":0}`, true},
		{"malformed", `{"id":`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var invalid *ErrInvalidResponse
			if err != nil && !errors.As(err, &invalid) {
				t.Fatalf("got %T, want *ErrInvalidResponse", err)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_KeepsRejectedContent(t *testing.T) {
	raw := json.RawMessage(`{"id":"q1"}`)
	err := validateResponse(questionSchema(), raw)
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v", err)
	}
	if string(invalid.Content) != string(raw) {
		t.Fatalf("content = %s", invalid.Content)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"inner backticks kept", "{\"code\":\"```\"}", "{\"code\":\"```\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeResponse_FencedJSONValidates(t *testing.T) {
	got, err := normalizeResponse(questionSchema(), "```json\n{\"id\":\"q1\",\"prompt\":\"?\",\"options\":[\"a\",\"b\"],\"correctIndex\":0}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"id":"q1","prompt":"?","options":["a","b"],"correctIndex":0}` {
		t.Fatalf("content = %s", got)
	}
}

func TestNormalizeResponse_TextWithoutSchema(t *testing.T) {
	got, err := normalizeResponse(nil, "  a summary of photosynthesis \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "a summary of photosynthesis" {
		t.Fatalf("content = %q", got)
	}
}
