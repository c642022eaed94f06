package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/curioloop/internal/store"
)

func TestWriteEventTable(t *testing.T) {
	var buf bytes.Buffer
	writeEventTable(&buf, []store.LLMEvent{
		{ID: 2, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Purpose: "chapter", Model: "gemini-2.5-flash", Success: false, ErrorMessage: "rate limited\nretry later",
		}},
		{ID: 1, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Purpose: "plan", Model: "gemini-3-pro-preview", InputTokens: 300, OutputTokens: 200, Success: true,
		}},
	})
	out := buf.String()

	assert.Contains(t, out, "failed: rate limited")
	assert.NotContains(t, out, "retry later")
	assert.Contains(t, out, "gemini-3-pro-preview")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestWriteEventTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeEventTable(&buf, nil)
	assert.Equal(t, "No generation requests recorded.\n", buf.String())
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	writeEvent(&buf, store.LLMEvent{ID: 7, LLMRequestEventData: store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "adapt",
		InputTokens: 1_000_000, Success: true, RequestBody: `{"system":"x"}`,
	}})
	out := buf.String()

	assert.Contains(t, out, "Purpose:   adapt")
	assert.Contains(t, out, "Cost:      $0.30")
	assert.Contains(t, out, `{"system":"x"}`)
	assert.Contains(t, out, "(not captured)")
	assert.NotContains(t, out, "Error:")
}

func TestWriteUsage_MarksUnpricedModels(t *testing.T) {
	var buf bytes.Buffer
	writeUsage(&buf,
		[]store.PurposeUsage{{Purpose: "chapter", Calls: 2, InputTokens: 10, OutputTokens: 5}},
		[]store.ModelUsage{
			{Model: "gemini-2.5-flash", Calls: 2, InputTokens: 10, OutputTokens: 5},
			{Model: "homegrown-model", Calls: 1},
		},
	)
	out := buf.String()

	assert.Contains(t, out, "Total (priced models only)")
	assert.Contains(t, out, "No pricing for: homegrown-model")
}

func TestKnownPurpose(t *testing.T) {
	assert.True(t, knownPurpose("extract-context"))
	assert.False(t, knownPurpose("hint"))
}
