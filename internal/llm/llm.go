// Package llm talks to hosted language models. Every backend returns JSON
// validated against the caller's schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends single-turn prompts to a model.
type Provider interface {
	// Complete sends p and returns the model's reply. When p.Schema is set
	// the reply is JSON that conforms to it.
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Name is the backend name, e.g. "anthropic".
	Name() string

	// Model is the model identifier requests are sent to.
	Model() string
}

// Prompt is a single-turn request.
type Prompt struct {
	Purpose     string // label recorded with the request, e.g. "explain"
	System      string
	User        string
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the backend default
}

// Schema is the JSON shape the reply must have.
type Schema struct {
	Name        string // kebab-case; used as the OpenAI schema name
	Description string
	Definition  map[string]any
}

// Completion is a model reply.
type Completion struct {
	Content      json.RawMessage
	InputTokens  int
	OutputTokens int
	Model        string
	Truncated    bool // generation hit MaxTokens
}
