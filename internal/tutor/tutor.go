// Package tutor explains missed quiz questions with a language model.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/llm"
)

// ErrDisabled is returned when no language model is configured.
var ErrDisabled = errors.New("tutor is not configured")

// Explanation is a short worked solution.
type Explanation struct {
	Steps []string `json:"steps"`
	Tip   string   `json:"tip"`
}

var explanationSchema = &llm.Schema{
	Name:        "worked-explanation",
	Description: "Step-by-step solution of a multiple-choice math question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    6,
				"description": "Numbered solution steps, one short sentence each",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One sentence on how to avoid the mistake next time",
			},
		},
		"required":             []any{"steps", "tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly math tutor. A student answered a multiple-choice question incorrectly. Explain how to reach the correct answer in at most six short steps, then give one tip that addresses the student's specific mistake. Never change the correct answer.`

// Explainer produces explanations. A nil *Explainer is valid and disabled.
type Explainer struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates an Explainer. A nil provider yields a disabled Explainer.
func New(provider llm.Provider, timeout time.Duration, logger *zap.Logger) *Explainer {
	if provider == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explainer{provider: provider, timeout: timeout, logger: logger}
}

// Enabled reports whether explanations can be requested.
func (e *Explainer) Enabled() bool { return e != nil }

// Explain asks the model how to solve question, given the answer the
// player chose.
func (e *Explainer) Explain(ctx context.Context, question, correct, chosen string) (*Explanation, error) {
	if !e.Enabled() {
		return nil, ErrDisabled
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	c, err := e.provider.Complete(ctx, llm.Prompt{
		Purpose:     "explain",
		System:      systemPrompt,
		User:        userPrompt(question, correct, chosen),
		Schema:      explanationSchema,
		MaxTokens:   600,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(c.Content, &out); err != nil {
		return nil, fmt.Errorf("explain: decode reply: %w", err)
	}
	for i, s := range out.Steps {
		out.Steps[i] = strings.TrimSpace(s)
	}
	out.Tip = strings.TrimSpace(out.Tip)
	e.logger.Debug("explanation ready", zap.Int("steps", len(out.Steps)))
	return &out, nil
}

func userPrompt(question, correct, chosen string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Correct answer: %s\n", correct)
	if chosen != "" && chosen != correct {
		fmt.Fprintf(&b, "Student chose: %s\n", chosen)
	}
	return b.String()
}
