package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CuriousNebula/Math-Master/internal/llm"
)

func TestExplain(t *testing.T) {
	p := llm.NewScripted(llm.Reply{Content: json.RawMessage(`{"steps":[" Multiply 12 by 8. ","12 × 8 = 96"],"tip":"Check the times table."}`)})
	e := New(p, 0, nil)

	out, err := e.Explain(context.Background(), "What is 12 × 8?", "96", "86")
	require.NoError(t, err)
	assert.Equal(t, []string{"Multiply 12 by 8.", "12 × 8 = 96"}, out.Steps)
	assert.Equal(t, "Check the times table.", out.Tip)

	prompts := p.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "explain", prompts[0].Purpose)
	assert.Contains(t, prompts[0].User, "Correct answer: 96")
	assert.Contains(t, prompts[0].User, "Student chose: 86")
	assert.NotNil(t, prompts[0].Schema)
}

func TestExplainRejectsMalformedReply(t *testing.T) {
	p := llm.NewScripted(llm.Reply{Content: json.RawMessage(`{"steps":[]}`)})
	_, err := New(p, 0, nil).Explain(context.Background(), "q", "1", "2")
	kind, ok := llm.KindOf(err)
	assert.True(t, ok && kind == llm.KindInvalidReply, "error = %v", err)
}

func TestDisabledExplainer(t *testing.T) {
	e := New(nil, 0, nil)
	assert.False(t, e.Enabled())
	_, err := e.Explain(context.Background(), "q", "1", "2")
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestUserPromptOmitsCorrectChoice(t *testing.T) {
	got := userPrompt("What is 2+2?", "4", "4")
	assert.False(t, strings.Contains(got, "Student chose"))
}
