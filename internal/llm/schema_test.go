package llm

import (
	"context"
	"encoding/json"
	"testing"
)

func pointSchema() *Schema {
	return &Schema{
		Name: "test-point",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"x":     map[string]any{"type": "integer"},
				"y":     map[string]any{"type": "integer"},
				"label": map[string]any{"type": "string", "enum": []any{"origin", "other"}},
			},
			"required":             []any{"x", "y"},
			"additionalProperties": false,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", `{"x":1,"y":2}`, true},
		{"valid with optional", `{"x":0,"y":0,"label":"origin"}`, true},
		{"missing required", `{"x":1}`, false},
		{"wrong type", `{"x":"1","y":2}`, false},
		{"bad enum", `{"x":1,"y":2,"label":"far"}`, false},
		{"extra field", `{"x":1,"y":2,"z":3}`, false},
		{"not json", `x=1`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(pointSchema(), json.RawMessage(tt.raw))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if kind, ok := KindOf(err); !ok || kind != KindInvalidReply {
					t.Fatalf("error = %v, want invalid reply", err)
				}
			}
		})
	}
}

func TestFinishReportsTruncation(t *testing.T) {
	_, err := finish(Prompt{Schema: pointSchema()}, &Completion{Content: json.RawMessage(`{"x":1,`), Truncated: true})
	if kind, _ := KindOf(err); kind != KindTruncated {
		t.Errorf("error = %v, want truncated", err)
	}

	c, err := finish(Prompt{}, &Completion{Content: json.RawMessage(`plain text`)})
	if err != nil || string(c.Content) != "plain text" {
		t.Errorf("finish without schema = %v, %v", c, err)
	}
}

func TestScriptedValidatesAgainstSchema(t *testing.T) {
	s := NewScripted(Reply{Content: json.RawMessage(`{"x":1}`)})
	_, err := s.Complete(context.Background(), Prompt{Schema: pointSchema()})
	if kind, _ := KindOf(err); kind != KindInvalidReply {
		t.Errorf("error = %v, want invalid reply", err)
	}
	if _, err := s.Complete(context.Background(), Prompt{}); err == nil {
		t.Error("exhausted script should fail")
	}
}
