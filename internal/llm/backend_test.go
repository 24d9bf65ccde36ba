package llm

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func serve(t *testing.T, status int, body any) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		requests = append(requests, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

var explainPrompt = Prompt{
	Purpose:   "explain",
	System:    "You are a math tutor.",
	User:      "Explain 2+3.",
	Schema:    pointSchema(),
	MaxTokens: 256,
}

func TestAnthropic_Complete(t *testing.T) {
	srv, reqs := serve(t, http.StatusOK, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": `{"x":2,"y":3}`}},
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
	})
	a, err := NewAnthropic("test-key", "claude-haiku", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	if a.Model() != "claude-haiku-4-5-20251001" {
		t.Errorf("Model = %s, alias not resolved", a.Model())
	}

	c, err := a.Complete(context.Background(), explainPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(c.Content) != `{"x":2,"y":3}` || c.InputTokens != 40 || c.OutputTokens != 12 {
		t.Errorf("completion = %+v", c)
	}
	if len(*reqs) != 1 || (*reqs)[0]["output_config"] == nil {
		t.Errorf("request did not carry the output schema: %v", *reqs)
	}
}

func TestAnthropic_RateLimited(t *testing.T) {
	srv, _ := serve(t, http.StatusTooManyRequests, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
	})
	a, err := NewAnthropic("test-key", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	_, err = a.Complete(context.Background(), explainPrompt)
	if kind, _ := KindOf(err); kind != KindRateLimited {
		t.Errorf("error = %v, want rate limited", err)
	}
}

func TestOpenAI_Complete(t *testing.T) {
	srv, reqs := serve(t, http.StatusOK, map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": `{"x":1,"y":1}`},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
	})
	o, err := NewOpenAI("test-key", "", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	c, err := o.Complete(context.Background(), explainPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.InputTokens != 20 || c.OutputTokens != 8 || c.Model != "gpt-4o-mini" {
		t.Errorf("completion = %+v", c)
	}
	msgs, _ := (*reqs)[0]["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("messages = %d, want system and user", len(msgs))
	}
	format, _ := (*reqs)[0]["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", format)
	}
}

func TestOpenAI_InvalidReply(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, map[string]any{
		"choices": []map[string]any{{
			"message":       map[string]any{"role": "assistant", "content": `{"x":1`},
			"finish_reason": "length",
		}},
	})
	o, err := NewOpenAI("test-key", "gpt-4o-mini", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = o.Complete(context.Background(), explainPrompt)
	if kind, _ := KindOf(err); kind != KindTruncated {
		t.Errorf("error = %v, want truncated", err)
	}
}

func TestOpenAI_ServerError(t *testing.T) {
	srv, _ := serve(t, http.StatusBadGateway, map[string]any{
		"error": map[string]any{"message": "upstream", "type": "server_error"},
	})
	o, err := NewOpenRouter("test-key", "", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if o.Name() != "openrouter" {
		t.Errorf("Name = %s", o.Name())
	}
	_, err = o.Complete(context.Background(), explainPrompt)
	if kind, _ := KindOf(err); kind != KindUnavailable {
		t.Errorf("error = %v, want unavailable", err)
	}
}

func TestGemini_Complete(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": `{"x":4,"y":5}`}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 9, "candidatesTokenCount": 6},
	})
	g, err := NewGemini(context.Background(), "test-key", "gemini-flash", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	c, err := g.Complete(context.Background(), explainPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(c.Content), `"x":4`) || c.InputTokens != 9 || c.OutputTokens != 6 {
		t.Errorf("completion = %+v", c)
	}
}

func TestMissingAPIKey(t *testing.T) {
	if _, err := NewAnthropic("", ""); err == nil {
		t.Error("NewAnthropic without key should fail")
	}
	if _, err := NewOpenAI("", "", ""); err == nil {
		t.Error("NewOpenAI without key should fail")
	}
	if _, err := NewGemini(context.Background(), "", "", ""); err == nil {
		t.Error("NewGemini without key should fail")
	}
}

func TestDiscover(t *testing.T) {
	for _, k := range wellKnownKeys {
		t.Setenv(k.env, "")
	}

	if _, ok := Discover(Config{}); ok {
		t.Error("Discover with no keys should report false")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok := Discover(Config{})
	if !ok || cfg.Provider != "gemini" || cfg.APIKey != "g-key" {
		t.Errorf("Discover = %+v, %v", cfg, ok)
	}
	if cfg.Backoff.Attempts != 3 || cfg.Timeout == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	if _, ok := Discover(Config{Provider: "openai"}); ok {
		t.Error("explicit provider must not borrow another vendor's key")
	}

	cfg, ok = Discover(Config{Provider: "openai", APIKey: "sk"})
	if !ok || cfg.APIKey != "sk" {
		t.Errorf("explicit config = %+v, %v", cfg, ok)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), Config{Provider: "llama"}, nil, nil); err == nil {
		t.Error("New with unknown provider should fail")
	}
}

func TestPriceOf(t *testing.T) {
	p, ok := PriceOf("gpt-4o-mini")
	if !ok {
		t.Fatal("gpt-4o-mini should be priced")
	}
	if got := p.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Cost = %v, want 0.75", got)
	}
	if _, ok := PriceOf("unknown"); ok {
		t.Error("unknown model priced")
	}
}
