package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastBackoff() Backoff {
	return Backoff{Attempts: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetry_FirstAttemptSucceeds(t *testing.T) {
	s := NewScripted(Reply{Content: json.RawMessage(`{"ok":true}`)})
	c, err := WithRetry(s, fastBackoff()).Complete(context.Background(), Prompt{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(c.Content) != `{"ok":true}` {
		t.Errorf("Content = %s", c.Content)
	}
	if n := len(s.Prompts()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestRetry_UnavailableThenSuccess(t *testing.T) {
	s := NewScripted(
		Reply{Err: &Error{Kind: KindUnavailable, Err: errors.New("down")}},
		Reply{Err: &Error{Kind: KindRateLimited, RetryAfter: time.Millisecond}},
		Reply{Content: json.RawMessage(`{}`)},
	)
	if _, err := WithRetry(s, fastBackoff()).Complete(context.Background(), Prompt{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(s.Prompts()); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	down := Reply{Err: &Error{Kind: KindUnavailable}}
	s := NewScripted(down, down, down, down)
	_, err := WithRetry(s, fastBackoff()).Complete(context.Background(), Prompt{})
	if kind, _ := KindOf(err); kind != KindUnavailable {
		t.Errorf("error = %v, want unavailable", err)
	}
	if n := len(s.Prompts()); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRetry_NotRetried(t *testing.T) {
	for _, kind := range []Kind{KindTruncated, KindRejected} {
		s := NewScripted(Reply{Err: &Error{Kind: kind}}, Reply{Content: json.RawMessage(`{}`)})
		_, err := WithRetry(s, fastBackoff()).Complete(context.Background(), Prompt{})
		if got, _ := KindOf(err); got != kind {
			t.Errorf("%s: error = %v", kind, err)
		}
		if n := len(s.Prompts()); n != 1 {
			t.Errorf("%s: calls = %d, want 1", kind, n)
		}
	}
}

func TestRetry_InvalidReplyRetriedOnce(t *testing.T) {
	bad := Reply{Err: &Error{Kind: KindInvalidReply}}
	s := NewScripted(bad, bad, Reply{Content: json.RawMessage(`{}`)})
	_, err := WithRetry(s, fastBackoff()).Complete(context.Background(), Prompt{})
	if kind, _ := KindOf(err); kind != KindInvalidReply {
		t.Errorf("error = %v, want invalid reply", err)
	}
	if n := len(s.Prompts()); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	s := NewScripted(Reply{Err: &Error{Kind: KindUnavailable}}, Reply{Content: json.RawMessage(`{}`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := fastBackoff()
	b.Initial = time.Hour
	b.Max = time.Hour
	_, err := WithRetry(s, b).Complete(ctx, Prompt{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBackoffDelayIsCapped(t *testing.T) {
	b := Backoff{Attempts: 5, Initial: 100 * time.Millisecond, Max: 300 * time.Millisecond, Multiplier: 2}
	for attempt := range 5 {
		if d := b.delay(attempt); d > 360*time.Millisecond {
			t.Errorf("delay(%d) = %s exceeds cap plus jitter", attempt, d)
		}
	}
}
