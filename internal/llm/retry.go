package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff configures retries of transient failures.
type Backoff struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoff returns three attempts starting at one second.
func DefaultBackoff() Backoff {
	return Backoff{Attempts: 3, Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}
}

// delay is the wait before retry number attempt (0-based), with ±20% jitter.
func (b Backoff) delay(attempt int) time.Duration {
	d := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt))
	d = min(d, float64(b.Max))
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

type retrying struct {
	Provider
	b Backoff
}

// WithRetry retries unavailable and rate-limited requests with
// exponential backoff. An invalid reply is retried once; truncated and
// rejected requests are not retried.
func WithRetry(p Provider, b Backoff) Provider {
	if b.Attempts < 1 {
		b.Attempts = 1
	}
	return &retrying{Provider: p, b: b}
}

func (r *retrying) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	var err error
	invalidSeen := false
	for attempt := range r.b.Attempts {
		var c *Completion
		c, err = r.Provider.Complete(ctx, p)
		if err == nil {
			return c, nil
		}
		if !retryable(err, &invalidSeen) || attempt == r.b.Attempts-1 {
			return nil, err
		}

		wait := r.b.delay(attempt)
		var e *Error
		if errors.As(err, &e) && e.RetryAfter > 0 {
			wait = e.RetryAfter
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, err
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case KindTruncated, KindRejected:
		return false
	case KindInvalidReply:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
		return true
	default:
		return true
	}
}
