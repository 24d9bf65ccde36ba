package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies provider failures.
type Kind int

const (
	KindUnavailable  Kind = iota // network failure or 5xx
	KindRateLimited              // 429
	KindInvalidReply             // reply does not match the schema
	KindTruncated                // reply cut off at MaxTokens
	KindRejected                 // 4xx other than 429; not retried
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindInvalidReply:
		return "invalid reply"
	case KindTruncated:
		return "truncated"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Error is returned by every Provider for a failed request.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration   // set for KindRateLimited when known
	Content    json.RawMessage // offending reply for KindInvalidReply and KindTruncated
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, and false when err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError maps an HTTP status from a backend SDK to an *Error.
func statusError(status int, err error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Err: err}
	case status >= 500 || status == 0:
		return &Error{Kind: KindUnavailable, Err: err}
	case status >= 400:
		return &Error{Kind: KindRejected, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Err: err}
	}
}
