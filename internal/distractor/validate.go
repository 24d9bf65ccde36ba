package distractor

import (
	"fmt"
	"strings"
)

// ValidationError describes why an option set is unusable.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Validator, e.Message)
}

// ChoicesValidator checks that an option set has exactly four distinct,
// non-empty options and contains the answer exactly once.
type ChoicesValidator struct{}

func (v ChoicesValidator) Name() string { return "choices" }

func (v ChoicesValidator) Validate(answer string, options []string) *ValidationError {
	if len(options) != OptionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("need exactly %d options, got %d", OptionCount, len(options)),
		}
	}
	seen := make(map[string]bool, len(options))
	matches := 0
	for i, o := range options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is empty", i+1),
			}
		}
		if seen[o] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate option %q", o),
			}
		}
		seen[o] = true
		if o == answer {
			matches++
		}
	}
	if matches != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %q appears %d times", answer, matches),
		}
	}
	return nil
}
