package quiz

import (
	"fmt"
	"strings"
	"time"

	"github.com/CuriousNebula/Math-Master/internal/distractor"
)

// Mode is a game variant.
type Mode int

const (
	Classic Mode = iota
	TimeAttack
	SuddenDeath
)

// AllModes lists every mode in menu order.
var AllModes = []Mode{Classic, TimeAttack, SuddenDeath}

// String returns the wire name, e.g. "timeAttack".
func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case TimeAttack:
		return "timeAttack"
	case SuddenDeath:
		return "suddenDeath"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DisplayName returns the menu label.
func (m Mode) DisplayName() string {
	switch m {
	case Classic:
		return "Classic"
	case TimeAttack:
		return "Time Attack"
	case SuddenDeath:
		return "Sudden Death"
	default:
		return m.String()
	}
}

// Description is the one-line rule summary shown in menus.
func (m Mode) Description() string {
	switch m {
	case Classic:
		return "Answer five questions at your own pace"
	case TimeAttack:
		return "60 seconds on the clock, +3s for every correct answer"
	case SuddenDeath:
		return "Three lives. Every miss costs one"
	default:
		return ""
	}
}

// Precision is the distractor spread used in this mode.
func (m Mode) Precision() distractor.Precision {
	if m == Classic {
		return distractor.Wide
	}
	return distractor.Tight
}

// FeedbackDelay is how long answer feedback stays on screen.
func (m Mode) FeedbackDelay() time.Duration {
	if m == TimeAttack {
		return 500 * time.Millisecond
	}
	return 1500 * time.Millisecond
}

// ParseMode accepts the wire name or display name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	norm := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
	for _, m := range AllModes {
		if norm == strings.ToLower(m.String()) {
			return m, nil
		}
	}
	if norm == "normal" {
		return Classic, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
