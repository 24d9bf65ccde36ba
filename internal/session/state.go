package session

import (
	"time"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
)

// Phase is the current phase of a session.
type Phase int

const (
	PhaseModeSelect  Phase = iota // Waiting for a game mode
	PhaseTopicSelect              // Mode chosen, waiting for topic and level
	PhaseInProgress               // Serving questions
	PhaseComplete                 // Terminal; waiting for retry or exit
)

func (p Phase) String() string {
	switch p {
	case PhaseModeSelect:
		return "modeSelect"
	case PhaseTopicSelect:
		return "topicSelect"
	case PhaseInProgress:
		return "inProgress"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Rules holds the tunable numbers of the game.
type Rules struct {
	Lives          int     // starting lives in sudden death
	TimeBudget     int     // starting seconds in time attack
	TimeBonus      int     // seconds added per correct answer in time attack
	CelebrateRatio float64 // share of questions that triggers a celebration
	EndlessLength  int     // questions in an endless classic round
}

// DefaultRules returns the standard rules.
func DefaultRules() Rules {
	return Rules{
		Lives:          3,
		TimeBudget:     60,
		TimeBonus:      3,
		CelebrateRatio: 0.8,
		EndlessLength:  10,
	}
}

// Feedback describes the outcome of one submitted answer.
type Feedback struct {
	Choice        string `json:"choice"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	PointsEarned  int    `json:"pointsEarned"`
	TimeAdded     int    `json:"timeAdded"`
	LifeLost      bool   `json:"lifeLost"`
	Celebrate     bool   `json:"celebrate"`
	Ended         bool   `json:"ended"`
}

// State is an immutable snapshot of a session for presentation.
type State struct {
	SessionID     string                  `json:"sessionId"`
	Mode          quiz.Mode               `json:"-"`
	Topic         dataset.Topic           `json:"-"`
	Level         dataset.Level           `json:"-"`
	Endless       bool                    `json:"endless"`
	Phase         Phase                   `json:"-"`
	Question      *quiz.PresentedQuestion `json:"question,omitempty"`
	Index         int                     `json:"index"`
	Total         int                     `json:"total"`
	Score         int                     `json:"score"`
	Streak        int                     `json:"streak"`
	MaxStreak     int                     `json:"maxStreak"`
	Points        int                     `json:"points"`
	Answered      int                     `json:"answered"`
	Correct       int                     `json:"correct"`
	Lives         int                     `json:"lives"`
	TimeRemaining int                     `json:"timeRemaining"`
	AwaitingNext  bool                    `json:"awaitingNext"`
	LastFeedback  *Feedback               `json:"lastFeedback,omitempty"`
	HighScore     int                     `json:"highScore"`
	NewHighScore  bool                    `json:"newHighScore"`
	StartedAt     time.Time               `json:"startedAt"`
	Epoch         uint64                  `json:"-"`
}

// Finished reports whether the session reached its terminal phase.
func (s State) Finished() bool { return s.Phase == PhaseComplete }
