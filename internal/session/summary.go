package session

import (
	"math"
	"time"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/store"
)

// Result summarises a completed session for the results screen and storage.
type Result struct {
	SessionID    string        `json:"sessionId"`
	Mode         quiz.Mode     `json:"-"`
	Topic        dataset.Topic `json:"-"`
	Level        dataset.Level `json:"-"`
	Endless      bool          `json:"endless"`
	Score        int           `json:"score"`
	Total        int           `json:"total"`
	Answered     int           `json:"answered"`
	Correct      int           `json:"correct"`
	Accuracy     int           `json:"accuracy"` // percent, rounded
	MaxStreak    int           `json:"maxStreak"`
	Points       int           `json:"points"`
	Duration     time.Duration `json:"duration"`
	PerMinute    float64       `json:"questionsPerMinute,omitempty"` // time attack only
	Survived     int           `json:"survived,omitempty"`           // sudden death only
	NewHighScore bool          `json:"newHighScore"`
	CompletedAt  time.Time     `json:"completedAt"`
}

// Result returns the summary of a completed session.
func (s *Session) Result() (Result, error) {
	if s.phase != PhaseComplete {
		return Result{}, ErrNotComplete
	}
	total := s.total()
	if total == 0 {
		total = s.answered
	}
	r := Result{
		SessionID:    s.runID,
		Mode:         s.mode,
		Topic:        s.topic,
		Level:        s.level,
		Endless:      s.endless,
		Score:        s.score,
		Total:        total,
		Answered:     s.answered,
		Correct:      s.correct,
		MaxStreak:    s.maxStreak,
		Points:       s.points,
		Duration:     s.endedAt.Sub(s.startedAt),
		NewHighScore: s.newHigh,
		CompletedAt:  s.endedAt,
	}
	if s.answered > 0 {
		r.Accuracy = int(math.Round(float64(s.correct) / float64(s.answered) * 100))
	}
	switch s.mode {
	case quiz.TimeAttack:
		if minutes := r.Duration.Minutes(); minutes > 0 {
			r.PerMinute = math.Round(float64(s.correct)/minutes*10) / 10
		}
	case quiz.SuddenDeath:
		r.Survived = s.correct
	}
	return r, nil
}

// Record converts the result into its stored form. Endless rounds mix
// levels and store an empty level.
func (r Result) Record() store.GameResult {
	level := r.Level.Key()
	if r.Endless || r.Level == 0 {
		level = ""
	}
	return store.GameResult{
		SessionID:   r.SessionID,
		Mode:        r.Mode.String(),
		Topic:       r.Topic.Key(),
		Level:       level,
		Score:       r.Score,
		Total:       r.Total,
		Answered:    r.Answered,
		Correct:     r.Correct,
		MaxStreak:   r.MaxStreak,
		Points:      r.Points,
		Duration:    r.Duration,
		CompletedAt: r.CompletedAt,
	}
}

// AnswerEvent builds the stored record for a submitted answer. st must be
// the snapshot taken before the answer was submitted.
func AnswerEvent(st State, fb Feedback, after State, at time.Time) store.AnswerEvent {
	var text string
	if st.Question != nil {
		text = st.Question.Text
	}
	return store.AnswerEvent{
		SessionID:      st.SessionID,
		Question:       text,
		Chosen:         fb.Choice,
		CorrectAnswer:  fb.CorrectAnswer,
		Correct:        fb.Correct,
		TimeRemaining:  after.TimeRemaining,
		LivesRemaining: after.Lives,
		Timestamp:      at,
	}
}
