package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	Mode  string    // filter by mode ("" = any)
	Topic string    // filter by topic ("" = any)
	From  time.Time // completed_at >= From
}

// GameResult is one finished quiz or game session.
type GameResult struct {
	ID          int64
	SessionID   string
	Mode        string
	Topic       string
	Level       string
	Score       int
	Total       int
	Answered    int
	Correct     int
	MaxStreak   int
	Points      int
	Duration    time.Duration
	CompletedAt time.Time
}

// HighScore is the best score recorded for a mode and topic.
type HighScore struct {
	Mode  string
	Topic string
	Score int
}

// ResultStats aggregates every stored game result.
type ResultStats struct {
	Games      int
	Answered   int
	Correct    int
	BestStreak int
}

// ResultRepo persists finished sessions and answers high-score queries.
type ResultRepo interface {
	// SaveResult stores a finished session.
	SaveResult(ctx context.Context, r GameResult) error

	// HighScore returns the best score for mode and topic, or 0 if none.
	HighScore(ctx context.Context, mode, topic string) (int, error)

	// HighScores returns the best score per mode and topic.
	HighScores(ctx context.Context) ([]HighScore, error)

	// RecentResults returns results newest first.
	RecentResults(ctx context.Context, opts QueryOpts) ([]GameResult, error)

	// Stats aggregates every stored result.
	Stats(ctx context.Context) (ResultStats, error)
}

// AnswerEvent records one submitted answer.
type AnswerEvent struct {
	Sequence       int64
	SessionID      string
	Question       string
	Chosen         string
	CorrectAnswer  string
	Correct        bool
	TimeRemaining  int
	LivesRemaining int
	Timestamp      time.Time
}

// AnswerRepo provides append access to answer events.
type AnswerRepo interface {
	AppendAnswer(ctx context.Context, e AnswerEvent) error
	AnswersForSession(ctx context.Context, sessionID string) ([]AnswerEvent, error)
}

// DailyResult is the stored outcome of one day's challenge.
type DailyResult struct {
	Date        string // YYYY-MM-DD
	Score       int
	Total       int
	CompletedAt time.Time
}

// DailyRepo stores one daily-challenge result per calendar day.
type DailyRepo interface {
	// SaveDaily stores the result for r.Date. It reports false when a
	// result for that date already exists; the first result is kept.
	SaveDaily(ctx context.Context, r DailyResult) (bool, error)

	// DailyFor returns the result for date, or ErrNotFound.
	DailyFor(ctx context.Context, date string) (*DailyResult, error)

	// DailyStreak counts consecutive played days ending at today
	// (or yesterday, when today is not played yet).
	DailyStreak(ctx context.Context, today time.Time) (int, error)
}

// TutorEvent captures a single explanation request to an LLM provider.
type TutorEvent struct {
	Sequence     int64
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Timestamp    time.Time
}

// TutorEventRepo provides append and query access to tutor events.
type TutorEventRepo interface {
	AppendTutorEvent(ctx context.Context, e TutorEvent) error
	QueryTutorEvents(ctx context.Context, limit int) ([]TutorEvent, error)
}
