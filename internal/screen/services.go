package screen

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/tutor"
)

// Services are the collaborators shared by every screen. Repositories may
// be nil, in which case nothing is stored.
type Services struct {
	Selector *quiz.Selector
	Results  store.ResultRepo
	Answers  store.AnswerRepo
	Daily    store.DailyRepo
	Tutor    *tutor.Explainer
	Rules    session.Rules
	Logger   *zap.Logger
	Now      func() time.Time
}

// WithDefaults fills the zero fields that have a sensible default.
func (s Services) WithDefaults() Services {
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Rules == (session.Rules{}) {
		s.Rules = session.DefaultRules()
	}
	return s
}

// SessionOptions returns the options every interactive session uses.
func (s Services) SessionOptions() []session.Option {
	return []session.Option{
		session.WithRules(s.Rules),
		session.WithClock(s.Now),
		session.WithHighScore(s.HighScore),
	}
}

// HighScore looks up the stored best score, or 0.
func (s Services) HighScore(m quiz.Mode, t dataset.Topic) int {
	if s.Results == nil {
		return 0
	}
	hs, err := s.Results.HighScore(context.Background(), m.String(), t.Key())
	if err != nil {
		s.Logger.Warn("high score lookup failed", zap.Error(err))
		return 0
	}
	return hs
}

// SaveAnswer stores one answer event, logging failures.
func (s Services) SaveAnswer(ev store.AnswerEvent) {
	if s.Answers == nil {
		return
	}
	if err := s.Answers.AppendAnswer(context.Background(), ev); err != nil {
		s.Logger.Warn("failed to store answer", zap.String("session", ev.SessionID), zap.Error(err))
	}
}

// SaveResult stores a finished game, logging failures.
func (s Services) SaveResult(res session.Result) {
	if s.Results == nil {
		return
	}
	if err := s.Results.SaveResult(context.Background(), res.Record()); err != nil {
		s.Logger.Error("failed to store result", zap.String("session", res.SessionID), zap.Error(err))
		return
	}
	s.Logger.Info("game stored",
		zap.String("session", res.SessionID),
		zap.String("mode", res.Mode.String()),
		zap.String("topic", res.Topic.Key()),
		zap.Int("score", res.Score),
	)
}

// LoadStats gathers the player totals. Lookups that fail are logged and
// left at zero.
func (s Services) LoadStats(ctx context.Context) Stats {
	var st Stats
	if s.Results != nil {
		rs, err := s.Results.Stats(ctx)
		if err != nil {
			s.Logger.Warn("stats lookup failed", zap.Error(err))
		}
		st.GamesPlayed = rs.Games
		st.BestStreak = rs.BestStreak
		if rs.Answered > 0 {
			st.Accuracy = int(math.Round(float64(rs.Correct) / float64(rs.Answered) * 100))
		}
	}
	if s.Daily != nil {
		now := s.Now()
		streak, err := s.Daily.DailyStreak(ctx, now)
		if err != nil {
			s.Logger.Warn("daily streak lookup failed", zap.Error(err))
		}
		st.DailyStreak = streak
		_, err = s.Daily.DailyFor(ctx, store.DateKey(now))
		switch {
		case err == nil:
			st.PlayedToday = true
		case !errors.Is(err, store.ErrNotFound):
			s.Logger.Warn("daily lookup failed", zap.Error(err))
		}
	}
	return st
}
