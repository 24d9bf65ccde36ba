package session

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
)

var (
	// ErrNotInProgress is returned when an answer or advance arrives
	// outside the InProgress phase.
	ErrNotInProgress = errors.New("session is not in progress")

	// ErrAlreadyAnswered is returned for a second answer to the same question.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrNotAnswered is returned by Advance before the current question
	// has been answered.
	ErrNotAnswered = errors.New("question not answered yet")

	// ErrWrongPhase is returned when a transition is not allowed from the
	// current phase.
	ErrWrongPhase = errors.New("transition not allowed in this phase")

	// ErrNotComplete is returned by Result before the session has ended.
	ErrNotComplete = errors.New("session is not complete")
)

// QuestionSource draws questions for a session. *quiz.Selector implements it.
type QuestionSource interface {
	BatchSize(m quiz.Mode) int
	Select(topic dataset.Topic, level dataset.Level, mode quiz.Mode, count int) ([]quiz.PresentedQuestion, error)
	Next(topic dataset.Topic, mode quiz.Mode) (quiz.PresentedQuestion, error)
}

// HighScoreFunc returns the best stored score for a mode and topic.
type HighScoreFunc func(mode quiz.Mode, topic dataset.Topic) int

// Option configures a Session.
type Option func(*Session)

// WithRules overrides DefaultRules.
func WithRules(r Rules) Option {
	return func(s *Session) { s.rules = r }
}

// WithClock sets the clock used for start and end times.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithMode starts the session in TopicSelect with mode already chosen.
func WithMode(m quiz.Mode) Option {
	return func(s *Session) { s.initialMode = &m }
}

// WithHighScore sets the lookup used to detect a new high score.
func WithHighScore(fn HighScoreFunc) Option {
	return func(s *Session) { s.highScoreFn = fn }
}

// Endless draws one question at a time at a random level instead of a
// fixed batch. Classic endless rounds stop after Rules.EndlessLength.
func Endless() Option {
	return func(s *Session) { s.endless = true }
}

// Session is the quiz state machine. It is not safe for concurrent use;
// wrap it in a Controller when several goroutines drive it.
type Session struct {
	src         QuestionSource
	rules       Rules
	now         func() time.Time
	endless     bool
	fixed       []quiz.PresentedQuestion
	highScoreFn HighScoreFunc
	initialMode *quiz.Mode

	runID     string
	mode      quiz.Mode
	topic     dataset.Topic
	level     dataset.Level
	phase     Phase
	questions []quiz.PresentedQuestion
	index     int

	score         int
	streak        int
	maxStreak     int
	points        int
	answered      int
	correct       int
	lives         int
	timeRemaining int

	awaiting   bool
	feedback   *Feedback
	highScore  int
	newHigh    bool
	celebrated bool

	startedAt time.Time
	endedAt   time.Time
	epoch     uint64
}

// New creates a session in ModeSelect, or TopicSelect when WithMode is given.
func New(src QuestionSource, opts ...Option) *Session {
	s := &Session{
		src:   src,
		rules: DefaultRules(),
		now:   time.Now,
		phase: PhaseModeSelect,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.initialMode != nil {
		s.SelectMode(*s.initialMode)
	}
	return s
}

// NewFixed creates a classic session over a fixed question list, already
// in progress. The daily challenge uses it.
func NewFixed(questions []quiz.PresentedQuestion, opts ...Option) *Session {
	s := New(nil, opts...)
	s.fixed = slices.Clone(questions)
	s.SelectMode(quiz.Classic)
	if len(questions) > 0 {
		s.topic = questions[0].Topic
		s.level = questions[0].Level
	}
	s.start(slices.Clone(s.fixed))
	return s
}

// SelectMode chooses the game mode and resets every counter and
// resource. It is allowed from any phase.
func (s *Session) SelectMode(m quiz.Mode) {
	s.mode = m
	s.questions = nil
	s.index = 0
	s.reset()
	s.phase = PhaseTopicSelect
	s.epoch++
}

// SelectTopic draws the questions for topic and level and starts play.
// When no questions are available the session stays in TopicSelect and
// the error wraps quiz.ErrNoQuestionsAvailable. Endless sessions ignore
// level and pick one per question.
func (s *Session) SelectTopic(topic dataset.Topic, level dataset.Level) error {
	if s.phase != PhaseTopicSelect {
		return fmt.Errorf("select topic in %s: %w", s.phase, ErrWrongPhase)
	}
	qs, err := s.draw(topic, level)
	if err != nil {
		return err
	}
	s.topic = topic
	s.level = level
	s.start(qs)
	return nil
}

// SubmitAnswer scores choice against the current question.
func (s *Session) SubmitAnswer(choice string) (Feedback, error) {
	if s.phase != PhaseInProgress {
		return Feedback{}, ErrNotInProgress
	}
	if s.awaiting {
		return Feedback{}, ErrAlreadyAnswered
	}
	q := s.questions[s.index]
	fb := Feedback{Choice: choice, CorrectAnswer: q.CorrectAnswer}
	s.answered++
	s.awaiting = true

	if q.IsCorrect(choice) {
		fb.Correct = true
		fb.PointsEarned = q.Level.Points()
		if s.mode == quiz.TimeAttack {
			fb.PointsEarned += (s.streak / 3) * 5
			budget := s.rules.TimeBudget
			fb.TimeAdded = min(s.timeRemaining+s.rules.TimeBonus, budget) - s.timeRemaining
			s.timeRemaining += fb.TimeAdded
		}
		s.score++
		s.correct++
		s.streak++
		s.maxStreak = max(s.maxStreak, s.streak)
		s.points += fb.PointsEarned
		fb.Celebrate = s.checkCelebration()
	} else {
		s.streak = 0
		if s.mode == quiz.SuddenDeath {
			s.lives--
			fb.LifeLost = true
			if s.lives <= 0 {
				s.lives = 0
				s.complete()
			}
		}
	}

	fb.Ended = s.phase == PhaseComplete
	s.feedback = &fb
	return fb, nil
}

// checkCelebration fires once when the score first reaches the
// celebration threshold and once when it first beats the stored high score.
func (s *Session) checkCelebration() bool {
	fire := false
	if total := s.total(); total > 0 && !s.celebrated {
		threshold := int(math.Floor(s.rules.CelebrateRatio * float64(total)))
		if s.score >= threshold {
			s.celebrated = true
			fire = true
		}
	}
	if !s.newHigh && s.score > s.highScore {
		s.newHigh = true
		fire = true
	}
	return fire
}

// Advance moves past an answered question. Past the last question the
// session completes.
func (s *Session) Advance() error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if !s.awaiting {
		return ErrNotAnswered
	}
	s.awaiting = false

	if s.endless {
		if s.mode == quiz.Classic && s.answered >= s.rules.EndlessLength {
			s.complete()
			return nil
		}
		q, err := s.src.Next(s.topic, s.mode)
		if err != nil {
			s.complete()
			return err
		}
		s.questions = append(s.questions, q)
		s.index++
		return nil
	}

	s.index++
	if s.index >= len(s.questions) {
		s.complete()
	}
	return nil
}

// Tick removes one second in time attack. Reaching zero completes the
// session even mid-question. It reports whether the state changed.
func (s *Session) Tick() bool {
	if s.mode != quiz.TimeAttack || s.phase != PhaseInProgress {
		return false
	}
	s.timeRemaining--
	if s.timeRemaining <= 0 {
		s.timeRemaining = 0
		s.complete()
	}
	return true
}

// Retry restarts play with the same mode, topic and level.
func (s *Session) Retry() error {
	if s.phase != PhaseInProgress && s.phase != PhaseComplete {
		return fmt.Errorf("retry in %s: %w", s.phase, ErrWrongPhase)
	}
	s.reset()
	s.questions = nil
	s.index = 0
	qs, err := s.draw(s.topic, s.level)
	if err != nil {
		s.phase = PhaseTopicSelect
		s.epoch++
		return err
	}
	s.start(qs)
	return nil
}

// Exit abandons the session and returns to ModeSelect.
func (s *Session) Exit() {
	s.questions = nil
	s.index = 0
	s.reset()
	s.phase = PhaseModeSelect
	s.epoch++
}

// Epoch changes whenever a running timer must stop: on mode change,
// start, completion, retry and exit.
func (s *Session) Epoch() uint64 { return s.epoch }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Mode returns the chosen mode.
func (s *Session) Mode() quiz.Mode { return s.mode }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	st := State{
		SessionID:     s.runID,
		Mode:          s.mode,
		Topic:         s.topic,
		Level:         s.level,
		Endless:       s.endless,
		Phase:         s.phase,
		Index:         s.index,
		Total:         s.total(),
		Score:         s.score,
		Streak:        s.streak,
		MaxStreak:     s.maxStreak,
		Points:        s.points,
		Answered:      s.answered,
		Correct:       s.correct,
		Lives:         s.lives,
		TimeRemaining: s.timeRemaining,
		AwaitingNext:  s.awaiting,
		HighScore:     s.highScore,
		NewHighScore:  s.newHigh,
		StartedAt:     s.startedAt,
		Epoch:         s.epoch,
	}
	if s.phase == PhaseInProgress && s.index < len(s.questions) {
		q := s.questions[s.index]
		q.Options = slices.Clone(q.Options)
		st.Question = &q
		st.Level = q.Level
	}
	if s.feedback != nil {
		fb := *s.feedback
		st.LastFeedback = &fb
	}
	return st
}

// draw fetches the opening questions for a round.
func (s *Session) draw(topic dataset.Topic, level dataset.Level) ([]quiz.PresentedQuestion, error) {
	if s.fixed != nil {
		return slices.Clone(s.fixed), nil
	}
	if s.endless {
		q, err := s.src.Next(topic, s.mode)
		if err != nil {
			return nil, err
		}
		return []quiz.PresentedQuestion{q}, nil
	}
	qs, err := s.src.Select(topic, level, s.mode, s.src.BatchSize(s.mode))
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%s %s: %w", topic.DisplayName(), level, quiz.ErrNoQuestionsAvailable)
	}
	return qs, nil
}

func (s *Session) start(qs []quiz.PresentedQuestion) {
	s.reset()
	s.questions = qs
	s.index = 0
	s.runID = uuid.New().String()
	s.startedAt = s.now()
	if s.highScoreFn != nil {
		s.highScore = s.highScoreFn(s.mode, s.topic)
	}
	s.phase = PhaseInProgress
	s.epoch++
}

func (s *Session) reset() {
	s.score = 0
	s.streak = 0
	s.maxStreak = 0
	s.points = 0
	s.answered = 0
	s.correct = 0
	s.lives = 0
	s.timeRemaining = 0
	switch s.mode {
	case quiz.SuddenDeath:
		s.lives = s.rules.Lives
	case quiz.TimeAttack:
		s.timeRemaining = s.rules.TimeBudget
	}
	s.awaiting = false
	s.feedback = nil
	s.newHigh = false
	s.celebrated = false
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
}

func (s *Session) complete() {
	s.phase = PhaseComplete
	s.awaiting = false
	s.endedAt = s.now()
	s.epoch++
}

// total is the planned question count, or 0 for an unbounded round.
func (s *Session) total() int {
	switch {
	case !s.endless:
		return len(s.questions)
	case s.mode == quiz.Classic:
		return s.rules.EndlessLength
	default:
		return 0
	}
}
