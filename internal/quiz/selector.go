// Package quiz draws questions from the dataset and dresses them with
// multiple-choice options.
package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/distractor"
)

// ErrNoQuestionsAvailable is returned when a topic/level bucket is absent
// or empty. Callers show NoQuestionsMessage and let the player pick again.
var ErrNoQuestionsAvailable = errors.New("no questions available")

// NoQuestionsMessage is the player-facing text for ErrNoQuestionsAvailable.
const NoQuestionsMessage = "No questions available for this level. Please try another level."

// PresentedQuestion is a question ready to show: its options contain the
// correct answer exactly once among four unique strings.
type PresentedQuestion struct {
	Text          string        `json:"text"`
	CorrectAnswer string        `json:"-"`
	Options       []string      `json:"options"`
	Topic         dataset.Topic `json:"-"`
	Level         dataset.Level `json:"-"`
}

// IsCorrect reports whether choice is exactly the correct answer.
func (q PresentedQuestion) IsCorrect(choice string) bool {
	return choice == q.CorrectAnswer
}

// Config sets how many questions a session draws up front.
type Config struct {
	ClassicCount int // questions in a classic round
	BatchCount   int // questions drawn for timed and elimination rounds
}

// DefaultConfig returns the standard batch sizes.
func DefaultConfig() Config {
	return Config{ClassicCount: 5, BatchCount: 20}
}

// Selector draws questions. It is safe for concurrent use.
type Selector struct {
	ds     *dataset.Dataset
	synth  *distractor.Synthesizer
	cfg    Config
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a Selector. A nil rng uses a randomly seeded source.
func NewSelector(ds *dataset.Dataset, synth *distractor.Synthesizer, cfg Config, rng *rand.Rand, logger *zap.Logger) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ClassicCount <= 0 {
		cfg.ClassicCount = DefaultConfig().ClassicCount
	}
	if cfg.BatchCount <= 0 {
		cfg.BatchCount = DefaultConfig().BatchCount
	}
	return &Selector{ds: ds, synth: synth, cfg: cfg, rng: rng, logger: logger}
}

// Dataset returns the underlying question bank.
func (s *Selector) Dataset() *dataset.Dataset { return s.ds }

// BatchSize is the number of questions drawn for a session in mode.
func (s *Selector) BatchSize(m Mode) int {
	if m == Classic {
		return s.cfg.ClassicCount
	}
	return s.cfg.BatchCount
}

// Select shuffles the topic/level bucket and returns the first
// min(count, available) questions with options attached.
func (s *Selector) Select(topic dataset.Topic, level dataset.Level, mode Mode, count int) ([]PresentedQuestion, error) {
	recs := s.ds.Lookup(topic, level)
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s %s: %w", topic.DisplayName(), level, ErrNoQuestionsAvailable)
	}

	s.mu.Lock()
	s.rng.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })
	s.mu.Unlock()

	n := max(0, min(count, len(recs)))
	out := make([]PresentedQuestion, 0, n)
	for _, rec := range recs[:n] {
		out = append(out, s.present(s.synth, rec, topic, level, mode.Precision()))
	}
	s.logger.Debug("selected questions",
		zap.String("topic", topic.Key()),
		zap.String("level", level.Key()),
		zap.String("mode", mode.String()),
		zap.Int("count", n),
		zap.Int("available", len(recs)))
	return out, nil
}

// Next draws one question at a random non-empty level of topic.
func (s *Selector) Next(topic dataset.Topic, mode Mode) (PresentedQuestion, error) {
	levels := s.ds.Levels(topic)
	if len(levels) == 0 {
		return PresentedQuestion{}, fmt.Errorf("%s: %w", topic.DisplayName(), ErrNoQuestionsAvailable)
	}

	s.mu.Lock()
	level := levels[s.rng.IntN(len(levels))]
	recs := s.ds.Lookup(topic, level)
	rec := recs[s.rng.IntN(len(recs))]
	s.mu.Unlock()

	return s.present(s.synth, rec, topic, level, mode.Precision()), nil
}

func (s *Selector) present(synth *distractor.Synthesizer, rec dataset.QuestionRecord, topic dataset.Topic, level dataset.Level, p distractor.Precision) PresentedQuestion {
	return PresentedQuestion{
		Text:          rec.Question,
		CorrectAnswer: rec.Answer,
		Options:       synth.Synthesize(rec.Answer, topic, p),
		Topic:         topic,
		Level:         level,
	}
}
