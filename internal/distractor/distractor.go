// Package distractor synthesizes plausible wrong answers for multiple-choice
// questions by perturbing the surface syntax of the correct answer.
package distractor

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
)

// OptionCount is the number of options shown for every question.
const OptionCount = 4

// maxFillerAttempts bounds random filler draws before falling back to
// deterministic placeholders.
const maxFillerAttempts = 64

// ErrMalformedAnswer means a topic heuristic could not parse the answer.
// It never leaves this package; the answer gets placeholder distractors.
var ErrMalformedAnswer = errors.New("malformed answer format")

// Precision selects how close distractors sit to the correct answer.
type Precision int

const (
	// Wide spreads distractors further out (classic play).
	Wide Precision = iota
	// Tight keeps distractors close (timed and elimination play).
	Tight
)

// family is one parsed answer form. variants yields near-miss values;
// filler yields further random values of the same syntactic family.
type family interface {
	variants(r *rand.Rand) []string
	filler(r *rand.Rand) string
}

// Synthesizer builds option sets. It is safe for concurrent use.
type Synthesizer struct {
	mu        sync.Mutex
	rng       *rand.Rand
	logger    *zap.Logger
	validator ChoicesValidator
}

// New creates a Synthesizer. A nil rng uses a randomly seeded source and a
// nil logger discards output.
func New(rng *rand.Rand, logger *zap.Logger) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{rng: rng, logger: logger}
}

// Synthesize returns exactly four unique options, one of which is answer,
// in random order.
func (s *Synthesizer) Synthesize(answer string, topic dataset.Topic, p Precision) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fam, err := parseFamily(topic, answer, p)
	if err != nil {
		s.logger.Debug("falling back to placeholder distractors",
			zap.String("topic", topic.Key()),
			zap.String("answer", answer),
			zap.Error(err))
		fam = placeholderFamily{}
	}

	opts := newOptionSet(answer)
	for _, v := range fam.variants(s.rng) {
		if opts.full() {
			break
		}
		opts.add(v)
	}
	for i := 0; !opts.full() && i < maxFillerAttempts; i++ {
		opts.add(fam.filler(s.rng))
	}
	for _, ph := range placeholders(topic, answer) {
		if opts.full() {
			break
		}
		opts.add(ph)
	}
	for i := 1; !opts.full(); i++ {
		opts.add(fmt.Sprintf("None of these (%d)", i))
	}

	out := opts.items
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	if verr := s.validator.Validate(answer, out); verr != nil {
		s.logger.Warn("option set failed validation", zap.Error(verr))
	}
	return out
}

// parseFamily dispatches to the heuristic for topic.
func parseFamily(topic dataset.Topic, answer string, p Precision) (family, error) {
	switch topic {
	case dataset.Arithmetic:
		return parseArithmetic(answer, p)
	case dataset.Algebra:
		return parseAlgebra(answer, p)
	case dataset.Geometry:
		return parseGeometry(answer, p)
	case dataset.Statistics:
		return parseStatistics(answer, p)
	case dataset.Probability:
		return parseProbability(answer, p)
	default:
		return nil, fmt.Errorf("%w: unknown topic %d", ErrMalformedAnswer, int(topic))
	}
}

// placeholders are fixed non-numeric distractors used when a heuristic
// cannot parse the answer or cannot produce enough distinct values.
func placeholders(topic dataset.Topic, answer string) []string {
	incorrect := answer + " (incorrect)"
	switch topic {
	case dataset.Algebra:
		return []string{incorrect, "No solution", "Infinitely many solutions", "Not " + answer}
	case dataset.Geometry:
		return []string{incorrect, "Cannot be determined", "None of these", "Not " + answer}
	case dataset.Statistics:
		return []string{incorrect, "Not enough data", "None of these", "Not " + answer}
	case dataset.Probability:
		return []string{incorrect, "Cannot be determined", "None of these", "Not " + answer}
	default:
		return []string{incorrect, "Not " + answer, reverse(answer), "None of these"}
	}
}

// placeholderFamily produces nothing, leaving the option set to the
// topic placeholders.
type placeholderFamily struct{}

func (placeholderFamily) variants(*rand.Rand) []string { return nil }
func (placeholderFamily) filler(*rand.Rand) string     { return "" }

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// optionSet keeps insertion order and rejects empty or repeated options.
type optionSet struct {
	items []string
	seen  map[string]bool
}

func newOptionSet(answer string) *optionSet {
	return &optionSet{
		items: []string{answer},
		seen:  map[string]bool{answer: true},
	}
}

func (o *optionSet) add(s string) {
	if s == "" || o.seen[s] || o.full() {
		return
	}
	o.seen[s] = true
	o.items = append(o.items, s)
}

func (o *optionSet) full() bool { return len(o.items) >= OptionCount }

// uniqueVariants calls next until n distinct values other than answer are
// collected or attempts run out.
func uniqueVariants(answer string, n int, next func() string) []string {
	seen := map[string]bool{answer: true}
	var out []string
	for i := 0; len(out) < n && i < maxFillerAttempts; i++ {
		v := next()
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
