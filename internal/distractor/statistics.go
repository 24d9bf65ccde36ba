package distractor

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	decimalDeltas = []float64{-0.5, 0.5, 1.0}
	integerDeltas = []float64{-1, 1, 2}
)

// statisticFamily offsets a bare number by fixed absolute deltas.
// Decimal answers are rendered with at least two decimals.
type statisticFamily struct {
	q quantity
}

func (f statisticFamily) render(v float64) string {
	if f.q.isInteger() {
		return f.q.render(v)
	}
	return formatFixed(v, max(f.q.decimals, 2))
}

func parseStatistics(answer string, _ Precision) (family, error) {
	q, ok := parseQuantity(answer)
	if !ok || strings.TrimSpace(q.suffix) != "" {
		return nil, fmt.Errorf("%w: %q is not a bare number", ErrMalformedAnswer, answer)
	}
	return statisticFamily{q: q}, nil
}

func (f statisticFamily) variants(*rand.Rand) []string {
	deltas := integerDeltas
	if !f.q.isInteger() {
		deltas = decimalDeltas
	}
	out := make([]string, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, f.render(f.q.value+d))
	}
	return out
}

func (f statisticFamily) filler(r *rand.Rand) string {
	if f.q.isInteger() {
		return f.q.render(f.q.value + float64(signed(r, between(r, 1, 5))))
	}
	return f.render(f.q.value + (r.Float64()*4 - 2))
}
