package distractor

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// numericFamily perturbs a plain number (with an optional unit suffix) by
// percentage-based offsets.
type numericFamily struct {
	q quantity
	p Precision
}

func parseArithmetic(answer string, p Precision) (family, error) {
	q, ok := parseQuantity(answer)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedAnswer, answer)
	}
	return numericFamily{q: q, p: p}, nil
}

func (f numericFamily) variants(*rand.Rand) []string {
	if f.q.isInteger() {
		n := f.q.value
		pct := 0.1
		if f.p == Tight {
			pct = 0.05
		}
		small := math.Max(1, math.Floor(n*pct))
		large := math.Max(2, math.Floor(n*pct*1.5))
		return []string{
			f.q.render(n - small),
			f.q.render(n + small),
			f.q.render(n + large),
		}
	}

	mult := math.Pow(10, float64(f.q.decimals))
	base := math.Round(f.q.value * mult)
	d1, d2 := 0.03, 0.05
	if f.p == Tight {
		d1, d2 = 0.02, 0.03
	}
	small := math.Max(1, math.Round(base*d1))
	large := math.Max(small+1, math.Round(base*d2))
	return []string{
		f.q.render((base - small) / mult),
		f.q.render((base + small) / mult),
		f.q.render((base + large) / mult),
	}
}

func (f numericFamily) filler(r *rand.Rand) string {
	spread := math.Max(3, math.Abs(f.q.value)*0.25)
	if f.q.isInteger() {
		off := float64(between(r, 1, int(spread)))
		if r.IntN(2) == 0 {
			off = -off
		}
		return f.q.render(f.q.value + off)
	}
	off := (r.Float64()*2 - 1) * spread
	return f.q.render(f.q.value + off)
}
