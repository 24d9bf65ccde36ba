package distractor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

var (
	fractionPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	percentPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*%$`)
	dualPattern     = regexp.MustCompile(`^\d+\s*/\s*100\s+or\s+(\d*\.\d+)$`)
	decimalPattern  = regexp.MustCompile(`^\d*\.\d+$`)
)

func parseProbability(answer string, p Precision) (family, error) {
	s := strings.TrimSpace(answer)

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		maxOffset := 2
		if p == Tight {
			maxOffset = 1
		}
		return fractionFamily{answer: s, num: num, den: den, maxOffset: maxOffset, p: p}, nil
	}
	if m := percentPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		maxOffset := 10
		if p == Tight {
			maxOffset = 5
		}
		return percentFamily{answer: s, value: v, decimals: decimalsOf(m[1]), maxOffset: maxOffset, p: p}, nil
	}
	spread := 0.1
	if p == Tight {
		spread = 0.05
	}
	if m := dualPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return chanceFamily{answer: s, value: v, decimals: 2, spread: spread, dual: true}, nil
	}
	if decimalPattern.MatchString(s) {
		v, _ := strconv.ParseFloat(s, 64)
		if v <= 1 {
			return chanceFamily{answer: s, value: v, decimals: max(decimalsOf(s), 2), spread: spread}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a probability", ErrMalformedAnswer, answer)
}

// fractionFamily covers "3/8". Distractors stay proper fractions.
type fractionFamily struct {
	answer    string
	num, den  int
	maxOffset int
	p         Precision
}

func (f fractionFamily) closer(r *rand.Rand) string {
	num, den := f.num, f.den
	switch x := r.Float64(); {
	case x < 1.0/3:
		num += signed(r, between(r, 1, f.maxOffset))
	case x < 2.0/3:
		den += signed(r, between(r, 1, 2*f.maxOffset))
	default:
		num += signed(r, between(r, 1, f.maxOffset))
		den += signed(r, between(r, 1, f.maxOffset))
	}
	if num <= 0 {
		num = 1
	}
	if den <= num {
		den = num + 1
	}
	return fmt.Sprintf("%d/%d", num, den)
}

func (f fractionFamily) variants(r *rand.Rand) []string {
	return uniqueVariants(f.answer, 3, func() string { return f.closer(r) })
}

func (f fractionFamily) filler(r *rand.Rand) string {
	maxDen := 10
	if f.p == Tight {
		maxDen = 6
	}
	den := r.IntN(maxDen) + 2
	num := r.IntN(den-1) + 1
	return fmt.Sprintf("%d/%d", num, den)
}

// percentFamily covers "30%", clamped to [0, 100].
type percentFamily struct {
	answer    string
	value     float64
	decimals  int
	maxOffset int
	p         Precision
}

func (f percentFamily) render(v float64) string {
	return formatFixed(clamp(v, 0, 100), f.decimals) + "%"
}

func (f percentFamily) variants(r *rand.Rand) []string {
	return uniqueVariants(f.answer, 3, func() string {
		return f.render(f.value + float64(signed(r, between(r, 2, f.maxOffset+1))))
	})
}

func (f percentFamily) filler(r *rand.Rand) string {
	step := 10
	if f.p == Tight {
		step = 5
	}
	return f.render(float64(r.IntN(100/step+1) * step))
}

// chanceFamily covers bare decimals "0.65" and the dual form
// "20/100 or 0.20", clamped to [0, 1].
type chanceFamily struct {
	answer   string
	value    float64
	decimals int
	spread   float64
	dual     bool
}

func (f chanceFamily) render(v float64) string {
	p := math.Pow(10, float64(f.decimals))
	v = math.Round(clamp(v, 0, 1)*p) / p
	if f.dual {
		return fmt.Sprintf("%d/100 or %s", int(math.Round(v*100)), formatFixed(v, 2))
	}
	return formatFixed(v, f.decimals)
}

func (f chanceFamily) variants(r *rand.Rand) []string {
	return uniqueVariants(f.answer, 3, func() string {
		return f.render(f.value + (r.Float64()-0.5)*f.spread)
	})
}

func (f chanceFamily) filler(r *rand.Rand) string {
	return f.render(r.Float64())
}
