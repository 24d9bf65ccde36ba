package distractor

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// geometryScales are the multipliers applied to a measurement.
var geometryScales = []float64{0.9, 1.1, 1.2}

// measurementFamily scales a magnitude while keeping "π" and unit text
// such as " square units" or " cubic units" intact.
type measurementFamily struct {
	q quantity
}

func parseGeometry(answer string, _ Precision) (family, error) {
	q, ok := parseQuantity(answer)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no leading magnitude", ErrMalformedAnswer, answer)
	}
	return measurementFamily{q: q}, nil
}

func (f measurementFamily) render(v float64) string {
	if f.q.isInteger() && v == math.Trunc(v) {
		return formatFixed(v, 0) + f.q.suffix
	}
	return formatTrimmed(v, max(f.q.decimals, 2)) + f.q.suffix
}

func (f measurementFamily) variants(*rand.Rand) []string {
	out := make([]string, 0, len(geometryScales))
	for _, s := range geometryScales {
		out = append(out, f.render(f.q.value*s))
	}
	return out
}

func (f measurementFamily) filler(r *rand.Rand) string {
	v := f.q.value * (0.5 + r.Float64())
	if f.q.isInteger() {
		v = math.Round(v)
	}
	return f.render(v)
}
