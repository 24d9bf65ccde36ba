package distractor

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// quantityPattern matches a leading number followed by an optional
// non-numeric suffix such as " square units", "π units" or "%".
var quantityPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)(\s*[^\d\s/.,].*)?$`)

// quantity is a number with its display precision and trailing suffix.
type quantity struct {
	value    float64
	decimals int
	suffix   string
}

func parseQuantity(s string) (quantity, bool) {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return quantity{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return quantity{}, false
	}
	return quantity{value: v, decimals: decimalsOf(m[1]), suffix: m[2]}, true
}

// render formats v with the quantity's precision and suffix.
func (q quantity) render(v float64) string {
	return formatFixed(v, q.decimals) + q.suffix
}

func (q quantity) isInteger() bool { return q.decimals == 0 }

func decimalsOf(num string) int {
	if i := strings.IndexByte(num, '.'); i >= 0 {
		return len(num) - i - 1
	}
	return 0
}

func formatFixed(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Trim(s, "-0.") == "" {
		// Avoid "-0" and "-0.00".
		s = strings.TrimPrefix(s, "-")
	}
	return s
}

// formatTrimmed formats v with at most maxDecimals, dropping trailing zeros.
func formatTrimmed(v float64, maxDecimals int) string {
	p := math.Pow(10, float64(maxDecimals))
	return formatFixed(math.Round(v*p)/p, -1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// between returns a uniform integer in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// signed returns n or -n with equal probability.
func signed(r *rand.Rand, n int) int {
	if r.IntN(2) == 0 {
		return -n
	}
	return n
}
