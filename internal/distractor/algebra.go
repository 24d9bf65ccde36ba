package distractor

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

var (
	assignmentPattern = regexp.MustCompile(`^([A-Za-z]\w*)(\s*=\s*)(-?\d+)$`)
	plusMinusPattern  = regexp.MustCompile(`^(.*±\s*)(\d+)(.*)$`)
	factoredPattern   = regexp.MustCompile(`^(\([^()]*\d[^()]*\))+$`)
	integerPattern    = regexp.MustCompile(`\d+`)
)

func parseAlgebra(answer string, p Precision) (family, error) {
	s := strings.TrimSpace(answer)
	maxOffset := 4
	if p == Tight {
		maxOffset = 2
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "="):
		return parseAssignments(s, p, maxOffset)
	case strings.Contains(s, "±"):
		m := plusMinusPattern.FindStringSubmatch(s)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAnswer, answer)
		}
		base, _ := strconv.Atoi(m[2])
		return plusMinusFamily{prefix: m[1], base: base, suffix: m[3], p: p}, nil
	case factoredPattern.MatchString(strings.ReplaceAll(s, " ", "")):
		return factoredFamily{answer: s, maxOffset: maxOffset}, nil
	case strings.Contains(s, "="):
		a, ok := parseAssignment(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAnswer, answer)
		}
		return assignmentsFamily{answer: s, vars: []assignment{a}, sep: ", ", maxOffset: maxOffset, p: p}, nil
	}

	if q, ok := parseQuantity(s); ok {
		return numericFamily{q: q, p: p}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrMalformedAnswer, answer)
}

type assignment struct {
	name  string
	eq    string // "=" with its surrounding spaces
	value int
}

func (a assignment) with(v int) string {
	return a.name + a.eq + strconv.Itoa(v)
}

func parseAssignment(s string) (assignment, bool) {
	m := assignmentPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return assignment{}, false
	}
	v, err := strconv.Atoi(m[3])
	if err != nil {
		return assignment{}, false
	}
	return assignment{name: m[1], eq: m[2], value: v}, true
}

func parseAssignments(s string, p Precision, maxOffset int) (family, error) {
	parts := strings.Split(s, ",")
	vars := make([]assignment, 0, len(parts))
	for _, part := range parts {
		a, ok := parseAssignment(part)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAnswer, s)
		}
		vars = append(vars, a)
	}
	return assignmentsFamily{answer: s, vars: vars, sep: ", ", maxOffset: maxOffset, p: p}, nil
}

// assignmentsFamily covers "x = 7" and "x=2, y=-3".
type assignmentsFamily struct {
	answer    string
	vars      []assignment
	sep       string
	maxOffset int
	p         Precision
}

func (f assignmentsFamily) render(values func(assignment) int) string {
	parts := make([]string, len(f.vars))
	for i, a := range f.vars {
		parts[i] = a.with(values(a))
	}
	return strings.Join(parts, f.sep)
}

func (f assignmentsFamily) variants(r *rand.Rand) []string {
	return uniqueVariants(f.answer, 3, func() string {
		return f.render(func(a assignment) int {
			return a.value + signed(r, between(r, 1, f.maxOffset))
		})
	})
}

func (f assignmentsFamily) filler(r *rand.Rand) string {
	span := 20
	if f.p == Tight {
		span = 10
	}
	return f.render(func(assignment) int {
		return r.IntN(span) - span/2
	})
}

// plusMinusFamily covers "x = ±5".
type plusMinusFamily struct {
	prefix, suffix string
	base           int
	p              Precision
}

func (f plusMinusFamily) with(n int) string {
	if n < 1 {
		return ""
	}
	return f.prefix + strconv.Itoa(n) + f.suffix
}

func (f plusMinusFamily) variants(*rand.Rand) []string {
	if f.p == Tight {
		return []string{f.with(f.base + 1), f.with(f.base - 1), f.with(f.base + 2)}
	}
	return []string{f.with(f.base + 2), f.with(f.base - 2), f.with(f.base + 3)}
}

func (f plusMinusFamily) filler(r *rand.Rand) string {
	maxNum := 10
	if f.p == Tight {
		maxNum = 5
	}
	return f.with(between(r, 1, maxNum))
}

// factoredFamily covers products of binomials such as "(x+2)(x-3)".
type factoredFamily struct {
	answer    string
	maxOffset int
}

func (f factoredFamily) perturb(r *rand.Rand, maxOffset int) string {
	return integerPattern.ReplaceAllStringFunc(f.answer, func(digits string) string {
		n, _ := strconv.Atoi(digits)
		v := n + signed(r, between(r, 1, maxOffset))
		if v < 1 {
			v = n + maxOffset
		}
		return strconv.Itoa(v)
	})
}

func (f factoredFamily) variants(r *rand.Rand) []string {
	return uniqueVariants(f.answer, 3, func() string {
		return f.perturb(r, f.maxOffset)
	})
}

func (f factoredFamily) filler(r *rand.Rand) string {
	return f.perturb(r, f.maxOffset*2)
}
