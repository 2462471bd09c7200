package dimension

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidOperator is returned by ParseOp for an unknown operator.
var ErrInvalidOperator = errors.New("invalid relational operator")

// Op is a relational operator applied as "query Op reference".
type Op string

// Supported operators.
const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
	OpGt  Op = ">"
	OpLt  Op = "<"
)

// ParseOp parses an operator. An empty string is read as "=".
func ParseOp(s string) (Op, error) {
	switch op := Op(strings.TrimSpace(s)); op {
	case "", "==":
		return OpEq, nil
	case OpEq, OpGte, OpLte, OpGt, OpLt:
		return op, nil
	case "≥", "=>":
		return OpGte, nil
	case "≤", "=<":
		return OpLte, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOperator, s)
	}
}

// holds evaluates "x op ref" with ref widened by tol in the direction that
// favours the comparison.
func holds(x float64, op Op, ref, tol float64) bool {
	switch op {
	case OpGte:
		return x >= ref*(1-tol)-eps
	case OpLte:
		return x <= ref*(1+tol)+eps
	case OpGt:
		return x > ref*(1-tol)-eps
	case OpLt:
		return x < ref*(1+tol)+eps
	default:
		return math.Abs(x-ref) <= tol*math.Max(math.Max(math.Abs(ref), math.Abs(x)), 1)+eps
	}
}

// inExpanded reports whether x lies inside r widened by tol on both ends.
func inExpanded(x float64, r Range, tol float64) bool {
	return x >= r.Lo*(1-tol)-eps && x <= r.Hi*(1+tol)+eps
}

// Satisfies reports whether the query value x, under op, is satisfied by
// any reference single or range in vals. Ranges satisfy "=" when x falls
// inside the range widened by tol, and an inequality when either endpoint
// does. Empty vals never satisfy.
//
// The query value is the left operand: Satisfies(140, OpGte, ...) accepts
// references up to about 147, not references of at least 140. A constraint
// worded "reference at least 140" is written with OpLte.
func Satisfies(x float64, op Op, vals Values, tol float64) bool {
	for _, v := range vals.Singles {
		if holds(x, op, v, tol) {
			return true
		}
	}
	for _, r := range vals.Ranges {
		if op == OpEq {
			if inExpanded(x, r, tol) {
				return true
			}
			continue
		}
		if holds(x, op, r.Lo, tol) || holds(x, op, r.Hi, tol) {
			return true
		}
	}
	return false
}

// SatisfiesRange reports whether the query range q is satisfied by vals:
// either q lies fully inside some reference range widened by tol, or both
// of its ends individually satisfy "=".
func SatisfiesRange(q Range, vals Values, tol float64) bool {
	for _, r := range vals.Ranges {
		if q.Lo >= r.Lo*(1-tol)-eps && q.Hi <= r.Hi*(1+tol)+eps {
			return true
		}
	}
	return Satisfies(q.Lo, OpEq, vals, tol) && Satisfies(q.Hi, OpEq, vals, tol)
}

// distanceToRange returns how far v lies outside r, or 0 when inside.
func distanceToRange(v float64, r Range) float64 {
	switch {
	case v < r.Lo:
		return r.Lo - v
	case v > r.Hi:
		return v - r.Hi
	default:
		return 0
	}
}

// nearest returns the distance from x to the closest single or range in
// vals, and false when vals is empty.
func nearest(x float64, vals Values) (float64, bool) {
	best, found := math.Inf(1), false
	for _, v := range vals.Singles {
		best, found = math.Min(best, math.Abs(x-v)), true
	}
	for _, r := range vals.Ranges {
		best, found = math.Min(best, distanceToRange(x, r)), true
	}
	return best, found
}

// decay maps a distance to a score falling linearly from 1 at zero to 0 at
// window.
func decay(distance, window float64) float64 {
	return math.Max(0, 1-distance/window)
}

// ProximityScore grades how close the query value x is to vals. A tolerant
// "=" match scores 1; otherwise the score decays linearly with the distance
// to the nearest reference value over a window of max(1, tol*x).
func ProximityScore(x float64, vals Values, tol float64) float64 {
	if Satisfies(x, OpEq, vals, tol) {
		return 1
	}
	d, ok := nearest(x, vals)
	if !ok {
		return 0
	}
	return decay(d, math.Max(1, tol*x))
}

// IoU returns the intersection-over-union of two ranges. Two identical
// degenerate ranges score 1.
func IoU(a, b Range) float64 {
	inter := math.Min(a.Hi, b.Hi) - math.Max(a.Lo, b.Lo)
	if inter < 0 {
		return 0
	}
	union := math.Max(a.Hi, b.Hi) - math.Min(a.Lo, b.Lo)
	if union <= 0 {
		return 1
	}
	return inter / union
}

// RangeScore grades how well vals covers the query range q. Any reference
// single inside q scores 1. Otherwise the score is the better of the best
// IoU against a reference range and an edge score that decays with the
// distance from q to the nearest reference single or range boundary.
func RangeScore(q Range, vals Values, tol float64) float64 {
	if vals.Empty() {
		return 0
	}
	for _, v := range vals.Singles {
		if q.Contains(v) {
			return 1
		}
	}

	bestIoU := 0.0
	edge := math.Inf(1)
	for _, r := range vals.Ranges {
		bestIoU = math.Max(bestIoU, IoU(q, r))
		edge = math.Min(edge, math.Min(distanceToRange(r.Lo, q), distanceToRange(r.Hi, q)))
	}
	for _, v := range vals.Singles {
		edge = math.Min(edge, distanceToRange(v, q))
	}

	window := math.Max(1, tol*math.Max(1, q.Hi-q.Lo))
	return math.Max(bestIoU, decay(edge, window))
}
