// Package dimension extracts normalized numeric measurements from free text
// and evaluates tolerance-aware containment against them.
//
// # Parsing
//
// [Parse] scans a text for numeric singles ("18 cm") and ranges ("50-72 mm")
// and converts them to a canonical unit per class:
//
//   - length: mm, cm, m converted to millimetres
//   - volume: ml, l converted to millilitres
//
// A second pass restricted to values prefixed by a diameter marker
// ("ø", "⌀", "phi", "dia", "diameter") fills the diameter class. Numbers
// without a unit are kept in both the length and volume classes; numbers
// followed by an unknown unit word ("kg", "in") are dropped.
//
// # Containment
//
// [Satisfies] and [SatisfiesRange] compare a query value or range against a
// parsed [Values] list with a relative tolerance. [ProximityScore] and
// [RangeScore] turn the same comparison into a graded score in [0, 1].
package dimension

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/smartcatalog/internal/patterns"
	"github.com/tsawler/smartcatalog/textnorm"
)

// DefaultTolerance is the relative tolerance used for containment checks and
// proximity decay unless configured otherwise.
const DefaultTolerance = 0.05

// eps absorbs floating point noise at tolerance boundaries.
const eps = 1e-6

// Class is a physical unit class.
type Class int

const (
	// Length values are stored in millimetres.
	Length Class = iota
	// Volume values are stored in millilitres.
	Volume
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Length:
		return "length"
	case Volume:
		return "volume"
	default:
		return "unknown"
	}
}

// unitTable maps a unit word to its class and canonical multiplier.
var unitTable = map[string]struct {
	class  Class
	factor float64
}{
	"mm": {Length, 1},
	"cm": {Length, 10},
	"m":  {Length, 1000},
	"ml": {Volume, 1},
	"l":  {Volume, 1000},
}

// Range is a closed numeric interval with Lo <= Hi.
type Range struct {
	Lo float64
	Hi float64
}

// NewRange returns the range spanning a and b in either order.
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Lo: a, Hi: b}
}

// Contains reports whether v lies inside r.
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// Values holds the singles and ranges of one unit class.
type Values struct {
	Singles []float64
	Ranges  []Range
}

// Empty reports whether no value was parsed.
func (v Values) Empty() bool {
	return len(v.Singles) == 0 && len(v.Ranges) == 0
}

// Set is the parsed numeric content of a text, per unit class.
type Set struct {
	Length   Values
	Volume   Values
	Diameter Values
}

// Empty reports whether the set holds no value in any class.
func (s Set) Empty() bool {
	return s.Length.Empty() && s.Volume.Empty() && s.Diameter.Empty()
}

// DiameterOrLength returns the diameter values, or the length values when
// the text carried no diameter marker.
func (s Set) DiameterOrLength() Values {
	if !s.Diameter.Empty() {
		return s.Diameter
	}
	return s.Length
}

// Class returns the values of the given class.
func (s Set) Class(c Class) Values {
	if c == Volume {
		return s.Volume
	}
	return s.Length
}

// Parse extracts every single and range from text. It never fails: text
// without recognizable numbers yields an empty Set.
func Parse(text string) Set {
	text = strings.ToLower(textnorm.FoldHyphens(text))

	var set Set
	scan(text, patterns.Get(patterns.DimensionRange), patterns.Get(patterns.DimensionSingle),
		func(class Class, unitless bool, single *float64, r *Range) {
			if unitless {
				add(&set.Length, single, r)
				add(&set.Volume, single, r)
				return
			}
			if class == Volume {
				add(&set.Volume, single, r)
			} else {
				add(&set.Length, single, r)
			}
		})

	scan(text, patterns.Get(patterns.DiameterRange), patterns.Get(patterns.DiameterSingle),
		func(class Class, unitless bool, single *float64, r *Range) {
			if unitless || class == Length {
				add(&set.Diameter, single, r)
			}
		})

	return set
}

func add(v *Values, single *float64, r *Range) {
	if single != nil {
		v.Singles = append(v.Singles, *single)
	}
	if r != nil {
		v.Ranges = append(v.Ranges, *r)
	}
}

type emitFunc func(class Class, unitless bool, single *float64, r *Range)

// scan runs the range pattern first, then the single pattern on whatever
// the ranges did not consume.
func scan(text string, rangeRe, singleRe *regexp.Regexp, emit emitFunc) {
	var taken [][2]int

	for _, m := range rangeRe.FindAllStringSubmatchIndex(text, -1) {
		taken = append(taken, [2]int{m[0], m[1]})
		lo, ok1 := parseNumber(group(text, m, 1))
		hi, ok2 := parseNumber(group(text, m, 2))
		if !ok1 || !ok2 {
			continue
		}
		class, factor, unitless, ok := lookupUnit(group(text, m, 3))
		if !ok {
			continue
		}
		r := NewRange(lo*factor, hi*factor)
		emit(class, unitless, nil, &r)
	}

	for _, m := range singleRe.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(m[0], m[1], taken) {
			continue
		}
		v, ok := parseNumber(group(text, m, 1))
		if !ok {
			continue
		}
		class, factor, unitless, ok := lookupUnit(group(text, m, 2))
		if !ok {
			continue
		}
		v *= factor
		emit(class, unitless, &v, nil)
	}
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

func overlapsAny(start, end int, spans [][2]int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Canonical converts v given in unit to millimetres or millilitres and
// reports the class of the unit. ok is false for units outside the
// conversion tables.
func Canonical(v float64, unit string) (value float64, class Class, ok bool) {
	u, found := unitTable[strings.ToLower(strings.TrimSpace(unit))]
	if !found {
		return 0, 0, false
	}
	return v * u.factor, u.class, true
}

// lookupUnit resolves a trailing unit. An empty unit is unitless; a unit
// outside unitTable (kg, inch, ...) has no value.
func lookupUnit(word string) (class Class, factor float64, unitless, ok bool) {
	if word == "" {
		return Length, 1, true, true
	}
	u, found := unitTable[word]
	if !found {
		return 0, 0, false, false
	}
	return u.class, u.factor, false, true
}
