// Package patterns holds the fixed set of regular expressions used by the
// extraction and matching engines. Every pattern is compiled exactly once,
// at package initialization, and looked up by [Key].
package patterns

import "regexp"

// Key names one entry of the pattern table.
type Key int

const (
	// Code matches a canonical catalog code such as 12-345-67.
	Code Key = iota
	// CodeLoose matches a catalog code with any dash variant and optional
	// spacing around the dashes; groups 1-3 hold the digit blocks.
	CodeLoose
	// URL matches URL-like tokens (www., http:, https:, ://).
	URL
	// MeasurementUnit matches a unit or diameter marker that makes a text
	// look like a measurement (cm, mm, ml, inch, diameter signs, quotes).
	MeasurementUnit
	// DimensionSingle matches a number with an optional trailing unit.
	// Only unit words count as units: "140 curved" captures no unit.
	DimensionSingle
	// DimensionRange matches "a - b" with an optional trailing unit.
	DimensionRange
	// DiameterSingle matches a number prefixed by a diameter marker.
	DiameterSingle
	// DiameterRange matches a range prefixed by a diameter marker.
	DiameterRange
	// ShapeWord matches a shape adjective of an instrument description
	// (curved, straight, angled, ...); group 1 holds the word.
	ShapeWord
	// DimensionMention matches a dimension as written in free-text
	// descriptions: "50-72 mm", "18 cm", "Ø 2.3 mm", "4x5".
	DimensionMention

	keyCount
)

const (
	number         = `(\d+(?:[.,]\d+)?)`
	dash           = `\s*[-–]\s*`
	unitWord       = `(?:\s*(inches|inch|in|mm|ml|mg|m|cm|cl|dl|kg|km|g|lbs|lb|l|oz|ft|[µμ]m|[µμ]l)\b)?`
	diameterMarker = `(?:ø|⌀|\bphi|\bdia(?:m(?:eter)?)?\.?:?)\s*`
)

var table = [keyCount]*regexp.Regexp{
	Code:            regexp.MustCompile(`\b\d{2}-\d{3}-\d{2}\b`),
	CodeLoose:       regexp.MustCompile(`\b(\d{2})\s*[-‐‑‒–—−]\s*(\d{3})\s*[-‐‑‒–—−]\s*(\d{2})\b`),
	URL:             regexp.MustCompile(`(?i)www\.|https?:|://`),
	MeasurementUnit: regexp.MustCompile(`(?i)\d\s*(?:cm|mm|ml|inch)\b|[ø⌀"“”]`),
	DimensionSingle: regexp.MustCompile(number + unitWord),
	DimensionRange:  regexp.MustCompile(number + dash + number + unitWord),
	DiameterSingle:  regexp.MustCompile(diameterMarker + number + unitWord),
	DiameterRange:   regexp.MustCompile(diameterMarker + number + dash + number + unitWord),
	ShapeWord:       regexp.MustCompile(`(?i)\b(curved|straight|angled|bayonet|left|right|delicate|fine|heavy|slender|bent|upward|downward)\b`),
	DimensionMention: regexp.MustCompile(`\b\d+(?:\.\d+)?\s*[-–]\s*\d+(?:\.\d+)?\s*(?:mm|cm|in)\b` +
		`|\b\d+(?:\.\d+)?\s*(?:mm|cm|in)\b` +
		`|[Øø]\s*\d+(?:\.\d+)?\s*mm\b` +
		`|\b\d+\s*[xX]\s*\d+\b`),
}

// Get returns the compiled pattern for k. It panics on an unknown key.
func Get(k Key) *regexp.Regexp {
	if k < 0 || k >= keyCount {
		panic("patterns: unknown key")
	}
	return table[k]
}
