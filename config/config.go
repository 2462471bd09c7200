// Package config loads the YAML configuration of the extractor and the
// matcher, and YAML query files.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/smartcatalog/layout"
	"github.com/tsawler/smartcatalog/match"
	"github.com/tsawler/smartcatalog/textnorm"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the configuration file layout. Keys absent from a file keep
// their defaults.
type Config struct {
	Layout layout.Config `yaml:"layout"`
	Match  match.Config  `yaml:"match"`

	// Brands are the known brand names looked up in free-text reference
	// descriptions during import and in requirement texts
	Brands []string `yaml:"brands"`

	// Requirements are the keywords read from free-text requirements
	Requirements match.Keywords `yaml:"requirements"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Layout: layout.DefaultConfig(),
		Match:  match.DefaultConfig(),

		Requirements: match.DefaultKeywords(),
	}
}

// RequirementKeywords returns the requirement keywords with the known
// brands added.
func (c *Config) RequirementKeywords() match.Keywords {
	kw := c.Requirements
	kw.Brands = append(append([]string(nil), kw.Brands...), c.Brands...)
	return kw
}

// Load reads a configuration file. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decode unmarshals data over v, rejecting unknown keys. Empty input leaves
// v untouched.
func decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate rejects values the engines cannot use
func (c *Config) Validate() error {
	l := c.Layout
	for name, v := range map[string]float64{
		"split_gap":             l.SplitGap,
		"column_tolerance":      l.ColumnTolerance,
		"row_tolerance":         l.RowTolerance,
		"cell_padding":          l.CellPadding,
		"author_window_above":   l.AuthorWindowAbove,
		"author_window_below":   l.AuthorWindowBelow,
		"author_x_tolerance":    l.AuthorXTolerance,
		"author_line_tolerance": l.AuthorLineTolerance,
		"description_line_gap":  l.DescriptionLineGap,
		"line_merge_tolerance":  l.LineMergeTolerance,
		"small_font_max":        l.SmallFontMax,
		"category_max_y":        l.CategoryMaxY,
	} {
		if v < 0 {
			return fmt.Errorf("%w: layout.%s must not be negative, got %g", ErrInvalidConfig, name, v)
		}
	}
	if l.TargetLanguageSlot < 0 {
		return fmt.Errorf("%w: layout.target_language_slot must not be negative, got %d", ErrInvalidConfig, l.TargetLanguageSlot)
	}
	if l.DescriptionMaxLines < 1 {
		return fmt.Errorf("%w: layout.description_max_lines must be at least 1, got %d", ErrInvalidConfig, l.DescriptionMaxLines)
	}
	if err := c.Match.Validate(); err != nil {
		return fmt.Errorf("%w: match: %v", ErrInvalidConfig, err)
	}
	return nil
}

// QueryFile is the layout of a query file:
//
//	queries:
//	  - id: q1
//	    brand: Aesculap
//	    type: forceps
//	    length: {op: ">=", value: 140}
type QueryFile struct {
	Queries []match.Query `yaml:"queries"`
}

// LoadQueries reads and normalizes the queries of a query file.
func LoadQueries(path string) ([]match.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var qf QueryFile
	if err := decode(data, &qf); err != nil {
		return nil, fmt.Errorf("queries %s: %w", path, err)
	}
	for i := range qf.Queries {
		if err := qf.Queries[i].Normalize(); err != nil {
			return nil, fmt.Errorf("queries %s: #%d: %w", path, i+1, err)
		}
	}
	return qf.Queries, nil
}

// LoadRequirements reads a requirement file: one free-text requirement per
// line, parsed with kw. Blank lines and lines starting with '#' are skipped.
// A tab separates the requirement from an optional reference column whose
// catalog code becomes the expected code. Queries are named after their
// line numbers.
func LoadRequirements(path string, kw match.Keywords) ([]match.Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parser := match.NewRequirementParser(kw)
	var queries []match.Query
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		text, ref, _ := strings.Cut(line, "\t")

		q := parser.Parse(text)
		q.ID = fmt.Sprintf("line %d", n)
		if code, ok := textnorm.NormalizeCode(ref); ok {
			q.ExpectedCode = code
		}
		if err := q.Normalize(); err != nil {
			return nil, fmt.Errorf("requirements %s: line %d: %w", path, n, err)
		}
		queries = append(queries, q)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("requirements %s: %w", path, err)
	}
	return queries, nil
}
