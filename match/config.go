package match

import (
	"fmt"

	"github.com/tsawler/smartcatalog/dimension"
)

// Weights are the per-field weights of the similarity score
type Weights struct {
	Brand    float64 `yaml:"brand" json:"brand"`
	Shape    float64 `yaml:"shape" json:"shape"`
	Type     float64 `yaml:"type" json:"type"`
	Code     float64 `yaml:"code" json:"code"`
	Length   float64 `yaml:"length" json:"length"`
	Height   float64 `yaml:"height" json:"height"`
	Diameter float64 `yaml:"diameter" json:"diameter"`
	Capacity float64 `yaml:"capacity" json:"capacity"`
}

// DefaultWeights returns the standard field weights
func DefaultWeights() Weights {
	return Weights{
		Brand:    2.0,
		Shape:    1.4,
		Type:     2.0,
		Code:     2.5,
		Length:   1.6,
		Height:   1.6,
		Diameter: 1.6,
		Capacity: 1.6,
	}
}

// Config holds configuration for the matcher
type Config struct {
	// Weights are the scoring weights per field
	Weights Weights `yaml:"weights"`

	// FilterTolerance is the relative tolerance of dimension filtering
	// (default: dimension.DefaultTolerance)
	FilterTolerance float64 `yaml:"filter_tolerance"`

	// ScoreTolerance is the relative tolerance of numeric proximity
	// scoring (default: dimension.DefaultTolerance)
	ScoreTolerance float64 `yaml:"score_tolerance"`

	// TopK is the number of alternatives kept per query (default: 3)
	TopK int `yaml:"top_k"`

	// Workers bounds the goroutines used by MatchAll; 0 means GOMAXPROCS
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the default matcher configuration
func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		FilterTolerance: dimension.DefaultTolerance,
		ScoreTolerance:  dimension.DefaultTolerance,
		TopK:            3,
	}
}

// Validate checks the configuration for values the matcher cannot use
func (c Config) Validate() error {
	if c.FilterTolerance < 0 || c.ScoreTolerance < 0 {
		return fmt.Errorf("tolerances must not be negative (filter %g, score %g)", c.FilterTolerance, c.ScoreTolerance)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	w := c.Weights
	for name, v := range map[string]float64{
		"brand": w.Brand, "shape": w.Shape, "type": w.Type, "code": w.Code,
		"length": w.Length, "height": w.Height, "diameter": w.Diameter, "capacity": w.Capacity,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %g", name, v)
		}
	}
	return nil
}
