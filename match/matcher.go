package match

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/smartcatalog/model"
)

// Candidate is one scored reference row
type Candidate struct {
	Index int                `json:"index"`
	Row   model.ReferenceRow `json:"row"`
	Score float64            `json:"score"`
}

// Result is the outcome of matching one query. When Alternatives is not
// empty, Best is Alternatives[0].Row and BestScore is its score; otherwise
// Best is nil and BestScore is 0.
type Result struct {
	Query        Query               `json:"query"`
	Best         *model.ReferenceRow `json:"best,omitempty"`
	BestIndex    int                 `json:"best_index"`
	BestScore    float64             `json:"best_score"`
	Alternatives []Candidate         `json:"alternatives"`
}

// Found reports whether any row matched
func (r Result) Found() bool {
	return r.Best != nil
}

// Matcher composes the filter, the scorer and ranking
type Matcher struct {
	config Config
	filter *Filter
	scorer *Scorer
}

// NewMatcher creates a matcher with default configuration
func NewMatcher() *Matcher {
	return NewMatcherWithConfig(DefaultConfig())
}

// NewMatcherWithConfig creates a matcher with custom configuration
func NewMatcherWithConfig(config Config) *Matcher {
	if config.TopK < 1 {
		config.TopK = 1
	}
	return &Matcher{
		config: config,
		filter: NewFilter(config.FilterTolerance),
		scorer: NewScorer(config.Weights, config.ScoreTolerance),
	}
}

// Config returns the matcher configuration
func (m *Matcher) Config() Config {
	return m.config
}

// Match ranks the reference rows for q. Rows failing the brand or
// dimension constraints are removed before scoring; if none survive the
// result is empty, with no fallback to unfiltered scoring.
func (m *Matcher) Match(q Query, ref *Reference) Result {
	result := Result{Query: q, BestIndex: -1, Alternatives: []Candidate{}}

	survivors := m.filter.Apply(&q, ref)
	if len(survivors) == 0 {
		return result
	}

	f := newFeatures(&q)
	scored := make([]Candidate, len(survivors))
	for k, i := range survivors {
		e := &ref.entries[i]
		scored[k] = Candidate{Index: i, Row: e.row, Score: m.scorer.score(&q, f, e)}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if len(scored) > m.config.TopK {
		scored = scored[:m.config.TopK]
	}
	best := scored[0].Row
	result.Best = &best
	result.BestIndex = scored[0].Index
	result.BestScore = scored[0].Score
	result.Alternatives = scored
	return result
}

// MatchAll matches every query against ref concurrently. Results keep the
// order of queries. Queries are normalized in place first; an invalid
// operator aborts the whole batch.
func (m *Matcher) MatchAll(ctx context.Context, queries []Query, ref *Reference) ([]Result, error) {
	for i := range queries {
		if err := queries[i].Normalize(); err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
	}

	results := make([]Result, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	workers := m.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i := range queries {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = m.Match(queries[i], ref)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
