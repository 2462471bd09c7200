package smartcatalog

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tsawler/smartcatalog/match"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// QueryReport is the outcome of one query within a report.
type QueryReport struct {
	Brief  string       `json:"brief"`
	Result match.Result `json:"result"`

	// Correct is set only when the query carries an expected code
	Correct *bool `json:"correct,omitempty"`
}

// Summary aggregates a report. Evaluated counts the queries with an
// expected code; Accuracy is Correct/Evaluated, or 0 when nothing was
// evaluated. InAlternatives counts evaluated queries whose expected code is
// among the ranked alternatives.
type Summary struct {
	Queries        int     `json:"queries"`
	Matched        int     `json:"matched"`
	Evaluated      int     `json:"evaluated"`
	Correct        int     `json:"correct"`
	InAlternatives int     `json:"in_alternatives"`
	Accuracy       float64 `json:"accuracy"`
}

// Report is a batch of match results stamped with a run ID.
type Report struct {
	RunID     string        `json:"run_id"`
	CreatedAt time.Time     `json:"created_at"`
	Results   []QueryReport `json:"results"`
	Summary   Summary       `json:"summary"`
}

// MatchAll matches queries against the reference rows with the given
// configuration and returns the report. Results keep the order of queries.
//
// Example:
//
//	report, err := smartcatalog.MatchAll(ctx, queries, rows, match.DefaultConfig())
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("accuracy %.1f%%\n", report.Summary.Accuracy*100)
func MatchAll(ctx context.Context, queries []match.Query, rows []model.ReferenceRow, config match.Config) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}
	ref := match.NewReference(rows)
	results, err := match.NewMatcherWithConfig(config).MatchAll(ctx, queries, ref)
	if err != nil {
		return nil, err
	}
	return NewReport(results), nil
}

// NewReport builds a report over results, scoring the queries that carry
// an expected code.
func NewReport(results []match.Result) *Report {
	now := time.Now().UTC()
	report := &Report{
		RunID:     ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String(),
		CreatedAt: now,
		Results:   make([]QueryReport, len(results)),
	}

	s := &report.Summary
	s.Queries = len(results)
	for i, res := range results {
		qr := QueryReport{Brief: res.Query.Brief(), Result: res}
		if res.Found() {
			s.Matched++
		}

		if expected := res.Query.ExpectedCode; strings.TrimSpace(expected) != "" {
			s.Evaluated++
			ok := res.Found() && sameCode(res.Best.Code, expected)
			if ok {
				s.Correct++
			}
			for _, c := range res.Alternatives {
				if sameCode(c.Row.Code, expected) {
					s.InAlternatives++
					break
				}
			}
			qr.Correct = &ok
		}
		report.Results[i] = qr
	}

	if s.Evaluated > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Evaluated)
	}
	return report
}

func sameCode(a, b string) bool {
	return mergeKey(a) == mergeKey(b)
}

// WriteText renders the report as an aligned table, one line per query.
func (r *Report) WriteText(w io.Writer) error {
	s := r.Summary
	if _, err := fmt.Fprintf(w, "run %s: %d queries, %d matched", r.RunID, s.Queries, s.Matched); err != nil {
		return err
	}
	if s.Evaluated > 0 {
		if _, err := fmt.Fprintf(w, ", accuracy %.1f%% (%d/%d)", s.Accuracy*100, s.Correct, s.Evaluated); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, qr := range r.Results {
		id := qr.Result.Query.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i+1)
		}

		outcome := "no match"
		if qr.Result.Found() {
			b := qr.Result.Best
			outcome = fmt.Sprintf("%s %s (%.3f)", b.Code,
				textnorm.CollapseSpaces(b.Brand+" "+b.Type), qr.Result.BestScore)
		}
		mark := ""
		if qr.Correct != nil {
			mark = "✗"
			if *qr.Correct {
				mark = "✓"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, qr.Brief, outcome, mark)
	}
	return tw.Flush()
}
