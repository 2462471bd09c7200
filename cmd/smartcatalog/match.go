package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/smartcatalog"
	"github.com/tsawler/smartcatalog/config"
	"github.com/tsawler/smartcatalog/match"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/store"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		dbPath  string
		refPath string
		top     int
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "match <queries.yaml|requirements.txt|catalog.pdf>",
		Short: "Match queries against a reference catalog",
		Long: `Rank reference rows for every query and print a report.

Queries come from a YAML query file, or from a requirement file (.txt or
.tsv) holding one free-text requirement per line, optionally followed by a
tab and a reference naming the expected catalog code. Requirements are read
with the keywords of the "requirements" configuration section. Given a PDF
catalog instead, every extracted entry becomes a query expecting its own
code, which cross-checks the catalog against the reference.

The reference is a SQLite database (--db) or a reference file (--ref).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
			}
			if (dbPath == "") == (refPath == "") {
				return errors.New("exactly one of --db or --ref is required")
			}

			queries, err := a.loadQueries(cmd, args[0])
			if err != nil {
				return err
			}
			rows, err := a.loadReference(cmd, dbPath, refPath)
			if err != nil {
				return err
			}

			cfg := a.cfg.Match
			if cmd.Flags().Changed("top") {
				cfg.TopK = top
			}
			report, err := smartcatalog.MatchAll(cmd.Context(), queries, rows, cfg)
			if err != nil {
				return err
			}

			a.log.Info("match: done",
				zap.String("run_id", report.RunID),
				zap.Int("queries", report.Summary.Queries),
				zap.Int("matched", report.Summary.Matched),
				zap.Float64("accuracy", report.Summary.Accuracy))

			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				if format == "json" {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				return report.WriteText(w)
			})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite reference database")
	cmd.Flags().StringVar(&refPath, "ref", "", "reference file (.xlsx or .html)")
	cmd.Flags().IntVar(&top, "top", 3, "alternatives kept per query")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (a *app) loadQueries(cmd *cobra.Command, path string) ([]match.Query, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return a.entryQueries(cmd, path)
	case ".txt", ".tsv":
		queries, err := config.LoadRequirements(path, a.cfg.RequirementKeywords())
		if err != nil {
			return nil, err
		}
		a.log.Debug("match: requirements parsed", zap.String("file", path), zap.Int("queries", len(queries)))
		return queries, nil
	default:
		return config.LoadQueries(path)
	}
}

// entryQueries turns every entry of a PDF catalog into a query expecting
// its own code.
func (a *app) entryQueries(cmd *cobra.Command, path string) ([]match.Query, error) {
	entries, err := a.extract(cmd, path, nil)
	if err != nil {
		return nil, err
	}
	queries := make([]match.Query, len(entries))
	for i, e := range entries {
		queries[i] = match.QueryFromEntry(e)
		queries[i].ExpectedCode = e.Code
	}
	return queries, nil
}

func (a *app) loadReference(cmd *cobra.Command, dbPath, refPath string) ([]model.ReferenceRow, error) {
	if refPath != "" {
		return readReferenceRows(refPath, a.cfg.Brands)
	}

	db, err := store.Open(cmd.Context(), dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.ReferenceRows(cmd.Context())
}
