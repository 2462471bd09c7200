package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/smartcatalog"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/store"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		pages  string
		output string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "extract <catalog.pdf>",
		Short: "Extract catalog entries from a PDF catalog",
		Long: `Extract one entry per catalog code from a PDF catalog and print
them as JSON. Codes repeated across pages are merged.

With --db, the entries also enrich the matching items of a reference
database: page, product group, PDF text and dimensions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageList, err := parsePages(pages)
			if err != nil {
				return fmt.Errorf("invalid page range: %w", err)
			}

			entries, err := a.extract(cmd, args[0], pageList)
			if err != nil {
				return err
			}

			if dbPath != "" {
				if err := a.attach(cmd, dbPath, entries); err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			})
		},
	}

	cmd.Flags().StringVar(&pages, "pages", "", "pages to extract (e.g. '1-5', '1,3,5'); default all")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&dbPath, "db", "", "reference database to enrich with the entries")
	return cmd
}

// extract runs the extractor and logs its warnings.
func (a *app) extract(cmd *cobra.Command, path string, pages []int) ([]model.CatalogEntry, error) {
	log := a.log.With(zap.String("file", path))

	entries, warnings, err := smartcatalog.Open(path).
		Pages(pages...).
		WithConfig(a.cfg.Layout).
		Entries(cmd.Context())
	for _, w := range warnings {
		log.Warn("extract: page issue", zap.Int("page", w.Page), zap.String("issue", w.Message))
	}
	if err != nil {
		return nil, err
	}

	log.Info("extract: done",
		zap.Int("entries", len(entries)),
		zap.Strings("product_groups", smartcatalog.ProductGroups(entries)))
	return entries, nil
}

func (a *app) attach(cmd *cobra.Command, dbPath string, entries []model.CatalogEntry) error {
	db, err := store.Open(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.AttachEntries(cmd.Context(), entries)
	if err != nil {
		return err
	}
	a.log.Info("extract: items enriched", zap.String("db", dbPath), zap.Int("items", n))
	return nil
}

// parsePages parses a page list such as "1,3-5" into page numbers.
func parsePages(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad page %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("bad page %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("bad page range %q", part)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// writeOutput writes to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
