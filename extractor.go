package smartcatalog

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/smartcatalog/layout"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/reader"
)

// PageResult is the extraction result of one page.
type PageResult struct {
	// Number is the 1-indexed page number
	Number int

	*layout.PageResult
}

// Extractor provides a fluent interface for extracting catalog entries from
// PDF catalogs. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	reader   *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	r, err := reader.Open(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	entries, _, err := smartcatalog.Open("catalog.pdf").Pages(1, 3, 5).Entries(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// WithConfig replaces the geometric tolerances of the page pipeline.
func (e *Extractor) WithConfig(config layout.Config) *Extractor {
	newExt := e.clone()
	newExt.options.layout = config
	return newExt
}

// Workers bounds the goroutines assembling pages; 0 means GOMAXPROCS.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	if n < 0 {
		newExt.err = fmt.Errorf("workers must not be negative, got %d", n)
		return newExt
	}
	newExt.options.workers = n
	return newExt
}

// PageCount returns the number of pages in the PDF.
// Note: This does NOT close the reader, allowing further operations.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	return e.reader.PageCount(), nil
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Entries extracts the catalog entries of the configured pages and merges
// entries repeated across pages (see MergeEntries). This is a terminal
// operation that closes the underlying reader.
//
// Pages that cannot be decoded or carry no text are skipped and reported
// as warnings.
//
// Example:
//
//	entries, warnings, err := smartcatalog.Open("catalog.pdf").Entries(ctx)
func (e *Extractor) Entries(ctx context.Context) ([]model.CatalogEntry, []Warning, error) {
	results, warnings, err := e.PageResults(ctx)
	if err != nil {
		return nil, warnings, err
	}

	perPage := make([][]model.CatalogEntry, len(results))
	for i, r := range results {
		perPage[i] = r.Entries
	}
	return MergeEntries(perPage...), warnings, nil
}

// PageResults runs the page pipeline on every configured page and returns
// the unmerged per-page results in page order, including anchors, grid and
// category. This is a terminal operation that closes the underlying reader.
func (e *Extractor) PageResults(ctx context.Context) ([]PageResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pageNumbers, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	// The PDF reader is not safe for concurrent use: pages are decoded
	// sequentially, then assembled in parallel.
	var warnings []Warning
	pages := make([]*model.Page, 0, len(pageNumbers))
	for _, n := range pageNumbers {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		page, err := e.reader.Page(n)
		if err != nil {
			warnings = append(warnings, Warning{Page: n, Message: fmt.Sprintf("skipped: %v", err)})
			continue
		}
		if len(page.Spans) == 0 {
			warnings = append(warnings, Warning{Page: n, Message: "no text layer"})
		}
		pages = append(pages, page)
	}

	results, err := assemblePages(ctx, pages, e.options.layout, e.options.workers)
	if err != nil {
		return nil, warnings, err
	}
	return results, warnings, nil
}

// assemblePages runs the assembler over pages with at most workers
// goroutines. Results keep the order of pages.
func assemblePages(ctx context.Context, pages []*model.Page, config layout.Config, workers int) ([]PageResult, error) {
	assembler := layout.NewAssemblerWithConfig(config)
	results := make([]PageResult, len(pages))

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = PageResult{Number: page.Number, PageResult: assembler.Analyze(page)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolvePages validates the requested 1-indexed page numbers and returns
// them deduplicated and sorted. If no pages are specified, returns all
// pages.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount := e.reader.PageCount()

	if len(e.options.pages) == 0 {
		pageNumbers := make([]int, pageCount)
		for i := range pageNumbers {
			pageNumbers[i] = i + 1
		}
		return pageNumbers, nil
	}

	seen := make(map[int]bool)
	var pageNumbers []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pageNumbers = append(pageNumbers, p)
		}
	}

	sort.Ints(pageNumbers)
	return pageNumbers, nil
}
