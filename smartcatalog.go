// Package smartcatalog provides a fluent API for extracting catalog entries
// from PDF catalogs and matching structured queries against reference
// catalogs.
//
// Basic usage:
//
//	entries, warnings, err := smartcatalog.Open("catalog.pdf").Entries(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", smartcatalog.FormatWarnings(warnings))
//	}
//
// With options:
//
//	entries, _, err := smartcatalog.Open("catalog.pdf").
//	    Pages(4, 5, 6).
//	    WithConfig(cfg).
//	    Entries(ctx)
//
// For advanced use cases, the lower-level reader and layout packages are
// also available.
package smartcatalog

import (
	"github.com/tsawler/smartcatalog/reader"
)

// Open opens a PDF catalog and returns an Extractor for fluent
// configuration. The returned Extractor must be closed when done, either
// explicitly via Close() or implicitly when calling a terminal operation
// like Entries().
//
// Example:
//
//	entries, warnings, err := smartcatalog.Open("catalog.pdf").Entries(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("catalog.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	entries, warnings, err := smartcatalog.FromReader(r).Entries(ctx)
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := smartcatalog.Must(smartcatalog.Open("catalog.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustEntries is a helper that wraps a call to Entries() and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	entries := smartcatalog.MustEntries(smartcatalog.Open("catalog.pdf").Entries(ctx))
func MustEntries[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
