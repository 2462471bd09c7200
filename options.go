package smartcatalog

import "github.com/tsawler/smartcatalog/layout"

// ExtractOptions holds configuration for catalog extraction.
type ExtractOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Geometric tolerances of the page pipeline
	layout layout.Config

	// Goroutines assembling pages; 0 means GOMAXPROCS
	workers int
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:  nil, // nil means all pages
		layout: layout.DefaultConfig(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		layout:  o.layout,
		workers: o.workers,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
