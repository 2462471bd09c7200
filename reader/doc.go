// Package reader turns PDF pages into positioned text spans.
//
// It is the span collector in front of the layout package: every page is
// decoded into glyphs, the glyphs are grouped into lines by baseline and
// into word spans by horizontal gap, and the result is returned as a
// [model.Page] in top-left coordinates.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("catalog.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with any io.ReaderAt.
//
// # Page Access
//
// Pages are numbered from 1:
//
//	page, err := r.Page(1)
//
// [BuildSpans] is exported so that glyphs from another source can be
// grouped the same way. Its tolerances live in [Config].
package reader
