package match

import (
	"strings"

	"github.com/tsawler/smartcatalog/dimension"
	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// entry is a reference row with everything the filter and the scorer need,
// computed once.
type entry struct {
	row      model.ReferenceRow
	brandKey string
	dims     dimension.Set

	// brandBlob is brand and type, folded; descBlob adds code and
	// dimensions
	brandBlob  string
	brandWords []string
	descBlob   string
	descWords  []string
}

// Reference is a read-only, pre-parsed reference catalog. It is safe for
// concurrent use by any number of matchers.
type Reference struct {
	entries []entry
}

// NewReference parses the dimension text of every row once and prepares the
// normalized text used for brand filtering and token scoring.
func NewReference(rows []model.ReferenceRow) *Reference {
	ref := &Reference{entries: make([]entry, len(rows))}
	for i, row := range rows {
		brandBlob := textnorm.Fold(strings.Join([]string{row.Brand, row.Type}, " "))
		descBlob := textnorm.Fold(strings.Join([]string{row.Code, row.Brand, row.Type, row.Dimensions}, " "))
		ref.entries[i] = entry{
			row:        row,
			brandKey:   textnorm.BrandKey(row.Brand),
			dims:       dimension.Parse(row.Dimensions),
			brandBlob:  brandBlob,
			brandWords: strings.Fields(brandBlob),
			descBlob:   descBlob,
			descWords:  strings.Fields(descBlob),
		}
	}
	return ref
}

// Len returns the number of reference rows
func (r *Reference) Len() int {
	return len(r.entries)
}

// Row returns row i
func (r *Reference) Row(i int) model.ReferenceRow {
	return r.entries[i].row
}

// Dimensions returns the parsed dimensions of row i
func (r *Reference) Dimensions(i int) dimension.Set {
	return r.entries[i].dims
}
