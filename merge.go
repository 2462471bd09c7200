package smartcatalog

import (
	"sort"
	"strings"

	"github.com/tsawler/smartcatalog/model"
	"github.com/tsawler/smartcatalog/textnorm"
)

// dimensionSeparator joins distinct dimension texts of a merged entry.
const dimensionSeparator = " | "

// MergeEntries reduces per-page entries to one entry per normalized code.
// Pages are taken in the order given: the first occurrence of a code fixes
// its position in the output, its page and its bounding box, and later
// occurrences only fill fields that are still empty. Distinct dimension
// texts are unioned in order of appearance.
//
// MergeEntries must run after all pages are extracted; its result does not
// depend on the order in which the pages finished.
func MergeEntries(pages ...[]model.CatalogEntry) []model.CatalogEntry {
	index := make(map[string]int)
	var merged []model.CatalogEntry
	var dims [][]string

	for _, entries := range pages {
		for _, e := range entries {
			key := mergeKey(e.Code)
			i, ok := index[key]
			if !ok {
				index[key] = len(merged)
				merged = append(merged, e)
				dims = append(dims, appendDistinct(nil, e.DimensionText))
				continue
			}

			m := &merged[i]
			m.Category = firstNonEmpty(m.Category, e.Category)
			m.Author = firstNonEmpty(m.Author, e.Author)
			m.ShortDescription = firstNonEmpty(m.ShortDescription, e.ShortDescription)
			dims[i] = appendDistinct(dims[i], e.DimensionText)
		}
	}

	for i := range merged {
		merged[i].DimensionText = strings.Join(dims[i], dimensionSeparator)
	}
	return merged
}

// mergeKey is the normalized code, or the trimmed code when it does not
// parse as one.
func mergeKey(code string) string {
	if c, ok := textnorm.NormalizeCode(code); ok {
		return c
	}
	return strings.TrimSpace(code)
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func appendDistinct(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// ProductGroups returns the distinct non-empty categories of entries,
// sorted.
func ProductGroups(entries []model.CatalogEntry) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, e := range entries {
		c := strings.TrimSpace(e.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		groups = append(groups, c)
	}
	sort.Strings(groups)
	return groups
}
