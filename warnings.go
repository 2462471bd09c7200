package smartcatalog

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal issue found during extraction. Extraction went on,
// but the results for the page may be incomplete.
type Warning struct {
	Page    int // 1-indexed page, 0 when not tied to a page
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
