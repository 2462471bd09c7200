package layout

// Config holds the geometric tolerances used by catalog page extraction.
// All distances are in page layout units.
type Config struct {
	// SplitGap is the horizontal gap between two spans of one line above
	// which a space is inserted when the line text is rebuilt (default: 1.5)
	SplitGap float64 `yaml:"split_gap"`

	// ColumnTolerance is the chaining distance for clustering anchor
	// x-centers into columns (default: 60)
	ColumnTolerance float64 `yaml:"column_tolerance"`

	// RowTolerance is the chaining distance for clustering anchor
	// y-centers into rows (default: 25)
	RowTolerance float64 `yaml:"row_tolerance"`

	// CellPadding shrinks every grid cell before spans are collected (default: 6)
	CellPadding float64 `yaml:"cell_padding"`

	// AuthorWindowAbove is how far above the anchor top an author line may
	// end (default: 55)
	AuthorWindowAbove float64 `yaml:"author_window_above"`

	// AuthorWindowBelow is how far an author line may reach below the
	// anchor top (default: 6)
	AuthorWindowBelow float64 `yaml:"author_window_below"`

	// AuthorXTolerance is the horizontal overlap tolerance between the
	// author line and the anchor (default: 6)
	AuthorXTolerance float64 `yaml:"author_x_tolerance"`

	// AuthorLineTolerance groups spans sharing the best author line (default: 3)
	AuthorLineTolerance float64 `yaml:"author_line_tolerance"`

	// AuthorFontWeight multiplies the font size in the author score (default: 2.0)
	AuthorFontWeight float64 `yaml:"author_font_weight"`

	// UppercaseBonus is added to the author score of mostly uppercase
	// spans (default: 0.8)
	UppercaseBonus float64 `yaml:"uppercase_bonus"`

	// UppercaseRatio is the share of uppercase letters above which the
	// bonus applies (default: 0.8)
	UppercaseRatio float64 `yaml:"uppercase_ratio"`

	// GapPenalty is subtracted per unit of vertical gap between the author
	// line and the anchor (default: 0.10)
	GapPenalty float64 `yaml:"gap_penalty"`

	// SmallFontMax is the largest font size of a description line (default: 7.0)
	SmallFontMax float64 `yaml:"small_font_max"`

	// DescriptionLineGap is the largest vertical step between two lines of
	// one stacked label block (default: 10)
	DescriptionLineGap float64 `yaml:"description_line_gap"`

	// LineMergeTolerance is the largest difference between top edges of
	// spans read as one line of a stacked label or title block (default: 2)
	LineMergeTolerance float64 `yaml:"line_merge_tolerance"`

	// DescriptionMaxLines caps a stacked label block (default: 4)
	DescriptionMaxLines int `yaml:"description_max_lines"`

	// CategoryMaxY is the lower limit of the page header band searched for
	// the category (default: 120)
	CategoryMaxY float64 `yaml:"category_max_y"`

	// TargetLanguageSlot selects the line of a stacked multi-language block
	// returned as description and category, 0-based (default: 1)
	TargetLanguageSlot int `yaml:"target_language_slot"`
}

// DefaultConfig returns the tolerances tuned for grid-style catalog pages.
func DefaultConfig() Config {
	return Config{
		SplitGap:            1.5,
		ColumnTolerance:     60,
		RowTolerance:        25,
		CellPadding:         6,
		AuthorWindowAbove:   55,
		AuthorWindowBelow:   6,
		AuthorXTolerance:    6,
		AuthorLineTolerance: 3,
		AuthorFontWeight:    2.0,
		UppercaseBonus:      0.8,
		UppercaseRatio:      0.8,
		GapPenalty:          0.10,
		SmallFontMax:        7.0,
		DescriptionLineGap:  10,
		LineMergeTolerance:  2,
		DescriptionMaxLines: 4,
		CategoryMaxY:        120,
		TargetLanguageSlot:  1,
	}
}

// pickSlot returns lines[slot] when it exists, else the first line, else "".
func pickSlot(lines []string, slot int) string {
	if slot >= 0 && slot < len(lines) {
		return lines[slot]
	}
	if len(lines) > 0 {
		return lines[0]
	}
	return ""
}
