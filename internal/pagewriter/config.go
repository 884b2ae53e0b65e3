package pagewriter

// Page number positions.
const (
	PositionBottomLeft   = "bottom-left"
	PositionBottomCenter = "bottom-center"
	PositionBottomRight  = "bottom-right"
)

// Page number formats.
const (
	FormatNumeric = "numeric"
	FormatRoman   = "roman"
	FormatAlpha   = "alpha"
)

// Layout constants in points.
const (
	// breakSlack is the leftover space below which the writer lets the
	// engine paginate instead of forcing a break: breaking a nearly-full
	// page early would strand content on it.
	breakSlack = 50.0

	// lineOffset is how far below the cursor a horizontal rule is drawn.
	lineOffset = 2.0

	// columnGutter separates side-by-side columns.
	columnGutter = 36.0
)

// Margins holds page margins in points.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Numbering configures page number stamping.
type Numbering struct {
	Enabled  bool
	Position string // bottom-left, bottom-center, bottom-right
	Format   string // numeric, roman, alpha
	Prefix   string
	Suffix   string
	Font     string  // empty = document font
	FontSize float64 // 0 = document font size minus two
}

// Config holds the immutable page setup for one writer session.
type Config struct {
	PageSize    string // letter, a4, legal
	Margins     Margins
	Font        string
	FontSize    float64
	LineSpacing float64 // line height multiplier over font size
	Numbering   Numbering
}

// DefaultConfig returns a Letter-page setup with one-inch margins and
// centered numeric page numbers.
func DefaultConfig() Config {
	return Config{
		PageSize:    "letter",
		Margins:     Margins{Top: 72, Bottom: 72, Left: 72, Right: 72},
		Font:        "Times",
		FontSize:    12,
		LineSpacing: 1.2,
		Numbering: Numbering{
			Enabled:  true,
			Position: PositionBottomCenter,
			Format:   FormatNumeric,
		},
	}
}
