package legalpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/casekit/go-legalpdf/internal/pagewriter"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Line spacing constants.
const (
	SpacingSingle  = "single"
	SpacingOneHalf = "one-half"
	SpacingDouble  = "double"
)

// Page number position constants.
const (
	NumberBottomLeft   = "bottom-left"
	NumberBottomCenter = "bottom-center"
	NumberBottomRight  = "bottom-right"
)

// Page number format constants.
const (
	FormatNumeric = "numeric"
	FormatRoman   = "roman"
	FormatAlpha   = "alpha"
)

// Font size bounds in points.
const (
	MinFontSize     = 8.0
	MaxFontSize     = 24.0
	DefaultFontSize = 12.0
)

// Margin bounds in points, applied per side.
const (
	MinMargin     = 0.0
	MaxMargin     = 200.0
	DefaultMargin = 72.0
)

// lineSpacingFactors maps the spacing names to line height multipliers.
var lineSpacingFactors = map[string]float64{
	SpacingSingle:  1.2,
	SpacingOneHalf: 1.5,
	SpacingDouble:  2.0,
}

// Margins holds per-side page margins in points.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Validate checks that every margin is within bounds.
// Returns nil if m is nil (nil means one-inch defaults).
func (m *Margins) Validate() error {
	if m == nil {
		return nil
	}
	for _, side := range []struct {
		name  string
		value float64
	}{
		{"top", m.Top},
		{"bottom", m.Bottom},
		{"left", m.Left},
		{"right", m.Right},
	} {
		if side.value < MinMargin || side.value > MaxMargin {
			return fmt.Errorf("%w: %s %.1fpt (must be between %.0f and %.0f)",
				ErrInvalidMargin, side.name, side.value, MinMargin, MaxMargin)
		}
	}
	return nil
}

// PageNumbers configures page number stamping.
type PageNumbers struct {
	Enabled  bool
	Position string // "bottom-left", "bottom-center", "bottom-right"
	Format   string // "numeric", "roman", "alpha"
	Prefix   string
	Suffix   string
}

// Validate checks position and format names.
// Returns nil if p is nil (nil means numbering on, centered, numeric).
func (p *PageNumbers) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Position) {
	case "", NumberBottomLeft, NumberBottomCenter, NumberBottomRight:
	default:
		return fmt.Errorf("%w: %q (must be bottom-left, bottom-center, or bottom-right)",
			ErrInvalidNumberPosition, p.Position)
	}
	switch strings.ToLower(p.Format) {
	case "", FormatNumeric, FormatRoman, FormatAlpha:
	default:
		return fmt.Errorf("%w: %q (must be numeric, roman, or alpha)",
			ErrInvalidNumberFormat, p.Format)
	}
	return nil
}

// Options configures document rendering. The zero value and nil both mean
// defaults: Letter page, 12pt, single spacing, one-inch margins, centered
// numeric page numbers.
type Options struct {
	PageSize    string  // "letter", "a4", "legal" ("" = letter)
	FontSize    float64 // points, 8-24 (0 = 12)
	LineSpacing string  // "single", "one-half", "double" ("" = single)
	Margins     *Margins
	PageNumbers *PageNumbers
}

// Validate checks all option fields. Returns nil if o is nil.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	switch strings.ToLower(o.PageSize) {
	case "", PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageSize, o.PageSize)
	}
	if o.FontSize != 0 && (o.FontSize < MinFontSize || o.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)",
			ErrInvalidFontSize, o.FontSize, MinFontSize, MaxFontSize)
	}
	if o.LineSpacing != "" {
		if _, ok := lineSpacingFactors[strings.ToLower(o.LineSpacing)]; !ok {
			return fmt.Errorf("%w: %q (must be single, one-half, or double)",
				ErrInvalidLineSpacing, o.LineSpacing)
		}
	}
	if err := o.Margins.Validate(); err != nil {
		return err
	}
	return o.PageNumbers.Validate()
}

// config resolves the options into a writer session config, filling defaults
// for everything unset. Safe on a nil receiver.
func (o *Options) config() pagewriter.Config {
	cfg := pagewriter.DefaultConfig()
	if o == nil {
		return cfg
	}
	if o.PageSize != "" {
		cfg.PageSize = strings.ToLower(o.PageSize)
	}
	if o.FontSize != 0 {
		cfg.FontSize = o.FontSize
	}
	if o.LineSpacing != "" {
		cfg.LineSpacing = lineSpacingFactors[strings.ToLower(o.LineSpacing)]
	}
	if o.Margins != nil {
		cfg.Margins = pagewriter.Margins{
			Top:    o.Margins.Top,
			Bottom: o.Margins.Bottom,
			Left:   o.Margins.Left,
			Right:  o.Margins.Right,
		}
	}
	if o.PageNumbers != nil {
		cfg.Numbering.Enabled = o.PageNumbers.Enabled
		if o.PageNumbers.Position != "" {
			cfg.Numbering.Position = strings.ToLower(o.PageNumbers.Position)
		}
		if o.PageNumbers.Format != "" {
			cfg.Numbering.Format = strings.ToLower(o.PageNumbers.Format)
		}
		cfg.Numbering.Prefix = o.PageNumbers.Prefix
		cfg.Numbering.Suffix = o.PageNumbers.Suffix
	}
	return cfg
}

// Request describes one export.
type Request struct {
	// Text is the document body. Markdown formatting and signature marker
	// tokens are both honored. Required.
	Text string

	// DocumentType is rendered as the document title and embedded in the
	// PDF metadata. Optional.
	DocumentType string

	// Options adjust page setup; nil means defaults.
	Options *Options

	// OutputPath is the destination file. Empty means the PDF is returned
	// in Result.Buffer instead.
	OutputPath string

	// OnProgress, when set, receives stage updates synchronously during the
	// export. The callback must return promptly.
	OnProgress func(Progress)
}

// Result is the outcome of a successful export.
type Result struct {
	// Buffer holds the PDF bytes when no OutputPath was given.
	Buffer []byte

	// FilePath echoes the OutputPath the document was written to.
	FilePath string

	PageCount           int
	SignatureBlockCount int

	// Warnings are non-fatal conditions observed during the export, such
	// as the drawing engine paginating where the layout did not predict.
	Warnings []string

	Duration time.Duration
}
