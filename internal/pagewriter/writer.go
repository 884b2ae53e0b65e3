package pagewriter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sentinel errors for writer operations.
var (
	ErrNotStarted      = errors.New("pagewriter: write before Start")
	ErrAlreadyStarted  = errors.New("pagewriter: Start called twice")
	ErrFinalized       = errors.New("pagewriter: write after Finalize")
	ErrOpenDestination = errors.New("pagewriter: cannot open destination")
	ErrWriteOutput     = errors.New("pagewriter: cannot write output")
)

// TextOptions adjusts a single write call. Zero values mean the session
// defaults.
type TextOptions struct {
	FontSize   float64
	Style      string // "", "B", "I", "BI"
	Align      string // "L", "C", "R"
	LineHeight float64

	// Continued marks the write as a logical continuation of the previous
	// paragraph; the pre-emptive space check is skipped for continuations.
	Continued bool
}

// Segment is one styled run inside a formatted paragraph.
type Segment struct {
	Text   string
	Bold   bool
	Italic bool
}

// style returns the engine font style string for the segment.
func (s Segment) style() string {
	var b strings.Builder
	if s.Bold {
		b.WriteString("B")
	}
	if s.Italic {
		b.WriteString("I")
	}
	return b.String()
}

// fontState tracks the font currently set on the engine, so page-number
// stamping can restore it.
type fontState struct {
	family string
	style  string
	size   float64
}

// Writer renders text onto pages, bound to one destination and one Config
// for its lifetime. It keeps the session state the drawing engine does not:
// which pages carry content, which carry page numbers, and how much vertical
// space remains before the bottom margin.
//
// Writer is not safe for concurrent use; run one session per goroutine.
type Writer struct {
	eng  Engine
	dest Destination
	cfg  Config
	log  *slog.Logger

	out       io.Writer
	started   bool
	finalized bool

	pageWidth  float64
	pageHeight float64
	font       fontState

	pagesWithContent map[int]bool
	pagesNumbered    map[int]bool

	manualBreaks int
	warnings     []string
}

// New creates a Writer for one generation session.
func New(eng Engine, dest Destination, cfg Config, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{
		eng:              eng,
		dest:             dest,
		cfg:              cfg,
		log:              log,
		pagesWithContent: make(map[int]bool),
		pagesNumbered:    make(map[int]bool),
	}
}

// Start opens the destination and sets up the first page and default font.
// A destination that cannot be opened is a fatal error; nothing is retried.
func (w *Writer) Start() error {
	if w.started {
		return ErrAlreadyStarted
	}

	out, err := w.dest.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenDestination, err)
	}
	w.out = out

	w.eng.SetMargins(w.cfg.Margins.Left, w.cfg.Margins.Top, w.cfg.Margins.Right)
	// The engine keeps its own overflow pagination; divergence from our
	// accounting is detected per write and surfaced as a warning.
	w.eng.SetAutoPageBreak(true, w.cfg.Margins.Bottom)
	w.pageWidth, w.pageHeight = w.eng.PageSize()
	w.eng.AddPage()
	w.applyFont(w.cfg.Font, "", w.cfg.FontSize)

	w.started = true
	return w.eng.Err()
}

// ready guards every write operation: calling before Start or after
// Finalize is a programming error and fails fast.
func (w *Writer) ready() error {
	if !w.started {
		return ErrNotStarted
	}
	if w.finalized {
		return ErrFinalized
	}
	return nil
}

// applyFont sets the engine font and remembers it for later restoration.
func (w *Writer) applyFont(family, style string, size float64) {
	if family == "" {
		family = w.cfg.Font
	}
	if size == 0 {
		size = w.cfg.FontSize
	}
	w.font = fontState{family: family, style: style, size: size}
	w.eng.SetFont(family, style, size)
}

// DefaultLineHeight is the line height for body text in points.
func (w *Writer) DefaultLineHeight() float64 {
	return w.cfg.FontSize * w.cfg.LineSpacing
}

// ContentWidth is the usable horizontal space between margins.
func (w *Writer) ContentWidth() float64 {
	return w.pageWidth - w.cfg.Margins.Left - w.cfg.Margins.Right
}

// Remaining is the vertical space left above the bottom margin.
func (w *Writer) Remaining() float64 {
	_, y := w.eng.GetXY()
	return w.pageHeight - w.cfg.Margins.Bottom - y
}

// UsableHeight is the full content height of an empty page.
func (w *Writer) UsableHeight() float64 {
	return w.pageHeight - w.cfg.Margins.Top - w.cfg.Margins.Bottom
}

// MeasureText returns the rendered height of text at the session width,
// using the same wrapping the engine applies.
func (w *Writer) MeasureText(text string, opts TextOptions) float64 {
	prev := w.font
	w.applyFont(w.cfg.Font, opts.Style, opts.FontSize)
	lines := w.eng.SplitText(text, w.ContentWidth())
	w.applyFont(prev.family, prev.style, prev.size)
	return float64(len(lines)) * w.lineHeight(opts)
}

// lineHeight resolves the line height for a write call.
func (w *Writer) lineHeight(opts TextOptions) float64 {
	if opts.LineHeight > 0 {
		return opts.LineHeight
	}
	size := opts.FontSize
	if size == 0 {
		size = w.cfg.FontSize
	}
	return size * w.cfg.LineSpacing
}

// WriteText writes a block of text at the cursor, wrapping at the margins.
//
// Unless the call is a continuation, the text's measured height is compared
// to the remaining page space first: when it will not fit and more than the
// slack threshold remains, a manual page break pre-empts the engine's own
// pagination, which would otherwise split the text wherever the overflow
// happens to land.
func (w *Writer) WriteText(text string, opts TextOptions) error {
	if err := w.ready(); err != nil {
		return err
	}

	w.applyFont(w.cfg.Font, opts.Style, opts.FontSize)
	lh := w.lineHeight(opts)

	fits := true
	if !opts.Continued {
		h := float64(len(w.eng.SplitText(text, w.ContentWidth()))) * lh
		rem := w.Remaining()
		if h > rem {
			if rem > breakSlack {
				w.breakBefore()
			} else {
				// Too little space to be worth keeping; the engine will
				// paginate mid-text and the divergence check expects it.
				fits = false
			}
		}
	}

	if strings.TrimSpace(text) != "" {
		w.touchPage()
	}

	align := opts.Align
	if align == "" {
		align = "L"
	}
	before := w.eng.PageNo()
	w.eng.MultiCell(w.ContentWidth(), lh, text, align)
	w.observeEnginePagination(before, fits)

	return w.eng.Err()
}

// WriteFormattedText writes one paragraph made of styled segments, keeping
// them in a single text run so bold and italic spans flow together.
func (w *Writer) WriteFormattedText(segments []Segment, opts TextOptions) error {
	if err := w.ready(); err != nil {
		return err
	}
	if len(segments) == 0 {
		return nil
	}

	var plain strings.Builder
	for _, s := range segments {
		plain.WriteString(s.Text)
	}
	lh := w.lineHeight(opts)

	fits := true
	if !opts.Continued {
		w.applyFont(w.cfg.Font, "", opts.FontSize)
		h := float64(len(w.eng.SplitText(plain.String(), w.ContentWidth()))) * lh
		rem := w.Remaining()
		if h > rem {
			if rem > breakSlack {
				w.breakBefore()
			} else {
				fits = false
			}
		}
	}

	if strings.TrimSpace(plain.String()) != "" {
		w.touchPage()
	}

	before := w.eng.PageNo()
	for _, s := range segments {
		w.applyFont(w.cfg.Font, s.style(), opts.FontSize)
		w.eng.Write(lh, s.Text)
	}
	w.eng.Ln(lh)
	w.observeEnginePagination(before, fits)

	return w.eng.Err()
}

// Heading size increments over the body size, by level (1-6). Levels 1-3
// are bold.
var headingDeltas = [6]float64{6, 4, 3, 2, 1, 0}

// WriteTitle writes a centered, uppercased document title.
func (w *Writer) WriteTitle(text string) error {
	size := w.cfg.FontSize + 6
	if err := w.WriteText(strings.ToUpper(text), TextOptions{
		FontSize: size,
		Style:    "B",
		Align:    "C",
	}); err != nil {
		return err
	}
	w.eng.Ln(w.DefaultLineHeight())
	return w.eng.Err()
}

// WriteHeading writes a section heading sized by level (1-6).
func (w *Writer) WriteHeading(text string, level int) error {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	style := ""
	if level <= 3 {
		style = "B"
	}
	if err := w.WriteText(text, TextOptions{
		FontSize: w.cfg.FontSize + headingDeltas[level-1],
		Style:    style,
	}); err != nil {
		return err
	}
	w.eng.Ln(w.DefaultLineHeight() / 2)
	return w.eng.Err()
}

// WriteParagraph writes body text followed by one unit of vertical spacing.
func (w *Writer) WriteParagraph(text string) error {
	if err := w.WriteText(text, TextOptions{}); err != nil {
		return err
	}
	w.eng.Ln(w.DefaultLineHeight())
	return w.eng.Err()
}

// LineOptions adjusts a horizontal rule.
type LineOptions struct {
	Width     float64 // 0 = full content width
	Thickness float64 // 0 = 0.5pt
}

// DrawHorizontalLine draws a rule slightly below the cursor and advances
// the cursor under it. Stroke state is restored afterward.
func (w *Writer) DrawHorizontalLine(opts LineOptions) error {
	if err := w.ready(); err != nil {
		return err
	}
	w.touchPage()

	width := opts.Width
	if width == 0 {
		width = w.ContentWidth()
	}
	thickness := opts.Thickness
	if thickness == 0 {
		thickness = 0.5
	}

	_, y := w.eng.GetXY()
	y += lineOffset

	prev := w.eng.LineWidth()
	w.eng.SetLineWidth(thickness)
	w.eng.Line(w.cfg.Margins.Left, y, w.cfg.Margins.Left+width, y)
	w.eng.SetLineWidth(prev)
	w.eng.SetDrawColor(0, 0, 0)

	w.eng.SetY(y + w.DefaultLineHeight()*0.75)
	return w.eng.Err()
}

// WriteColumns renders two parallel columns row by row, keeping each row's
// cells on the same vertical span. Rows are the unit of wrapping: the next
// row starts below the taller cell of the previous one.
func (w *Writer) WriteColumns(left, right []string, opts TextOptions) error {
	if err := w.ready(); err != nil {
		return err
	}

	w.applyFont(w.cfg.Font, opts.Style, opts.FontSize)
	lh := w.lineHeight(opts)
	colWidth := (w.ContentWidth() - columnGutter) / 2
	leftX := w.cfg.Margins.Left
	rightX := leftX + colWidth + columnGutter

	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}

	for i := 0; i < rows; i++ {
		_, y := w.eng.GetXY()
		rowHeight := lh

		if i < len(left) && left[i] != "" {
			if strings.TrimSpace(left[i]) != "" {
				w.touchPage()
			}
			cellLines := len(w.eng.SplitText(left[i], colWidth))
			if h := float64(cellLines) * lh; h > rowHeight {
				rowHeight = h
			}
			w.eng.SetXY(leftX, y)
			w.eng.MultiCell(colWidth, lh, left[i], "L")
		}
		if i < len(right) && right[i] != "" {
			if strings.TrimSpace(right[i]) != "" {
				w.touchPage()
			}
			cellLines := len(w.eng.SplitText(right[i], colWidth))
			if h := float64(cellLines) * lh; h > rowHeight {
				rowHeight = h
			}
			w.eng.SetXY(rightX, y)
			w.eng.MultiCell(colWidth, lh, right[i], "L")
		}

		w.eng.SetXY(leftX, y+rowHeight)
	}

	return w.eng.Err()
}

// VerticalSpace advances the cursor by the given number of default line
// heights without writing anything.
func (w *Writer) VerticalSpace(units float64) error {
	if err := w.ready(); err != nil {
		return err
	}
	w.eng.Ln(w.DefaultLineHeight() * units)
	return w.eng.Err()
}

// NewPage forces a page break. The page counter follows the engine's own
// notion of the current page, so counts stay correct even when the engine
// advances pages internally.
func (w *Writer) NewPage() error {
	if err := w.ready(); err != nil {
		return err
	}
	w.breakBefore()
	return w.eng.Err()
}

// breakBefore starts a new page ahead of content that would not fit.
func (w *Writer) breakBefore() {
	w.eng.AddPage()
	w.manualBreaks++
}

// touchPage marks the current page as carrying content and stamps its page
// number on first contact.
func (w *Writer) touchPage() {
	page := w.eng.PageNo()
	if w.pagesWithContent[page] {
		return
	}
	w.pagesWithContent[page] = true
	if w.cfg.Numbering.Enabled {
		_ = w.AddPageNumberToCurrentPage()
	}
}

// AddPageNumberToCurrentPage stamps the formatted page number at the
// configured position. Idempotent per page; cursor and font are saved and
// restored so the stamp never displaces content coordinates.
func (w *Writer) AddPageNumberToCurrentPage() error {
	if err := w.ready(); err != nil {
		return err
	}

	page := w.eng.PageNo()
	if w.pagesNumbered[page] {
		return nil
	}
	w.pagesNumbered[page] = true

	label := FormatPageNumber(page, w.cfg.Numbering)

	x, y := w.eng.GetXY()
	prev := w.font

	family := w.cfg.Numbering.Font
	if family == "" {
		family = w.cfg.Font
	}
	size := w.cfg.Numbering.FontSize
	if size == 0 {
		size = w.cfg.FontSize - 2
	}
	w.eng.SetFont(family, "", size)

	width := w.eng.StringWidth(label)
	ny := w.pageHeight - w.cfg.Margins.Bottom/2
	var nx float64
	switch w.cfg.Numbering.Position {
	case PositionBottomLeft:
		nx = w.cfg.Margins.Left
	case PositionBottomRight:
		nx = w.pageWidth - w.cfg.Margins.Right - width
	default:
		nx = (w.pageWidth - width) / 2
	}
	w.eng.Text(nx, ny, label)

	w.eng.SetFont(prev.family, prev.style, prev.size)
	w.eng.SetXY(x, y)

	return w.eng.Err()
}

// observeEnginePagination compares the engine page counter around a write.
// Pages the engine added that our accounting did not predict are the
// measurement-divergence hazard; they are recorded as warnings, not errors.
func (w *Writer) observeEnginePagination(before int, predictedFit bool) {
	after := w.eng.PageNo()
	if after <= before {
		return
	}
	if predictedFit {
		w.warn(fmt.Sprintf(
			"drawing engine paginated on its own during a write (page %d -> %d); height measurement and engine wrapping disagree",
			before, after))
	}
}

// warn records a non-fatal condition on the session.
func (w *Writer) warn(msg string) {
	w.warnings = append(w.warnings, msg)
	w.log.Debug("pagewriter warning", "message", msg)
}

// Warnings returns the non-fatal conditions observed so far.
func (w *Writer) Warnings() []string { return w.warnings }

// CurrentPage is the engine's current 1-based page number.
func (w *Writer) CurrentPage() int { return w.eng.PageNo() }

// PageCount is the total number of pages in the session.
func (w *Writer) PageCount() int { return w.eng.PageCount() }

// ManualBreaks is the number of breaks this writer forced.
func (w *Writer) ManualBreaks() int { return w.manualBreaks }

// SetDocumentInfo sets the document metadata embedded in the output.
func (w *Writer) SetDocumentInfo(title, creator string) {
	if title != "" {
		w.eng.SetTitle(title)
	}
	if creator != "" {
		w.eng.SetCreator(creator)
	}
}

// Finalize flushes the document to the destination and closes it. It
// returns only after the underlying I/O confirms completion; on failure the
// partial output is removed.
func (w *Writer) Finalize() error {
	if !w.started {
		return ErrNotStarted
	}
	if w.finalized {
		return ErrFinalized
	}
	w.finalized = true

	if err := w.eng.Err(); err != nil {
		_ = w.dest.Abort()
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := w.eng.Output(w.out); err != nil {
		_ = w.dest.Abort()
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := w.dest.Commit(); err != nil {
		_ = w.dest.Abort()
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// Abort discards the session without committing output.
func (w *Writer) Abort() error {
	w.finalized = true
	return w.dest.Abort()
}
