// Package pagewriter renders text onto paginated pages through a drawing
// engine, keeping its own account of page space so logical units are never
// split by the engine's automatic pagination.
package pagewriter

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Engine is the page-drawing capability the writer builds on. The engine
// flows and wraps text itself and may start pages on its own when text
// overflows; the writer treats that behavior as unreliable and accounts for
// page space independently.
type Engine interface {
	AddPage()
	PageNo() int
	PageCount() int

	SetFont(family, style string, size float64)
	StringWidth(s string) float64
	SplitText(s string, width float64) []string

	// MultiCell flows text into a column of the given width, wrapping at
	// lineHeight intervals and advancing the cursor below the text.
	MultiCell(width, lineHeight float64, text, align string)
	// Write continues the current text run at the cursor.
	Write(lineHeight float64, text string)
	// Text places a string at absolute coordinates without moving the cursor.
	Text(x, y float64, text string)

	Line(x1, y1, x2, y2 float64)
	SetLineWidth(w float64)
	LineWidth() float64
	SetDrawColor(r, g, b int)

	GetXY() (x, y float64)
	SetXY(x, y float64)
	SetY(y float64)
	Ln(h float64)

	SetMargins(left, top, right float64)
	SetAutoPageBreak(auto bool, bottomMargin float64)
	PageSize() (width, height float64)

	SetTitle(title string)
	SetCreator(creator string)

	Output(w io.Writer) error
	Err() error
}

// Compile-time interface check.
var _ Engine = (*fpdfEngine)(nil)

// fpdfEngine adapts gofpdf to the Engine interface.
type fpdfEngine struct {
	pdf *gofpdf.Fpdf
}

// pageSizeNames maps config page sizes to gofpdf size strings.
var pageSizeNames = map[string]string{
	"letter": "Letter",
	"a4":     "A4",
	"legal":  "Legal",
}

// NewFpdfEngine creates a gofpdf-backed engine in portrait orientation with
// point units. Unknown sizes fall back to Letter.
func NewFpdfEngine(pageSize string) Engine {
	name, ok := pageSizeNames[pageSize]
	if !ok {
		name = "Letter"
	}
	return &fpdfEngine{pdf: gofpdf.New("P", "pt", name, "")}
}

func (e *fpdfEngine) AddPage()       { e.pdf.AddPage() }
func (e *fpdfEngine) PageNo() int    { return e.pdf.PageNo() }
func (e *fpdfEngine) PageCount() int { return e.pdf.PageCount() }

func (e *fpdfEngine) SetFont(family, style string, size float64) {
	e.pdf.SetFont(family, style, size)
}

func (e *fpdfEngine) StringWidth(s string) float64 { return e.pdf.GetStringWidth(s) }

func (e *fpdfEngine) SplitText(s string, width float64) []string {
	return e.pdf.SplitText(s, width)
}

func (e *fpdfEngine) MultiCell(width, lineHeight float64, text, align string) {
	e.pdf.MultiCell(width, lineHeight, text, "", align, false)
}

func (e *fpdfEngine) Write(lineHeight float64, text string) { e.pdf.Write(lineHeight, text) }
func (e *fpdfEngine) Text(x, y float64, text string)        { e.pdf.Text(x, y, text) }

func (e *fpdfEngine) Line(x1, y1, x2, y2 float64) { e.pdf.Line(x1, y1, x2, y2) }
func (e *fpdfEngine) SetLineWidth(w float64)      { e.pdf.SetLineWidth(w) }
func (e *fpdfEngine) LineWidth() float64          { return e.pdf.GetLineWidth() }
func (e *fpdfEngine) SetDrawColor(r, g, b int)    { e.pdf.SetDrawColor(r, g, b) }

func (e *fpdfEngine) GetXY() (float64, float64) { return e.pdf.GetXY() }
func (e *fpdfEngine) SetXY(x, y float64)        { e.pdf.SetXY(x, y) }
func (e *fpdfEngine) SetY(y float64)            { e.pdf.SetY(y) }
func (e *fpdfEngine) Ln(h float64)              { e.pdf.Ln(h) }

func (e *fpdfEngine) SetMargins(left, top, right float64) { e.pdf.SetMargins(left, top, right) }

func (e *fpdfEngine) SetAutoPageBreak(auto bool, bottomMargin float64) {
	e.pdf.SetAutoPageBreak(auto, bottomMargin)
}

func (e *fpdfEngine) PageSize() (float64, float64) {
	w, h := e.pdf.GetPageSize()
	return w, h
}

func (e *fpdfEngine) SetTitle(title string)     { e.pdf.SetTitle(title, true) }
func (e *fpdfEngine) SetCreator(creator string) { e.pdf.SetCreator(creator, true) }

func (e *fpdfEngine) Output(w io.Writer) error { return e.pdf.Output(w) }

func (e *fpdfEngine) Err() error {
	if e.pdf.Err() {
		return e.pdf.Error()
	}
	return nil
}
