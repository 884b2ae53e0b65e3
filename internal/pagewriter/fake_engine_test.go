package pagewriter

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// fakeEngine simulates the drawing engine with simple fixed-width font
// metrics so writer behavior can be tested without producing a PDF.
//
// wrapPenalty widens the engine's internal idea of text by a factor,
// modelling the real-world disagreement between height measurement and the
// engine's own wrapping.
type fakeEngine struct {
	pageW, pageH float64
	left, top    float64
	right        float64
	bottom       float64
	autoBreak    bool

	x, y      float64
	pageNo    int
	pageCount int

	family string
	style  string
	size   float64

	lineWidth float64

	wrapPenalty float64

	cells  []fakeCell
	stamps []fakeStamp
	rules  []fakeRule

	outputErr error
	err       error
}

type fakeCell struct {
	page  int
	x, y  float64
	text  string
	align string
	style string
	size  float64
}

type fakeStamp struct {
	page int
	x, y float64
	text string
}

type fakeRule struct {
	page           int
	x1, y1, x2, y2 float64
	width          float64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pageW: 612, pageH: 792, lineWidth: 0.2, wrapPenalty: 1}
}

// charWidth approximates a fixed-width font at half the point size.
func (e *fakeEngine) charWidth() float64 { return e.size * 0.5 }

func (e *fakeEngine) AddPage() {
	e.pageNo++
	if e.pageNo > e.pageCount {
		e.pageCount = e.pageNo
	}
	e.x, e.y = e.left, e.top
}

func (e *fakeEngine) PageNo() int    { return e.pageNo }
func (e *fakeEngine) PageCount() int { return e.pageCount }

func (e *fakeEngine) SetFont(family, style string, size float64) {
	e.family, e.style, e.size = family, style, size
}

func (e *fakeEngine) StringWidth(s string) float64 {
	return float64(len(s)) * e.charWidth()
}

func (e *fakeEngine) splitWidth(s string, width, penalty float64) []string {
	perLine := int(width / (e.charWidth() * penalty))
	if perLine < 1 {
		perLine = 1
	}
	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		for len(raw) > perLine {
			lines = append(lines, raw[:perLine])
			raw = raw[perLine:]
		}
		lines = append(lines, raw)
	}
	return lines
}

func (e *fakeEngine) SplitText(s string, width float64) []string {
	return e.splitWidth(s, width, 1)
}

func (e *fakeEngine) MultiCell(width, lineHeight float64, text, align string) {
	// The engine wraps with its own (possibly wider) metrics.
	lines := e.splitWidth(text, width, e.wrapPenalty)
	for _, line := range lines {
		if e.autoBreak && e.y+lineHeight > e.pageH-e.bottom {
			e.AddPage()
		}
		e.cells = append(e.cells, fakeCell{
			page: e.pageNo, x: e.x, y: e.y,
			text: line, align: align, style: e.style, size: e.size,
		})
		e.y += lineHeight
	}
	e.x = e.left
}

func (e *fakeEngine) Write(lineHeight float64, text string) {
	if e.autoBreak && e.y+lineHeight > e.pageH-e.bottom {
		e.AddPage()
	}
	e.cells = append(e.cells, fakeCell{
		page: e.pageNo, x: e.x, y: e.y,
		text: text, style: e.style, size: e.size,
	})
	e.x += e.StringWidth(text)
}

func (e *fakeEngine) Text(x, y float64, text string) {
	e.stamps = append(e.stamps, fakeStamp{page: e.pageNo, x: x, y: y, text: text})
}

func (e *fakeEngine) Line(x1, y1, x2, y2 float64) {
	e.rules = append(e.rules, fakeRule{page: e.pageNo, x1: x1, y1: y1, x2: x2, y2: y2, width: e.lineWidth})
}

func (e *fakeEngine) SetLineWidth(w float64) { e.lineWidth = w }
func (e *fakeEngine) LineWidth() float64     { return e.lineWidth }
func (e *fakeEngine) SetDrawColor(r, g, b int) {}

func (e *fakeEngine) GetXY() (float64, float64) { return e.x, e.y }
func (e *fakeEngine) SetXY(x, y float64)        { e.x, e.y = x, y }
func (e *fakeEngine) SetY(y float64)            { e.y = y; e.x = e.left }
func (e *fakeEngine) Ln(h float64)              { e.y += h; e.x = e.left }

func (e *fakeEngine) SetMargins(left, top, right float64) {
	e.left, e.top, e.right = left, top, right
}

func (e *fakeEngine) SetAutoPageBreak(auto bool, bottomMargin float64) {
	e.autoBreak, e.bottom = auto, bottomMargin
}

func (e *fakeEngine) PageSize() (float64, float64) { return e.pageW, e.pageH }

func (e *fakeEngine) SetTitle(string)   {}
func (e *fakeEngine) SetCreator(string) {}

func (e *fakeEngine) Output(w io.Writer) error {
	if e.outputErr != nil {
		return e.outputErr
	}
	_, err := fmt.Fprintf(w, "fake-pdf pages=%d cells=%d", e.pageCount, len(e.cells))
	return err
}

func (e *fakeEngine) Err() error { return e.err }

// cellsOnPage returns the flowed cells placed on the given page.
func (e *fakeEngine) cellsOnPage(page int) []fakeCell {
	var out []fakeCell
	for _, c := range e.cells {
		if c.page == page {
			out = append(out, c)
		}
	}
	return out
}

// stampsOnPage returns the absolute-positioned stamps on the given page.
func (e *fakeEngine) stampsOnPage(page int) []fakeStamp {
	var out []fakeStamp
	for _, s := range e.stamps {
		if s.page == page {
			out = append(out, s)
		}
	}
	return out
}

// almostEqual compares floats with a small tolerance.
func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
