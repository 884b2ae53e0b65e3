package layout

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/casekit/go-legalpdf/internal/markers"
	"github.com/casekit/go-legalpdf/internal/pagewriter"
)

// stubEngine implements pagewriter.Engine with fixed-width font metrics, so
// layout decisions can be tested without producing a PDF.
type stubEngine struct {
	pageW, pageH float64
	left, top    float64
	bottom       float64
	autoBreak    bool

	x, y      float64
	pageNo    int
	pageCount int

	style string
	size  float64

	lineWidth float64

	cells []stubCell
}

type stubCell struct {
	page int
	x, y float64
	text string
}

func newStubEngine() *stubEngine {
	return &stubEngine{pageW: 612, pageH: 792, lineWidth: 0.2}
}

func (e *stubEngine) charWidth() float64 { return e.size * 0.5 }

func (e *stubEngine) AddPage() {
	e.pageNo++
	if e.pageNo > e.pageCount {
		e.pageCount = e.pageNo
	}
	e.x, e.y = e.left, e.top
}

func (e *stubEngine) PageNo() int    { return e.pageNo }
func (e *stubEngine) PageCount() int { return e.pageCount }

func (e *stubEngine) SetFont(family, style string, size float64) {
	e.style, e.size = style, size
}

func (e *stubEngine) StringWidth(s string) float64 {
	return float64(len(s)) * e.charWidth()
}

func (e *stubEngine) SplitText(s string, width float64) []string {
	perLine := int(width / e.charWidth())
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

func (e *stubEngine) MultiCell(width, lineHeight float64, text, align string) {
	for _, line := range e.SplitText(text, width) {
		if e.autoBreak && e.y+lineHeight > e.pageH-e.bottom {
			e.AddPage()
		}
		e.cells = append(e.cells, stubCell{page: e.pageNo, x: e.x, y: e.y, text: line})
		e.y += lineHeight
	}
	e.x = e.left
}

func (e *stubEngine) Write(lineHeight float64, text string) {
	if e.autoBreak && e.y+lineHeight > e.pageH-e.bottom {
		e.AddPage()
	}
	e.cells = append(e.cells, stubCell{page: e.pageNo, x: e.x, y: e.y, text: text})
	e.x += e.StringWidth(text)
}

func (e *stubEngine) Text(x, y float64, text string) {}

func (e *stubEngine) Line(x1, y1, x2, y2 float64) {}
func (e *stubEngine) SetLineWidth(w float64)      { e.lineWidth = w }
func (e *stubEngine) LineWidth() float64          { return e.lineWidth }
func (e *stubEngine) SetDrawColor(r, g, b int)    {}

func (e *stubEngine) GetXY() (float64, float64) { return e.x, e.y }
func (e *stubEngine) SetXY(x, y float64)        { e.x, e.y = x, y }
func (e *stubEngine) SetY(y float64)            { e.y = y; e.x = e.left }
func (e *stubEngine) Ln(h float64)              { e.y += h; e.x = e.left }

func (e *stubEngine) SetMargins(left, top, right float64) {
	e.left, e.top = left, top
}

func (e *stubEngine) SetAutoPageBreak(auto bool, bottomMargin float64) {
	e.autoBreak, e.bottom = auto, bottomMargin
}

func (e *stubEngine) PageSize() (float64, float64) { return e.pageW, e.pageH }

func (e *stubEngine) SetTitle(string)   {}
func (e *stubEngine) SetCreator(string) {}

func (e *stubEngine) Output(w io.Writer) error {
	_, err := fmt.Fprintf(w, "stub-pdf pages=%d", e.pageCount)
	return err
}

func (e *stubEngine) Err() error { return nil }

func (e *stubEngine) cellsOnPage(page int) []stubCell {
	var out []stubCell
	for _, c := range e.cells {
		if c.page == page {
			out = append(out, c)
		}
	}
	return out
}

func newTestEngine(t *testing.T) (*Engine, *stubEngine) {
	t.Helper()
	eng := newStubEngine()
	w := pagewriter.New(eng, &pagewriter.BufferDestination{}, pagewriter.DefaultConfig(), nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return NewEngine(w, nil), eng
}

// repeatLines makes n short lines separated by newlines.
func repeatLines(n int) string {
	return strings.TrimSuffix(strings.Repeat("x\n", n), "\n")
}

func oneParty() markers.Party {
	return markers.Party{Role: "PARTY", Name: "Jane Doe"}
}

func TestBuildInterleavesBlocksAtAnchors(t *testing.T) {
	t.Parallel()

	pr := markers.ParseResult{
		Content: []string{"Intro", "", "Outro"},
		SignatureBlocks: []markers.SignatureBlock{{
			Marker:  markers.Marker{Type: markers.TypeSignature, ID: "a"},
			Parties: []markers.Party{oneParty()},
			Anchor:  1,
		}},
		HasSignatures: true,
	}

	doc := Build(pr, "")
	if len(doc.Ops) != 3 {
		t.Fatalf("ops = %d, want 3", len(doc.Ops))
	}
	if _, ok := doc.Ops[0].(*ParagraphOp); !ok {
		t.Errorf("ops[0] = %T, want *ParagraphOp", doc.Ops[0])
	}
	if _, ok := doc.Ops[1].(*BlockOp); !ok {
		t.Errorf("ops[1] = %T, want *BlockOp", doc.Ops[1])
	}
	if _, ok := doc.Ops[2].(*ParagraphOp); !ok {
		t.Errorf("ops[2] = %T, want *ParagraphOp", doc.Ops[2])
	}
}

func TestBuildTitleFirst(t *testing.T) {
	t.Parallel()

	doc := Build(markers.ParseResult{Content: []string{"Body"}}, "Lease Agreement")
	if len(doc.Ops) != 2 {
		t.Fatalf("ops = %d, want 2", len(doc.Ops))
	}
	title, ok := doc.Ops[0].(*TitleOp)
	if !ok {
		t.Fatalf("ops[0] = %T, want *TitleOp", doc.Ops[0])
	}
	if title.Text != "Lease Agreement" {
		t.Errorf("title = %q", title.Text)
	}
}

func TestBuildTrailingBlock(t *testing.T) {
	t.Parallel()

	// Anchor == len(Content) places the block after all body content.
	pr := markers.ParseResult{
		Content: []string{"Body"},
		SignatureBlocks: []markers.SignatureBlock{{
			Marker: markers.Marker{Type: markers.TypeSignature, ID: "end"},
			Anchor: 1,
		}},
		HasSignatures: true,
	}
	doc := Build(pr, "")
	if len(doc.Ops) != 2 {
		t.Fatalf("ops = %d, want 2", len(doc.Ops))
	}
	if _, ok := doc.Ops[1].(*BlockOp); !ok {
		t.Errorf("ops[1] = %T, want *BlockOp", doc.Ops[1])
	}
}

func TestPartyLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		party markers.Party
		want  []string
	}{
		{
			"all fields",
			markers.Party{Role: "LANDLORD", Name: "Jane Doe", Title: "Manager", Company: "Acme LLC", Date: "2026-01-15"},
			[]string{"LANDLORD:", signatureRule, "Name: Jane Doe", "Title: Manager", "Company: Acme LLC", "Date: 2026-01-15"},
		},
		{
			"sparse fields omitted",
			markers.Party{Role: "TENANT", Name: "John Roe"},
			[]string{"TENANT:", signatureRule, "Name: John Roe"},
		},
		{
			"initials rule",
			markers.Party{Role: "BUYER", LineType: markers.LineInitial},
			[]string{"BUYER:", initialsRule},
		},
		{
			"no role",
			markers.Party{Name: "Jane Doe"},
			[]string{signatureRule, "Name: Jane Doe"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := partyLines(tt.party)
			if len(got) != len(tt.want) {
				t.Fatalf("lines = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBlockHeightCountsNotarySection(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	lh := 14.4

	plain := markers.SignatureBlock{Parties: []markers.Party{oneParty()}}
	notarized := plain
	notarized.NotaryRequired = true

	hp := blockHeight(plain, e.writer)
	hn := blockHeight(notarized, e.writer)

	// Three party lines plus trailing spacing.
	if want := 4 * lh; hp != want {
		t.Errorf("plain height = %v, want %v", hp, want)
	}
	if want := hp + float64(len(notaryLines()))*lh; hn != want {
		t.Errorf("notarized height = %v, want %v", hn, want)
	}
}

func TestBlockBreaksToNextPageWhenShort(t *testing.T) {
	t.Parallel()

	e, eng := newTestEngine(t)

	// 40 lines leave 72pt on the page; the notarized block needs far more.
	if err := e.writer.WriteText(repeatLines(40), pagewriter.TextOptions{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	op := &BlockOp{Block: markers.SignatureBlock{
		Parties:        []markers.Party{oneParty()},
		NotaryRequired: true,
	}}
	if err := op.render(e); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := e.writer.ManualBreaks(); got != 1 {
		t.Fatalf("ManualBreaks = %d, want 1", got)
	}
	for _, c := range eng.cells {
		if c.page == 1 && c.text == "Notary Public" {
			t.Fatal("block content landed on page 1")
		}
	}
	var onTwo bool
	for _, c := range eng.cellsOnPage(2) {
		if c.text == "Notary Public" {
			onTwo = true
		}
	}
	if !onTwo {
		t.Fatal("block content missing from page 2")
	}
}

func TestBlockStaysWhenItFits(t *testing.T) {
	t.Parallel()

	e, eng := newTestEngine(t)

	if err := e.writer.WriteText(repeatLines(40), pagewriter.TextOptions{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	// A bare rule-only block needs two line heights; 72pt remain.
	op := &BlockOp{Block: markers.SignatureBlock{
		Parties: []markers.Party{{}},
	}}
	if err := op.render(e); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := e.writer.ManualBreaks(); got != 0 {
		t.Errorf("ManualBreaks = %d, want 0", got)
	}
	if got := eng.pageCount; got != 1 {
		t.Errorf("pageCount = %d, want 1", got)
	}
}

func TestSideBySideBlockColumns(t *testing.T) {
	t.Parallel()

	e, eng := newTestEngine(t)

	op := &BlockOp{Block: markers.SignatureBlock{
		Layout: markers.LayoutSideBySide,
		Parties: []markers.Party{
			{Role: "LANDLORD", Name: "Jane Doe"},
			{Role: "TENANT", Name: "John Roe"},
		},
	}}
	if err := op.render(e); err != nil {
		t.Fatalf("render: %v", err)
	}

	var leftSeen, rightSeen bool
	for _, c := range eng.cells {
		switch c.text {
		case "LANDLORD:":
			leftSeen = true
			if c.x != 72 {
				t.Errorf("left column x = %v, want 72", c.x)
			}
		case "TENANT:":
			rightSeen = true
			if c.x != 324 {
				t.Errorf("right column x = %v, want 324", c.x)
			}
		}
	}
	if !leftSeen || !rightSeen {
		t.Fatalf("columns missing: left=%v right=%v", leftSeen, rightSeen)
	}
}

func TestSequentialBlockSeparatesParties(t *testing.T) {
	t.Parallel()

	b := markers.SignatureBlock{Parties: []markers.Party{
		{Role: "LANDLORD"},
		{Role: "TENANT"},
	}}
	lines := singleLines(b)
	want := []string{"LANDLORD:", signatureRule, "", "TENANT:", signatureRule}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range lines {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPredictSinglePage(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	doc := Build(markers.ParseResult{Content: []string{"Short body."}}, "")
	if got := e.Predict(doc); got != 1 {
		t.Errorf("Predict = %d, want 1", got)
	}
}

func TestPredictBlockBump(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)

	// Paragraphs consume most of the capacity, then an atomic block that
	// cannot share the page bumps the count.
	var ops []Op
	for i := 0; i < 21; i++ {
		ops = append(ops, &ParagraphOp{Segments: []pagewriter.Segment{{Text: "clause"}}})
	}
	ops = append(ops, &BlockOp{Block: markers.SignatureBlock{
		Parties:        []markers.Party{oneParty()},
		NotaryRequired: true,
	}})

	if got := e.Predict(&Document{Ops: ops}); got != 2 {
		t.Errorf("Predict = %d, want 2", got)
	}
}

func TestRenderCancellation(t *testing.T) {
	t.Parallel()

	e, eng := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := Build(markers.ParseResult{Content: []string{"Body"}}, "")
	err := e.Render(ctx, doc)
	if err != context.Canceled {
		t.Fatalf("Render = %v, want context.Canceled", err)
	}
	if len(eng.cells) != 0 {
		t.Errorf("rendered %d cells after cancellation", len(eng.cells))
	}
}

func TestRenderProgress(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	doc := Build(markers.ParseResult{Content: []string{"One.", "", "Two.", "", "Three."}}, "T")

	var calls []int
	e.Progress = func(done, total int) {
		if total != len(doc.Ops) {
			t.Errorf("total = %d, want %d", total, len(doc.Ops))
		}
		calls = append(calls, done)
	}

	if err := e.Render(context.Background(), doc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(calls) != len(doc.Ops) {
		t.Fatalf("progress calls = %d, want %d", len(calls), len(doc.Ops))
	}
	for i, d := range calls {
		if d != i+1 {
			t.Errorf("call %d reported done=%d", i, d)
		}
	}
}
