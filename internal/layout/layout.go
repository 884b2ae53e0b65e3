// Package layout turns parsed document content into ordered draw operations
// and drives the page writer, enforcing that signature, initials, and notary
// blocks never straddle a page boundary.
package layout

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/casekit/go-legalpdf/internal/markers"
	"github.com/casekit/go-legalpdf/internal/pagewriter"
)

// usableFraction shrinks the page capacity used for break decisions below
// the nominal content height, absorbing the known disagreement between
// height measurement and the engine's own wrapping.
const usableFraction = 0.95

// Signature rule lengths in underscores.
const (
	signatureRule = "_______________________"
	initialsRule  = "________"
)

// Op is one draw operation against the page writer.
type Op interface {
	measure(w *pagewriter.Writer) float64
	render(e *Engine) error
}

// Compile-time interface checks.
var (
	_ Op = (*TitleOp)(nil)
	_ Op = (*HeadingOp)(nil)
	_ Op = (*ParagraphOp)(nil)
	_ Op = (*ListItemOp)(nil)
	_ Op = (*RuleOp)(nil)
	_ Op = (*BlockOp)(nil)
)

// Document is the ordered operation list for one generation session.
type Document struct {
	Ops []Op
}

// Build interleaves the parse result's body content with its signature
// blocks, in source order, and prepends the document title when given.
func Build(pr markers.ParseResult, title string) *Document {
	var ops []Op
	if title != "" {
		ops = append(ops, &TitleOp{Text: title})
	}

	byAnchor := make(map[int][]markers.SignatureBlock)
	for _, b := range pr.SignatureBlocks {
		byAnchor[b.Anchor] = append(byAnchor[b.Anchor], b)
	}

	var segment []string
	flush := func() {
		if len(segment) == 0 {
			return
		}
		ops = append(ops, parseMarkdown(strings.Join(segment, "\n"))...)
		segment = segment[:0]
	}

	for i := 0; i <= len(pr.Content); i++ {
		if blocks, ok := byAnchor[i]; ok {
			flush()
			for _, b := range blocks {
				ops = append(ops, &BlockOp{Block: b})
			}
		}
		if i < len(pr.Content) {
			segment = append(segment, pr.Content[i])
		}
	}
	flush()

	return &Document{Ops: ops}
}

// TitleOp draws the centered document title.
type TitleOp struct {
	Text string
}

func (op *TitleOp) measure(w *pagewriter.Writer) float64 {
	return w.MeasureText(strings.ToUpper(op.Text), pagewriter.TextOptions{
		FontSize: 18, Style: "B",
	}) + w.DefaultLineHeight()
}

func (op *TitleOp) render(e *Engine) error {
	return e.writer.WriteTitle(op.Text)
}

// HeadingOp draws a section heading.
type HeadingOp struct {
	Level int
	Text  string
}

func (op *HeadingOp) measure(w *pagewriter.Writer) float64 {
	return w.MeasureText(op.Text, pagewriter.TextOptions{Style: "B"}) + w.DefaultLineHeight()/2
}

func (op *HeadingOp) render(e *Engine) error {
	return e.writer.WriteHeading(op.Text, op.Level)
}

// ParagraphOp draws one body paragraph of styled segments.
type ParagraphOp struct {
	Segments []pagewriter.Segment
}

func (op *ParagraphOp) plain() string {
	var b strings.Builder
	for _, s := range op.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func (op *ParagraphOp) measure(w *pagewriter.Writer) float64 {
	return w.MeasureText(op.plain(), pagewriter.TextOptions{}) + w.DefaultLineHeight()
}

func (op *ParagraphOp) render(e *Engine) error {
	if err := e.writer.WriteFormattedText(op.Segments, pagewriter.TextOptions{}); err != nil {
		return err
	}
	return e.writer.VerticalSpace(1)
}

// ListItemOp draws one list item with its marker.
type ListItemOp struct {
	Marker   string
	Segments []pagewriter.Segment
}

func (op *ListItemOp) segments() []pagewriter.Segment {
	segs := make([]pagewriter.Segment, 0, len(op.Segments)+1)
	segs = append(segs, pagewriter.Segment{Text: op.Marker + " "})
	segs = append(segs, op.Segments...)
	return segs
}

func (op *ListItemOp) measure(w *pagewriter.Writer) float64 {
	var b strings.Builder
	for _, s := range op.segments() {
		b.WriteString(s.Text)
	}
	return w.MeasureText(b.String(), pagewriter.TextOptions{})
}

func (op *ListItemOp) render(e *Engine) error {
	return e.writer.WriteFormattedText(op.segments(), pagewriter.TextOptions{})
}

// RuleOp draws a horizontal rule.
type RuleOp struct{}

func (op *RuleOp) measure(w *pagewriter.Writer) float64 {
	return w.DefaultLineHeight()
}

func (op *RuleOp) render(e *Engine) error {
	return e.writer.DrawHorizontalLine(pagewriter.LineOptions{})
}

// BlockOp draws one signature, initials, or notary block atomically.
type BlockOp struct {
	Block markers.SignatureBlock
}

func (op *BlockOp) measure(w *pagewriter.Writer) float64 {
	return blockHeight(op.Block, w)
}

// render forces a page break before the block whenever the block's measured
// height exceeds the remaining space; the block's own lines are then written
// as continuations so nothing inside it can trigger another break.
func (op *BlockOp) render(e *Engine) error {
	w := e.writer
	h := blockHeight(op.Block, w)
	if h > w.Remaining() {
		if err := w.NewPage(); err != nil {
			return err
		}
	}

	if op.Block.Layout == markers.LayoutSideBySide {
		left, right := columnLines(op.Block)
		if err := w.WriteColumns(left, right, pagewriter.TextOptions{}); err != nil {
			return err
		}
	} else {
		for _, line := range singleLines(op.Block) {
			if err := w.WriteText(line, pagewriter.TextOptions{Continued: true}); err != nil {
				return err
			}
		}
	}

	if op.Block.NotaryRequired {
		for _, line := range notaryLines() {
			if err := w.WriteText(line, pagewriter.TextOptions{Continued: true}); err != nil {
				return err
			}
		}
	}

	return w.VerticalSpace(1)
}

// ruleFor picks the fill-in line for a party.
func ruleFor(p markers.Party) string {
	if p.LineType == markers.LineInitial {
		return initialsRule
	}
	return signatureRule
}

// partyLines renders one party's fields as text lines.
func partyLines(p markers.Party) []string {
	var lines []string
	if p.Role != "" {
		lines = append(lines, p.Role+":")
	}
	lines = append(lines, ruleFor(p))
	if p.Name != "" {
		lines = append(lines, "Name: "+p.Name)
	}
	if p.Title != "" {
		lines = append(lines, "Title: "+p.Title)
	}
	if p.Company != "" {
		lines = append(lines, "Company: "+p.Company)
	}
	if p.Date != "" {
		lines = append(lines, "Date: "+p.Date)
	}
	return lines
}

// singleLines renders a sequential-layout block, one party under the next
// with a blank line between parties.
func singleLines(b markers.SignatureBlock) []string {
	var lines []string
	for i, p := range b.Parties {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, partyLines(p)...)
	}
	return lines
}

// columnLines renders a side-by-side block as two parallel line lists.
func columnLines(b markers.SignatureBlock) (left, right []string) {
	if len(b.Parties) > 0 {
		left = partyLines(b.Parties[0])
	}
	if len(b.Parties) > 1 {
		right = partyLines(b.Parties[1])
	}
	return left, right
}

// notaryLines is the acknowledgment section appended to notary blocks.
func notaryLines() []string {
	return []string{
		"",
		"STATE OF ____________________",
		"COUNTY OF ___________________",
		"",
		"Sworn to and subscribed before me this ____ day of ____________, 20___.",
		"",
		signatureRule,
		"Notary Public",
		"My commission expires: ____________",
	}
}

// blockHeight is the vertical space the block needs, including the notary
// section and trailing spacing.
func blockHeight(b markers.SignatureBlock, w *pagewriter.Writer) float64 {
	lh := w.DefaultLineHeight()

	var lineCount int
	if b.Layout == markers.LayoutSideBySide {
		left, right := columnLines(b)
		lineCount = len(left)
		if len(right) > lineCount {
			lineCount = len(right)
		}
	} else {
		lineCount = len(singleLines(b))
	}
	if b.NotaryRequired {
		lineCount += len(notaryLines())
	}

	// Trailing spacing after the block.
	return float64(lineCount)*lh + lh
}

// Engine drives a page writer through a document's operations.
type Engine struct {
	writer *pagewriter.Writer
	log    *slog.Logger

	// Progress, when set, is called after each rendered operation.
	Progress func(done, total int)
}

// NewEngine creates a layout engine bound to one writer session.
func NewEngine(w *pagewriter.Writer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{writer: w, log: log}
}

// Predict measures the whole document and returns the page count the layout
// expects, using a conservative page capacity. Render is only attempted
// after measuring, so a divergent engine can be detected by comparing the
// writer's final count against this prediction.
func (e *Engine) Predict(doc *Document) int {
	capacity := e.writer.UsableHeight() * usableFraction
	pages := 1
	used := 0.0

	for _, op := range doc.Ops {
		h := op.measure(e.writer)

		if _, atomic := op.(*BlockOp); atomic {
			if used+h > capacity && used > 0 {
				pages++
				used = 0
			}
			used += h
			continue
		}

		// Flowing content spills across pages.
		used += h
		for used > capacity {
			pages++
			used -= capacity
		}
	}

	return pages
}

// Render writes every operation to the page writer, checking for
// cancellation between operations.
func (e *Engine) Render(ctx context.Context, doc *Document) error {
	total := len(doc.Ops)
	for i, op := range doc.Ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := op.render(e); err != nil {
			return err
		}
		if e.Progress != nil {
			e.Progress(i+1, total)
		}
	}
	return nil
}
