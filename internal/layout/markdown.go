package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/casekit/go-legalpdf/internal/pagewriter"
)

// md is the shared goldmark instance. Only the parser is used; rendering
// happens against the page writer, not HTML.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// parseMarkdown converts a marker-free body segment into draw operations.
func parseMarkdown(source string) []Op {
	if strings.TrimSpace(source) == "" {
		return nil
	}

	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var ops []Op
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		ops = append(ops, blockOps(node, src)...)
	}
	return ops
}

// blockOps converts one top-level markdown block node.
func blockOps(node ast.Node, src []byte) []Op {
	switch n := node.(type) {
	case *ast.Heading:
		return []Op{&HeadingOp{Level: n.Level, Text: plainText(n, src)}}
	case *ast.Paragraph:
		return []Op{&ParagraphOp{Segments: inlineSegments(n, src)}}
	case *ast.ThematicBreak:
		return []Op{&RuleOp{}}
	case *ast.List:
		return listOps(n, src)
	case *ast.Blockquote:
		var ops []Op
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			ops = append(ops, blockOps(c, src)...)
		}
		return ops
	case *ast.FencedCodeBlock:
		return []Op{&ParagraphOp{Segments: []pagewriter.Segment{{Text: rawLines(n, src)}}}}
	case *ast.CodeBlock:
		return []Op{&ParagraphOp{Segments: []pagewriter.Segment{{Text: rawLines(n, src)}}}}
	default:
		if t := plainText(n, src); t != "" {
			return []Op{&ParagraphOp{Segments: []pagewriter.Segment{{Text: t}}}}
		}
		return nil
	}
}

// listOps flattens a list into one operation per item. Ordered lists count
// from the list's start number.
func listOps(list *ast.List, src []byte) []Op {
	var ops []Op
	number := list.Start
	if number == 0 {
		number = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if list.IsOrdered() {
			marker = itoa(number) + "."
			number++
		}
		ops = append(ops, &ListItemOp{Marker: marker, Segments: inlineSegments(item, src)})
	}
	return ops
}

// itoa avoids pulling strconv into the hot path for small list numbers.
func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	var out []byte
	for n > 0 {
		out = append([]byte{byte('0' + n%10)}, out...)
		n /= 10
	}
	return string(out)
}

// inlineSegments walks a node's inline children into styled segments,
// merging adjacent runs with identical styling.
func inlineSegments(node ast.Node, src []byte) []pagewriter.Segment {
	var segs []pagewriter.Segment
	collectInline(node, src, false, false, &segs)
	return segs
}

func collectInline(node ast.Node, src []byte, bold, italic bool, out *[]pagewriter.Segment) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			appendSegment(out, string(t.Segment.Value(src)), bold, italic)
			if t.SoftLineBreak() || t.HardLineBreak() {
				appendSegment(out, " ", bold, italic)
			}
		case *ast.String:
			appendSegment(out, string(t.Value), bold, italic)
		case *ast.Emphasis:
			b, i := bold, italic
			if t.Level >= 2 {
				b = true
			} else {
				i = true
			}
			collectInline(t, src, b, i, out)
		case *ast.AutoLink:
			appendSegment(out, string(t.URL(src)), bold, italic)
		default:
			collectInline(c, src, bold, italic, out)
		}
	}
}

// appendSegment adds text to the segment list, extending the previous
// segment when the styling matches.
func appendSegment(out *[]pagewriter.Segment, text string, bold, italic bool) {
	if text == "" {
		return
	}
	if n := len(*out); n > 0 {
		last := &(*out)[n-1]
		if last.Bold == bold && last.Italic == italic {
			last.Text += text
			return
		}
	}
	*out = append(*out, pagewriter.Segment{Text: text, Bold: bold, Italic: italic})
}

// plainText flattens a node's inline content to unstyled text.
func plainText(node ast.Node, src []byte) string {
	var b strings.Builder
	for _, s := range inlineSegments(node, src) {
		b.WriteString(s.Text)
	}
	return b.String()
}

// rawLines extracts the literal lines of a code block.
func rawLines(node ast.Node, src []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}
