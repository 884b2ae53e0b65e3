// Package markers extracts signature, initials, and notary block markers
// from document text. Markers are inline tokens of the form
// [SIGNATURE_BLOCK:<id>] placed by the content generator; parsing returns
// the marker-free text alongside structured block descriptors.
package markers

// MarkerType identifies the kind of block a marker introduces.
type MarkerType string

// Marker type constants.
const (
	TypeSignature MarkerType = "signature"
	TypeInitial   MarkerType = "initial"
	TypeNotary    MarkerType = "notary"
)

// LineType identifies the kind of line a party signs on.
type LineType string

// Line type constants.
const (
	LineSignature LineType = "signature"
	LineInitial   LineType = "initial"
)

// BlockLayout describes how a block's parties are arranged on the page.
type BlockLayout string

// Layout constants.
const (
	LayoutSingle     BlockLayout = "single"
	LayoutSideBySide BlockLayout = "side-by-side"
)

// Marker is one recognized block token found in the source text.
type Marker struct {
	Type       MarkerType
	ID         string // kebab-case identifier from the token
	FullText   string // the complete token, e.g. "[SIGNATURE_BLOCK:lease-tenant]"
	StartIndex int    // byte offset of the token in the original text
	EndIndex   int    // byte offset just past the token
}

// Party holds the fields extracted for one signing party.
// Empty fields were not present in the source text.
type Party struct {
	Role     string
	Name     string
	Title    string
	Company  string
	Date     string
	LineType LineType
}

// SignatureBlock is the structured record built from one valid marker and
// the party lines that followed it.
type SignatureBlock struct {
	Marker         Marker
	Layout         BlockLayout
	Parties        []Party
	NotaryRequired bool

	// Anchor is the index into ParseResult.Content before which the block
	// belongs. Blocks sharing a line share an anchor and render in token order.
	Anchor int
}

// ParseResult is the output of ParseDocument.
//
// Invariants: Content contains no valid marker token, and
// HasSignatures == (len(SignatureBlocks) > 0).
type ParseResult struct {
	Content         []string
	SignatureBlocks []SignatureBlock
	HasSignatures   bool
}

// Anomaly records input that was silently skipped during parsing.
// Anomalies are never errors; callers may log them at debug level.
type Anomaly struct {
	Line   int // 0-based line number in the source text
	Token  string
	Reason string
}
