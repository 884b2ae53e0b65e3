package markers

import (
	"regexp"
	"strings"
)

// Precompiled patterns for marker and party-line recognition.
var (
	// Marker tokens, e.g. [SIGNATURE_BLOCK:lease-tenant].
	markerPattern = regexp.MustCompile(`\[(SIGNATURE_BLOCK|INITIALS_BLOCK|NOTARY_BLOCK):([^\[\]\n]*)\]`)

	// Marker ids must be kebab-case.
	idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	// A bare signature line: three or more underscores.
	underscoreLine = regexp.MustCompile(`^_{3,}$`)

	// A party role label: all-caps line ending in a colon with nothing after,
	// e.g. "TENANT:" or "WITNESS ONE:".
	roleLabelLine = regexp.MustCompile(`^[A-Z][A-Z0-9 .'&-]*:$`)

	// Party field lines, case-insensitive prefix.
	fieldLine = regexp.MustCompile(`(?i)^(name|title|company|date)\s*:\s*(.*)$`)

	// Section headings terminate party consumption: either a known structural
	// keyword, or an all-caps label with all-caps text after the colon
	// (e.g. "SECTION 5: NOTICES").
	headingKeyword  = regexp.MustCompile(`^(SECTION|ARTICLE|EXHIBIT|SCHEDULE|APPENDIX|PART|CLAUSE|RECITALS)\b[A-Z0-9 .]*:`)
	headingWithText = regexp.MustCompile(`^[A-Z][A-Z0-9 .'&-]*:\s+[A-Z0-9][A-Z0-9 .,'&-]*$`)

	// Column separator for side-by-side layouts: a tab or two-plus spaces.
	columnSeparator = regexp.MustCompile(`\t+|[ ]{2,}`)
)

// markerTypes maps token keywords to marker types.
var markerTypes = map[string]MarkerType{
	"SIGNATURE_BLOCK": TypeSignature,
	"INITIALS_BLOCK":  TypeInitial,
	"NOTARY_BLOCK":    TypeNotary,
}

// ParseDocument scans text for signature, initials, and notary markers and
// returns the marker-free content lines together with the structured blocks.
// It is pure and deterministic; malformed markers are skipped silently.
func ParseDocument(text string) ParseResult {
	result, _ := Parse(text)
	return result
}

// Parse is ParseDocument plus the list of silently-skipped anomalies, for
// callers that want to log them.
func Parse(text string) (ParseResult, []Anomaly) {
	lines := strings.Split(text, "\n")

	// Byte offset of each line start, for marker indices.
	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + 1
	}

	var (
		content   []string
		blocks    []SignatureBlock
		anomalies []Anomaly
	)

	i := 0
	for i < len(lines) {
		line := lines[i]

		matches := markerPattern.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			content = append(content, line)
			i++
			continue
		}

		stripped, lineBlocks, lineAnomalies := extractMarkers(line, i, offsets[i], matches)
		anomalies = append(anomalies, lineAnomalies...)

		// A line that held only markers disappears; anything else (including
		// whitespace left behind by token removal) is kept verbatim.
		if strings.TrimSpace(stripped) != "" || len(lineBlocks) == 0 {
			content = append(content, stripped)
		}

		if len(lineBlocks) == 0 {
			i++
			continue
		}

		anchor := len(content)

		// Party lines that follow belong to the last marker on the line;
		// earlier markers on the same line get empty party lists.
		last := len(lineBlocks) - 1
		parties, layout, consumed := consumeParties(lines, i+1, lineBlocks[last].Marker.Type)
		lineBlocks[last].Parties = parties
		lineBlocks[last].Layout = layout

		for k := range lineBlocks {
			lineBlocks[k].Anchor = anchor
		}
		blocks = append(blocks, lineBlocks...)

		i = i + 1 + consumed
	}

	return ParseResult{
		Content:         content,
		SignatureBlocks: blocks,
		HasSignatures:   len(blocks) > 0,
	}, anomalies
}

// extractMarkers strips every valid marker token from line and returns the
// remaining text plus a block skeleton per valid marker. A token with an
// invalid id creates no block and stays in the line verbatim.
func extractMarkers(line string, lineNo, lineOffset int, matches [][]int) (string, []SignatureBlock, []Anomaly) {
	var (
		sb        strings.Builder
		blocks    []SignatureBlock
		anomalies []Anomaly
	)

	prev := 0
	for _, m := range matches {
		token := line[m[0]:m[1]]
		kind := line[m[2]:m[3]]
		id := line[m[4]:m[5]]

		if !idPattern.MatchString(id) {
			anomalies = append(anomalies, Anomaly{
				Line:   lineNo,
				Token:  token,
				Reason: "marker id is not kebab-case",
			})
			continue
		}

		sb.WriteString(line[prev:m[0]])
		prev = m[1]

		mt := markerTypes[kind]
		blocks = append(blocks, SignatureBlock{
			Marker: Marker{
				Type:       mt,
				ID:         id,
				FullText:   token,
				StartIndex: lineOffset + m[0],
				EndIndex:   lineOffset + m[1],
			},
			Layout:         LayoutSingle,
			Parties:        []Party{},
			NotaryRequired: mt == TypeNotary,
		})
	}
	sb.WriteString(line[prev:])

	return sb.String(), blocks, anomalies
}

// defaultLineType returns the line type parties of a block default to.
func defaultLineType(mt MarkerType) LineType {
	if mt == TypeInitial {
		return LineInitial
	}
	return LineSignature
}

// consumeParties reads party lines starting at lines[start] until a
// terminating condition: a blank line (consumed), a new marker, a section
// heading, or an unrecognized line (all left in place). It returns the
// parties, the detected layout, and the number of lines consumed.
func consumeParties(lines []string, start int, mt MarkerType) ([]Party, BlockLayout, int) {
	lt := defaultLineType(mt)
	layout := LayoutSingle
	parties := []Party{}

	var cur *Party
	flush := func() {
		if cur != nil {
			parties = append(parties, *cur)
			cur = nil
		}
	}

	j := start
	for j < len(lines) {
		trimmed := strings.TrimSpace(lines[j])

		if trimmed == "" {
			j++ // blank terminator belongs to the block span
			break
		}
		if markerPattern.MatchString(lines[j]) {
			break
		}
		if isSectionHeading(trimmed) {
			break
		}

		if left, right, ok := splitLabelColumns(trimmed); ok {
			flush()
			lp, rp, consumed := consumeColumns(lines, j, left, right, lt)
			parties = append(parties, lp, rp)
			layout = LayoutSideBySide
			j += consumed
			break
		}

		if roleLabelLine.MatchString(trimmed) {
			flush()
			cur = &Party{Role: strings.TrimSuffix(trimmed, ":"), LineType: lt}
			j++
			continue
		}
		if underscoreLine.MatchString(trimmed) {
			// Carries no data; just guarantees the party exists.
			if cur == nil {
				cur = &Party{LineType: lt}
			}
			j++
			continue
		}
		if f := fieldLine.FindStringSubmatch(trimmed); f != nil {
			if cur == nil {
				cur = &Party{LineType: lt}
			}
			setPartyField(cur, f[1], f[2])
			j++
			continue
		}

		// Anything else is body content, not part of the block.
		break
	}
	flush()

	return parties, layout, j - start
}

// splitLabelColumns reports whether line holds two role labels separated by
// a tab or two-plus spaces, returning both labels when it does.
func splitLabelColumns(line string) (left, right string, ok bool) {
	loc := columnSeparator.FindStringIndex(line)
	if loc == nil {
		return "", "", false
	}
	left = strings.TrimSpace(line[:loc[0]])
	right = strings.TrimSpace(line[loc[1]:])
	if roleLabelLine.MatchString(left) && roleLabelLine.MatchString(right) {
		return left, right, true
	}
	return "", "", false
}

// consumeColumns reads a side-by-side span: the label line at lines[start]
// plus following lines split into left/right cells, until termination.
func consumeColumns(lines []string, start int, leftLabel, rightLabel string, lt LineType) (Party, Party, int) {
	lp := Party{Role: strings.TrimSuffix(leftLabel, ":"), LineType: lt}
	rp := Party{Role: strings.TrimSuffix(rightLabel, ":"), LineType: lt}

	j := start + 1
	for j < len(lines) {
		trimmed := strings.TrimSpace(lines[j])

		if trimmed == "" {
			j++
			break
		}
		if markerPattern.MatchString(lines[j]) || isSectionHeading(trimmed) {
			break
		}

		var leftCell, rightCell string
		if loc := columnSeparator.FindStringIndex(trimmed); loc != nil {
			leftCell = strings.TrimSpace(trimmed[:loc[0]])
			rightCell = strings.TrimSpace(trimmed[loc[1]:])
		} else {
			leftCell = trimmed
		}

		if !applyCell(&lp, leftCell) || (rightCell != "" && !applyCell(&rp, rightCell)) {
			break
		}
		j++
	}

	return lp, rp, j - start
}

// applyCell applies one column cell to a party, reporting false when the
// cell is not a recognized party line.
func applyCell(p *Party, cell string) bool {
	if cell == "" || underscoreLine.MatchString(cell) {
		return true
	}
	if f := fieldLine.FindStringSubmatch(cell); f != nil {
		setPartyField(p, f[1], f[2])
		return true
	}
	return false
}

// setPartyField assigns a field value by its case-insensitive prefix.
func setPartyField(p *Party, field, value string) {
	switch strings.ToLower(field) {
	case "name":
		p.Name = value
	case "title":
		p.Title = value
	case "company":
		p.Company = value
	case "date":
		p.Date = value
	}
}

// isSectionHeading reports whether a line is a document heading rather than
// a party label. Structural keywords always terminate; so does an all-caps
// label with all-caps text after the colon.
func isSectionHeading(line string) bool {
	return headingKeyword.MatchString(line) || headingWithText.MatchString(line)
}
