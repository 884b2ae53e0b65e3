package pagewriter

import "strconv"

// romanValues is the subtractive-notation table, descending.
var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// FormatPageNumber renders a 1-based page number in the configured format
// with the optional prefix and suffix applied.
func FormatPageNumber(page int, n Numbering) string {
	var s string
	switch n.Format {
	case FormatRoman:
		s = toRoman(page)
	case FormatAlpha:
		s = toAlpha(page)
	default:
		s = strconv.Itoa(page)
	}
	return n.Prefix + s + n.Suffix
}

// toRoman converts n to lowercase roman numerals. Values below one return
// an empty string.
func toRoman(n int) string {
	var out []byte
	for _, rv := range romanValues {
		for n >= rv.value {
			out = append(out, rv.symbol...)
			n -= rv.value
		}
	}
	return string(out)
}

// toAlpha converts n to the bijective base-26 sequence a, b, ..., z, aa, ab.
// The counter is decremented before each digit extraction so that 26 maps
// to "z" and 27 to "aa".
func toAlpha(n int) string {
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{byte('a' + n%26)}, out...)
		n /= 26
	}
	return string(out)
}
