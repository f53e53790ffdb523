package billtext

import "strings"

// Normalize collapses every run of whitespace to a single space and trims the
// ends. Two strings are "verbatim-equal" when their normalized forms match;
// this is the only transformation evidence snippets are allowed to undergo.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lowerASCII lowercases ASCII letters only, preserving byte offsets so that
// positions found in the folded text map back onto the original.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Index returns the byte offset of the first case-insensitive occurrence of
// marker in text, or -1.
func Index(text, marker string) int {
	return strings.Index(lowerASCII(text), lowerASCII(marker))
}

// Contains reports whether text contains marker, case-insensitively.
func Contains(text, marker string) bool {
	return Index(text, marker) >= 0
}

// ContainsAny returns the first marker from the set found in text, and whether
// any matched.
func ContainsAny(text string, markers []string) (string, bool) {
	for _, m := range markers {
		if Contains(text, m) {
			return m, true
		}
	}
	return "", false
}

// ContainsVerbatim reports whether snippet appears in text byte-for-byte after
// whitespace normalization of both. Candidates whose evidence fails this check
// must be discarded, never weakened.
func ContainsVerbatim(text, snippet string) bool {
	if snippet == "" {
		return false
	}
	return strings.Contains(Normalize(text), Normalize(snippet))
}

// ContainsVerbatimLines reports whether every newline-separated snippet in
// evidence appears verbatim in text. Evidence built from multiple charge lines
// joins them with newlines; the lines need not be adjacent on the bill, so
// each snippet is checked on its own.
func ContainsVerbatimLines(text, evidence string) bool {
	found := false
	for _, snippet := range strings.Split(evidence, "\n") {
		if strings.TrimSpace(snippet) == "" {
			continue
		}
		if !ContainsVerbatim(text, snippet) {
			return false
		}
		found = true
	}
	return found
}
