// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
	"unicode/utf8"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Prefix returns at most n runes from the start of s.
// Document limits are counted in characters, not bytes, so CJK text is never split mid-rune.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Truncate is Prefix plus a flag telling whether anything was cut.
func Truncate(s string, n int) (string, bool) {
	p := Prefix(s, n)
	return p, len(p) < len(s)
}

// RuneLen is utf8.RuneCountInString, named for call-site symmetry with Prefix.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }
