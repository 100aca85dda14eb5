package views

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sanitizeForTerminal drops codepoints that break tcell cell layout:
// emoji modifiers and joiners, variation selectors and control characters
// other than newline and tab. Invalid UTF-8 becomes U+FFFD.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if isProblematicRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// singleLine also folds line breaks into spaces, for table cells.
func singleLine(s string) string {
	s = sanitizeForTerminal(s)
	return strings.Join(strings.Fields(s), " ")
}

func isProblematicRune(r rune) bool {
	switch {
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors and their supplement.
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF:
		return true
	case r == '\n' || r == '\t':
		return false
	default:
		return unicode.IsControl(r)
	}
}
