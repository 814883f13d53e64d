package validation

import (
	"strings"
	"unicode"
)

// Sanitize reduces raw text to a bounded, control-character-free,
// whitespace-normalized string: C0 controls and DEL are stripped, runs of
// whitespace (tabs and newlines included) collapse to a single space, the
// result is trimmed and then truncated to maxLen runes. Total over any input;
// truncation happens after normalization.
func Sanitize(raw string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			// Leading whitespace never opens a run.
			pendingSpace = b.Len() > 0
		case r < 0x20 || r == 0x7F:
			// Non-whitespace controls vanish without leaving a space.
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	out := b.String()
	if maxLen > 0 {
		if runes := []rune(out); len(runes) > maxLen {
			// Cutting mid-run can expose a trailing space; drop it so
			// sanitizing is idempotent at the same bound.
			out = strings.TrimRight(string(runes[:maxLen]), " ")
		}
	}
	return out
}
