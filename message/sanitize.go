package message

import (
	"strings"
)

// replacements maps non-ASCII punctuation look-alikes to plain-ASCII
// equivalents so the status area keeps fixed-width rendering. Anything
// multi-byte that is not listed here is dropped outright.
var replacements = map[rune]string{
	'–': "-",   // en dash
	'—': "-",   // em dash
	'…': "...", // ellipsis
	'•': "*",   // bullet
	'→': "->",  // rightwards arrow
	'←': "<-",  // leftwards arrow
	'‘': "'",   // left single quote
	'’': "'",   // right single quote
	'“': `"`,   // left double quote
	'”': `"`,   // right double quote
	' ': " ",   // no-break space
}

// Sanitize rewrites text to the ASCII subset the status line can render at a
// predictable width. It never fails; the worst case is a shorter string.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteByte(' ')
		case r < 0x20:
			// Remaining control characters would corrupt the line.
		case r < 0x80:
			b.WriteRune(r)
		default:
			if repl, ok := replacements[r]; ok {
				b.WriteString(repl)
			}
		}
	}

	return b.String()
}
