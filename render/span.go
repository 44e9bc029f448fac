package render

import (
	"strings"
)

// Span is a run of text under a single named style. A rendered line is a
// flat span list; a style applies to all subsequent text until the next
// span, which is exactly the contract of statusline-style host markup.
type Span struct {
	Text  string
	Style string
}

// Spacer returns the flexible-gap pseudo-span separating the left and right
// segment groups.
func Spacer() Span {
	return Span{Style: StyleSpacer}
}

// Flatten joins the visible text of spans, skipping spacers. Used for width
// accounting and in tests.
func Flatten(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Style == StyleSpacer {
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// Encoder turns a span list into host-specific markup.
type Encoder func(spans []Span) string
