package nvim

import (
	"strings"

	"github.com/grovetools/statline/render"
)

// Markup encodes spans into Neovim statusline syntax. Each styled span
// becomes a %#Group# highlight switch, the spacer becomes %=, and literal
// percent signs are doubled so Neovim does not treat them as items.
func Markup(spans []render.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Style == render.StyleSpacer {
			b.WriteString("%=")
			continue
		}
		if s.Style != "" {
			b.WriteString("%#")
			b.WriteString(s.Style)
			b.WriteString("#")
		}
		b.WriteString(strings.ReplaceAll(s.Text, "%", "%%"))
	}
	// Reset so trailing fill does not inherit the last group.
	if b.Len() > 0 {
		b.WriteString("%#StatusLine#")
	}
	return b.String()
}
