package nvim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/statline/progress"
	"github.com/grovetools/statline/render"
)

func TestMarkup(t *testing.T) {
	t.Run("styled spans become highlight switches", func(t *testing.T) {
		out := Markup([]render.Span{
			{Text: " NORMAL ", Style: render.StyleModeNormal},
			{Text: " main.go ", Style: render.StyleFile},
		})
		assert.Equal(t, "%#StatlineModeNormal# NORMAL %#StatlineFile# main.go %#StatusLine#", out)
	})

	t.Run("spacer becomes fill item", func(t *testing.T) {
		out := Markup([]render.Span{
			{Text: "left", Style: render.StyleFile},
			render.Spacer(),
			{Text: "right", Style: render.StylePosition},
		})
		assert.Contains(t, out, "left%=")
		assert.Contains(t, out, "right")
	})

	t.Run("percent signs are escaped", func(t *testing.T) {
		out := Markup([]render.Span{{Text: "Ln 1, Col 1 | 50%", Style: render.StylePosition}})
		assert.Contains(t, out, "50%%")
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Equal(t, "", Markup(nil))
	})
}

func TestHighlightCommand(t *testing.T) {
	tests := []struct {
		name  string
		style render.Style
		want  string
	}{
		{
			name:  "fg bg and bold",
			style: render.Style{Fg: "#ffffff", Bg: "#005f87", Bold: true},
			want:  "highlight StatlineModeNormal guifg=#ffffff guibg=#005f87 gui=bold",
		},
		{
			name:  "plain colors reset attrs",
			style: render.Style{Fg: "#888888"},
			want:  "highlight StatlineModeNormal guifg=#888888 gui=NONE",
		},
		{
			name:  "italic only",
			style: render.Style{Italic: true},
			want:  "highlight StatlineModeNormal gui=italic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, highlightCommand("StatlineModeNormal", tt.style))
		})
	}
}

func TestParseProgress(t *testing.T) {
	t.Run("begin with percentage", func(t *testing.T) {
		n, err := parseProgress(map[string]interface{}{
			"token":      "rust-analyzer/indexing",
			"kind":       "begin",
			"title":      "Indexing",
			"percentage": int64(0),
		})
		require.NoError(t, err)
		assert.Equal(t, progress.KindBegin, n.Kind)
		assert.Equal(t, "Indexing", n.Title)
		assert.True(t, n.HasPercentage)
		assert.Equal(t, 0, n.Percentage)
	})

	t.Run("numeric token is stringified", func(t *testing.T) {
		n, err := parseProgress(map[string]interface{}{
			"token": int64(7),
			"kind":  "end",
		})
		require.NoError(t, err)
		assert.Equal(t, "7", n.Token)
		assert.Equal(t, progress.KindEnd, n.Kind)
	})

	t.Run("report without percentage", func(t *testing.T) {
		n, err := parseProgress(map[string]interface{}{
			"token":   "t",
			"kind":    "report",
			"message": "3/120 crates",
		})
		require.NoError(t, err)
		assert.False(t, n.HasPercentage)
		assert.Equal(t, "3/120 crates", n.Message)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		_, err := parseProgress(map[string]interface{}{"kind": "begin"})
		assert.Error(t, err)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := parseProgress(map[string]interface{}{"token": "t", "kind": "pause"})
		assert.Error(t, err)
	})
}
