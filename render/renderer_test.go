package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/statline/cache"
	"github.com/grovetools/statline/message"
)

// testEnv bundles a renderer with settable sources and call counters.
type testEnv struct {
	renderer *Renderer
	cache    *cache.Cache
	messages *message.Channel
	clock    time.Time

	mode, file, branch, diags, position, progress string
	renders                                       map[string]*int
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:    time.Unix(1700000000, 0),
		mode:     "n",
		file:     "[No Name]",
		diags:    EncodeDiagnostics(0, 0, 0, 0),
		position: FormatPosition(1, 1, 1),
		renders:  make(map[string]*int),
	}

	// Zero TTLs: every uncached read recomputes, so throttle behavior is
	// observable through the source counters.
	env.cache = cache.New(nil)
	env.cache.SetClock(func() time.Time { return env.clock })
	env.messages = message.NewChannel(time.Hour)

	counted := func(name string, get func() string) func() (string, error) {
		n := new(int)
		env.renders[name] = n
		return func() (string, error) {
			*n++
			return get(), nil
		}
	}

	sources := Sources{
		Mode:        counted("mode", func() string { return env.mode }),
		File:        counted("file", func() string { return env.file }),
		Branch:      counted("branch", func() string { return env.branch }),
		Diagnostics: counted("diags", func() string { return env.diags }),
		Position:    counted("position", func() string { return env.position }),
		Progress:    counted("progress", func() string { return env.progress }),
	}

	env.renderer = New(env.cache, env.messages, sources, opts)
	env.renderer.SetClock(func() time.Time { return env.clock })
	return env
}

func (e *testEnv) advance(d time.Duration) { e.clock = e.clock.Add(d) }

func TestActiveLineComposition(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mode = "n"
	env.file = "main.go [+]"
	env.position = FormatPosition(5, 1, 10)

	spans := env.renderer.Render(true)
	line := Flatten(spans)

	assert.Contains(t, line, "NORMAL")
	assert.Contains(t, line, "main.go [+]")
	assert.NotContains(t, line, "E:", "no diagnostics segment for zero counts")
	assert.Contains(t, line, "Ln 5, Col 1 | 50%")

	t.Run("no branch segment when branch is empty", func(t *testing.T) {
		for _, s := range spans {
			assert.NotEqual(t, StyleBranch, s.Style)
		}
	})

	t.Run("spacer separates left and right groups", func(t *testing.T) {
		var spacerIdx, posIdx int
		for i, s := range spans {
			switch s.Style {
			case StyleSpacer:
				spacerIdx = i
			case StylePosition:
				posIdx = i
			}
		}
		assert.Less(t, spacerIdx, posIdx)
	})
}

func TestBranchAndProgressSegments(t *testing.T) {
	env := newTestEnv(t, Options{BranchIcon: "*"})
	env.branch = "feature/login"
	env.progress = "Indexing 50%"

	line := Flatten(env.renderer.Render(true))
	assert.Contains(t, line, "* feature/login")
	assert.Contains(t, line, "Indexing 50%")
}

func TestDiagnosticsOrderingAndOmission(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.diags = EncodeDiagnostics(2, 0, 1, 3)

	spans := env.renderer.Render(true)
	line := Flatten(spans)

	assert.Contains(t, line, "E:2")
	assert.NotContains(t, line, "W:", "zero warn count contributes nothing")
	assert.Contains(t, line, "I:1")
	assert.Contains(t, line, "H:3")

	e := strings.Index(line, "E:2")
	i := strings.Index(line, "I:1")
	h := strings.Index(line, "H:3")
	assert.True(t, e < i && i < h, "severity order must be error, info, hint")
}

func TestThrottleCollapsesBursts(t *testing.T) {
	env := newTestEnv(t, Options{Throttle: 50 * time.Millisecond})

	var first []Span
	for i := 0; i < 10; i++ {
		spans := env.renderer.Render(true)
		if first == nil {
			first = spans
		}
		require.Equal(t, Flatten(first), Flatten(spans))
		env.advance(time.Millisecond)
	}

	assert.Equal(t, 1, *env.renders["mode"], "burst must compute once")
	assert.Equal(t, 1, *env.renders["position"])

	env.advance(100 * time.Millisecond)
	env.renderer.Render(true)
	assert.Equal(t, 2, *env.renders["mode"], "render after the window recomputes")
}

func TestMessageTruncation(t *testing.T) {
	env := newTestEnv(t, Options{
		MessageFraction: 0.3,
		Width:           func() int { return 80 },
	})

	long := "this is a message longer than twenty four characters"
	env.messages.Show(long)

	spans := env.renderer.Render(true)
	var msg string
	for _, s := range spans {
		if s.Style == StyleMessage {
			msg = strings.TrimRight(s.Text, " ")
		}
	}
	require.NotEmpty(t, msg)

	// 24 cells available: 23 cells of text plus the one-cell marker.
	assert.Equal(t, long[:23]+"…", msg)

	t.Run("short message is untouched", func(t *testing.T) {
		env.advance(time.Second)
		env.messages.Show("saved")
		spans := env.renderer.Render(true)
		assert.Contains(t, Flatten(spans), "saved")
	})
}

func TestInactiveLineIsFileOnly(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.file = "main.go"
	env.branch = "main"
	env.diags = EncodeDiagnostics(5, 5, 5, 5)
	env.messages.Show("busy")

	spans := env.renderer.Render(false)
	line := Flatten(spans)

	assert.Contains(t, line, "main.go")
	assert.NotContains(t, line, "NORMAL")
	assert.NotContains(t, line, "E:5")
	assert.NotContains(t, line, "busy")

	t.Run("branch optional via config", func(t *testing.T) {
		env2 := newTestEnv(t, Options{InactiveBranch: true})
		env2.file = "main.go"
		env2.branch = "main"
		line := Flatten(env2.renderer.Render(false))
		assert.Contains(t, line, "main")
	})
}

func TestPanickingSourceDegradesToCachedValue(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.cache.Put(cache.FieldFile, "last-good.go")
	env.cache.Invalidate(cache.FieldFile)

	boom := func() (string, error) { panic("host connection lost") }
	r := New(env.cache, env.messages, Sources{
		Mode:        boom,
		File:        boom,
		Branch:      boom,
		Diagnostics: boom,
		Position:    boom,
		Progress:    boom,
	}, Options{})
	r.SetClock(func() time.Time { return env.clock })

	var spans []Span
	require.NotPanics(t, func() { spans = r.Render(true) })
	assert.Contains(t, Flatten(spans), "last-good.go")
}

func TestUnknownModeFallsBack(t *testing.T) {
	label, style := ModeDisplay("zz-custom")
	assert.Equal(t, "zz-custom", label)
	assert.Equal(t, StyleModeOther, style)

	label, style = ModeDisplay("niI")
	assert.Equal(t, "NORMAL", label)
	assert.Equal(t, StyleModeNormal, style)
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mode = "n"
	env.file = "main.go [+]"
	env.branch = ""
	env.diags = EncodeDiagnostics(0, 0, 0, 0)
	env.position = FormatPosition(5, 1, 10)

	line := Flatten(env.renderer.Render(true))

	assert.Contains(t, line, "NORMAL")
	assert.Contains(t, line, "main.go")
	assert.Contains(t, line, "[+]")
	assert.NotContains(t, line, "E:")
	assert.Contains(t, line, "Ln 5, Col 1 | 50%")
}
