// Package render composes the status line from the field cache, the
// progress tracker, and the message slot into a flat list of styled spans.
// The full composition is throttled: redraw storms from the host collapse
// into one computation per throttle interval.
package render

import (
	"strconv"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/grovetools/statline/cache"
	"github.com/grovetools/statline/logging"
	"github.com/grovetools/statline/message"
)

// DefaultThrottle is the minimum spacing between full render computations.
const DefaultThrottle = 75 * time.Millisecond

// DefaultMessageFraction is the share of the display width a message may
// occupy before truncation.
const DefaultMessageFraction = 0.3

// Sources supplies the compute function for each cached field. All return
// display-ready text except Diagnostics, which returns the EncodeDiagnostics
// form, and Mode, which returns the raw host mode identifier.
type Sources struct {
	Mode        func() (string, error)
	File        func() (string, error)
	Branch      func() (string, error)
	Diagnostics func() (string, error)
	Position    func() (string, error)
	Progress    func() (string, error)
}

// Options configures composition.
type Options struct {
	// Throttle is the minimum interval between recomputations; zero means
	// DefaultThrottle.
	Throttle time.Duration

	// MessageFraction caps the message segment at this share of the display
	// width; zero means DefaultMessageFraction.
	MessageFraction float64

	// BranchIcon is prepended to the branch name when non-empty.
	BranchIcon string

	// InactiveBranch includes the branch segment in the inactive line.
	InactiveBranch bool

	// Width reports the current display width in cells; nil or non-positive
	// results fall back to 80.
	Width func() int
}

// Renderer composes span lines. Safe for concurrent use.
type Renderer struct {
	cache    *cache.Cache
	sources  Sources
	messages *message.Channel
	opts     Options
	now      func() time.Time

	mu             sync.Mutex
	lastActive     []Span
	lastActiveAt   time.Time
	lastInactive   []Span
	lastInactiveAt time.Time
}

// New creates a renderer over the given collaborators.
func New(c *cache.Cache, messages *message.Channel, sources Sources, opts Options) *Renderer {
	if opts.Throttle <= 0 {
		opts.Throttle = DefaultThrottle
	}
	if opts.MessageFraction <= 0 || opts.MessageFraction > 1 {
		opts.MessageFraction = DefaultMessageFraction
	}
	return &Renderer{
		cache:    c,
		sources:  sources,
		messages: messages,
		opts:     opts,
		now:      time.Now,
	}
}

// SetClock replaces the throttle time source. Intended for tests.
func (r *Renderer) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Render returns the span line for the active or an inactive pane. Within
// the throttle window the previous result is returned verbatim.
func (r *Renderer) Render(active bool) []Span {
	r.mu.Lock()
	now := r.now()
	if active {
		if r.lastActive != nil && now.Sub(r.lastActiveAt) < r.opts.Throttle {
			spans := r.lastActive
			r.mu.Unlock()
			return spans
		}
	} else {
		if r.lastInactive != nil && now.Sub(r.lastInactiveAt) < r.opts.Throttle {
			spans := r.lastInactive
			r.mu.Unlock()
			return spans
		}
	}
	r.mu.Unlock()

	var spans []Span
	if active {
		spans = r.composeActive()
	} else {
		spans = r.composeInactive()
	}

	r.mu.Lock()
	if active {
		r.lastActive = spans
		r.lastActiveAt = now
	} else {
		r.lastInactive = spans
		r.lastInactiveAt = now
	}
	r.mu.Unlock()
	return spans
}

// composeActive builds the full line: mode, file, branch, progress, message,
// flexible gap, diagnostics, position.
func (r *Renderer) composeActive() []Span {
	spans := make([]Span, 0, 12)

	label, modeStyle := ModeDisplay(r.field(cache.FieldMode, r.sources.Mode))
	spans = append(spans, Span{Text: " " + label + " ", Style: modeStyle})

	file := r.field(cache.FieldFile, r.sources.File)
	spans = append(spans, Span{Text: " " + file + " ", Style: StyleFile})

	if branch := r.field(cache.FieldGitBranch, r.sources.Branch); branch != "" {
		text := branch
		if r.opts.BranchIcon != "" {
			text = r.opts.BranchIcon + " " + branch
		}
		spans = append(spans, Span{Text: text + " ", Style: StyleBranch})
	}

	if prog := r.field(cache.FieldLSPProgress, r.sources.Progress); prog != "" {
		spans = append(spans, Span{Text: prog + " ", Style: StyleProgress})
	}

	if msg, ok := r.messages.Current(); ok {
		spans = append(spans, Span{Text: r.truncateMessage(msg) + " ", Style: StyleMessage})
	}

	spans = append(spans, Spacer())

	spans = append(spans, r.diagnosticSpans()...)

	pos := r.field(cache.FieldPosition, r.sources.Position)
	spans = append(spans, Span{Text: " " + pos + " ", Style: StylePosition})

	return spans
}

// composeInactive builds the cheap line for unfocused panes: file only, plus
// branch when configured.
func (r *Renderer) composeInactive() []Span {
	spans := make([]Span, 0, 3)

	file := r.field(cache.FieldFile, r.sources.File)
	spans = append(spans, Span{Text: " " + file + " ", Style: StyleInactive})

	if r.opts.InactiveBranch {
		if branch := r.field(cache.FieldGitBranch, r.sources.Branch); branch != "" {
			spans = append(spans, Span{Text: branch + " ", Style: StyleInactive})
		}
	}

	return spans
}

// diagnosticSpans renders per-severity counts in fixed order, omitting
// zero counts entirely.
func (r *Renderer) diagnosticSpans() []Span {
	encoded := r.field(cache.FieldDiagnostics, r.sources.Diagnostics)
	errors, warnings, infos, hints := decodeDiagnostics(encoded)

	type sev struct {
		prefix string
		count  int
		style  string
	}
	order := []sev{
		{"E", errors, StyleDiagError},
		{"W", warnings, StyleDiagWarn},
		{"I", infos, StyleDiagInfo},
		{"H", hints, StyleDiagHint},
	}

	var spans []Span
	for _, s := range order {
		if s.count > 0 {
			spans = append(spans, Span{
				Text:  " " + s.prefix + ":" + strconv.Itoa(s.count),
				Style: s.style,
			})
		}
	}
	return spans
}

// field reads one cached field, recovering from a panicking compute by
// serving the last-known-good value. The render path must be total: it runs
// inside the host's synchronous display callback.
func (r *Renderer) field(f cache.Field, compute func() (string, error)) (value string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.NewLogger("renderer").WithField("field", f).
				Debugf("compute panicked, serving cached value: %v", rec)
			value = r.cache.Peek(f)
		}
	}()

	if compute == nil {
		return r.cache.Peek(f)
	}
	return r.cache.Get(f, compute)
}

// truncateMessage caps the message at the configured fraction of the display
// width, measured in terminal cells, appending a one-cell ellipsis marker
// when truncation happened.
func (r *Renderer) truncateMessage(msg string) string {
	width := 80
	if r.opts.Width != nil {
		if w := r.opts.Width(); w > 0 {
			width = w
		}
	}
	maxCells := int(float64(width) * r.opts.MessageFraction)
	if maxCells < 1 {
		maxCells = 1
	}
	if runewidth.StringWidth(msg) <= maxCells {
		return msg
	}
	return runewidth.Truncate(msg, maxCells, "…")
}
