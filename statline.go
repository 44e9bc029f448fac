// Package statline is the status-line core: a set of independently cached
// fields fed by asynchronous sources, merged into one throttled render pass.
// The Controller is the single context object owning every component; hosts
// construct one per editor session, call Setup, feed it events, and ask it
// to render.
package statline

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/statline/cache"
	"github.com/grovetools/statline/config"
	"github.com/grovetools/statline/git"
	"github.com/grovetools/statline/host"
	"github.com/grovetools/statline/logging"
	"github.com/grovetools/statline/message"
	"github.com/grovetools/statline/progress"
	"github.com/grovetools/statline/render"
)

// Event names an editor-originated occurrence the controller reacts to.
type Event string

const (
	// EventCursorMoved invalidates the position field.
	EventCursorMoved Event = "cursor-moved"
	// EventDiagnosticsChanged invalidates the diagnostics field.
	EventDiagnosticsChanged Event = "diagnostics-changed"
	// EventColorsChanged re-derives styles and repaints everything.
	EventColorsChanged Event = "colors-changed"
	// EventFocusChanged requests a redraw so panes swap between the active
	// and inactive line.
	EventFocusChanged Event = "focus-changed"
)

// Controller wires event sources to cache invalidation and owns every
// background resource. All exported methods are safe for concurrent use.
type Controller struct {
	cfg     config.Config
	editor  host.Editor
	display host.Display
	encoder render.Encoder
	workDir string
	log     *logrus.Entry

	mu        sync.Mutex
	installed bool

	fields   *cache.Cache
	tracker  *progress.Tracker
	messages *message.Channel
	renderer *render.Renderer
	poller   *git.Poller

	// redrawPending coalesces redraw requests: set when a request is
	// forwarded to the host, cleared when a render actually happens.
	redrawPending atomic.Bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithEncoder sets the markup encoder used by RenderActive/RenderInactive.
// The default flattens spans to plain text.
func WithEncoder(enc render.Encoder) Option {
	return func(c *Controller) { c.encoder = enc }
}

// WithWorkDir sets the directory the branch poller runs git in. Defaults to
// the process working directory.
func WithWorkDir(dir string) Option {
	return func(c *Controller) { c.workDir = dir }
}

// WithPoller substitutes the branch poller. Intended for tests.
func WithPoller(p *git.Poller) Option {
	return func(c *Controller) { c.poller = p }
}

// New creates a controller. Components are built immediately but stay inert
// until Setup registers styles with the host and marks the controller
// installed; only an installed controller renders or starts the poller.
func New(cfg config.Config, editor host.Editor, display host.Display, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		editor:  editor,
		display: display,
		encoder: render.Flatten,
		workDir: ".",
		log:     logging.NewLogger("statline"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.mu.Lock()
	c.buildLocked()
	c.mu.Unlock()
	return c
}

// buildLocked constructs fresh component state and hooks. Caller holds c.mu.
func (c *Controller) buildLocked() {
	c.fields = cache.New(c.cfg.TTLs())
	c.messages = message.NewChannel(c.cfg.MessageTimeout.Std())
	c.messages.OnUpdate = c.requestRedraw

	fields := c.fields
	c.tracker = progress.NewTracker()
	c.tracker.OnChange = func() {
		fields.Invalidate(cache.FieldLSPProgress)
		c.requestRedraw()
	}

	if c.poller == nil {
		c.poller = git.NewPoller(c.workDir, c.cfg.PollTimeout.Std(),
			git.WithInterval(c.cfg.PollInterval.Std()))
	}
	c.poller.OnBranch = func(branch string) {
		fields.Put(cache.FieldGitBranch, branch)
		c.requestRedraw()
	}

	c.renderer = render.New(c.fields, c.messages, c.sources(c.tracker, c.poller), render.Options{
		Throttle:        c.cfg.Throttle.Std(),
		MessageFraction: c.cfg.MessageFraction,
		BranchIcon:      c.cfg.Icons.Branch,
		InactiveBranch:  c.cfg.InactiveBranch,
		Width:           c.editor.Width,
	})
}

// sources binds each cache field to its host query or component snapshot.
func (c *Controller) sources(tracker *progress.Tracker, poller *git.Poller) render.Sources {
	return render.Sources{
		Mode: func() (string, error) {
			return c.editor.Mode()
		},
		File: func() (string, error) {
			info, err := c.editor.File()
			if err != nil {
				return "", err
			}
			return c.formatFile(info), nil
		},
		Branch: func() (string, error) {
			// The poller owns the truth for this field; the compute function
			// only ensures it is running and reads its last value. The TTL on
			// git-branch is a fallback net, not the refresh path.
			poller.Start()
			return poller.Branch(), nil
		},
		Diagnostics: func() (string, error) {
			d, err := c.editor.Diagnostics()
			if err != nil {
				return "", err
			}
			return render.EncodeDiagnostics(d.Errors, d.Warnings, d.Infos, d.Hints), nil
		},
		Position: func() (string, error) {
			cur, err := c.editor.Cursor()
			if err != nil {
				return "", err
			}
			return render.FormatPosition(cur.Line, cur.Col, cur.TotalLines), nil
		},
		Progress: func() (string, error) {
			return render.FormatProgress(tracker.Tasks()), nil
		},
	}
}

// formatFile builds the decorated file indicator.
func (c *Controller) formatFile(info host.FileInfo) string {
	name := c.cfg.Icons.NoName
	if info.Path != "" {
		name = filepath.Base(info.Path)
	}
	if info.Modified && c.cfg.Icons.Modified != "" {
		name += " " + c.cfg.Icons.Modified
	}
	if info.Readonly && c.cfg.Icons.Readonly != "" {
		name += " " + c.cfg.Icons.Readonly
	}
	return name
}

// Setup registers styles with the host and marks the controller installed.
// A second Setup tears the previous installation down first, so repeated
// calls never leak timers or double-install hooks.
func (c *Controller) Setup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.installed {
		c.teardownLocked()
		c.buildLocked()
	}

	if err := c.display.DefineStyles(c.cfg.StyleTable()); err != nil {
		return err
	}
	c.installed = true
	return nil
}

// Shutdown cancels the poller and message timer. Idempotent; cleanup of
// already-released resources is a silent no-op.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.installed = false
}

// teardownLocked releases background resources. Caller holds c.mu.
func (c *Controller) teardownLocked() {
	if c.poller != nil {
		c.poller.Stop()
	}
	if c.messages != nil {
		c.messages.Close()
	}
}

// components snapshots the current component set so callbacks keep working
// against a consistent generation across a concurrent re-Setup.
func (c *Controller) components() (*cache.Cache, *progress.Tracker, *message.Channel, *render.Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields, c.tracker, c.messages, c.renderer
}

// HandleEvent maps an editor event to its cache invalidation.
func (c *Controller) HandleEvent(ev Event) {
	fields, _, _, _ := c.components()
	switch ev {
	case EventCursorMoved:
		fields.Invalidate(cache.FieldPosition)
		c.requestRedraw()
	case EventDiagnosticsChanged:
		fields.Invalidate(cache.FieldDiagnostics)
		c.requestRedraw()
	case EventColorsChanged:
		c.RefreshColors()
	case EventFocusChanged:
		c.requestRedraw()
	default:
		c.log.WithField("event", ev).Debug("ignoring unknown event")
	}
}

// Progress feeds one notification from the host's progress stream.
func (c *Controller) Progress(n progress.Notification) {
	_, tracker, _, _ := c.components()
	tracker.Apply(n)
}

// Notify routes text through the message channel. Hosts that intercept
// their own echo primitives call this instead of painting directly.
func (c *Controller) Notify(text string) {
	_, _, messages, _ := c.components()
	messages.Show(text)
}

// ClearMessage drops the current message immediately.
func (c *Controller) ClearMessage() {
	_, _, messages, _ := c.components()
	messages.Clear()
}

// RefreshColors re-derives the style table and forces every field stale so
// the next render repaints under the new styles.
func (c *Controller) RefreshColors() {
	if err := c.display.DefineStyles(c.cfg.StyleTable()); err != nil {
		c.log.WithError(err).Warn("style re-registration failed")
	}
	fields, _, _, _ := c.components()
	fields.InvalidateAll()
	c.requestRedraw()
}

// RenderSpans returns the structured line for hosts that consume spans.
// A controller that is not installed renders nothing: field sources must
// stay untouched before Setup and after Shutdown, or a stray render from
// the host would restart the branch poller.
func (c *Controller) RenderSpans(active bool) []render.Span {
	c.mu.Lock()
	installed := c.installed
	renderer := c.renderer
	c.mu.Unlock()

	if !installed {
		return nil
	}
	c.redrawPending.Store(false)
	return renderer.Render(active)
}

// RenderActive returns the encoded line for the focused pane.
func (c *Controller) RenderActive() string {
	return c.encoder(c.RenderSpans(true))
}

// RenderInactive returns the encoded line for unfocused panes.
func (c *Controller) RenderInactive() string {
	return c.encoder(c.RenderSpans(false))
}

// requestRedraw forwards at most one redraw request to the host per paint:
// requests issued before the next render collapse together.
func (c *Controller) requestRedraw() {
	if c.redrawPending.CompareAndSwap(false, true) {
		c.display.RequestRedraw()
	}
}
