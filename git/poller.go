// Package git reads the current branch name for the status line. The read
// goes through a spawned git process on a background ticker, with a hard
// timeout, so the render path never blocks on version control. A change to
// .git/HEAD triggers an immediate out-of-cycle poll when a filesystem
// watcher is available; polling alone is the fallback.
package git

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/statline/command"
	"github.com/grovetools/statline/logging"
)

const (
	// DefaultInterval is the poll ticker period.
	DefaultInterval = 5 * time.Second

	// DefaultTimeout bounds each spawned git process.
	DefaultTimeout = 1 * time.Second
)

// Poller owns the background branch reader. Exactly one poll is in flight
// at a time; a tick arriving while the previous poll still runs is skipped,
// so a slow completion can never overwrite a newer one.
type Poller struct {
	dir      string
	interval time.Duration
	runner   *command.Runner
	log      *logrus.Entry

	// OnBranch receives the branch name after a successful poll that changed
	// the value. Called from the poller goroutine.
	OnBranch func(branch string)

	mu       sync.Mutex
	running  bool
	inFlight bool
	branch   string
	cancel   context.CancelFunc
	kick     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the ticker period.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithRunner substitutes the subprocess runner. Intended for tests.
func WithRunner(r *command.Runner) Option {
	return func(p *Poller) { p.runner = r }
}

// NewPoller creates a poller for the repository containing dir.
func NewPoller(dir string, timeout time.Duration, opts ...Option) *Poller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Poller{
		dir:      dir,
		interval: DefaultInterval,
		runner:   command.NewRunner(timeout),
		log:      logging.NewLogger("git-poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background loop. Calling Start on a running poller is
// a no-op, which makes lazy-start from the branch field's compute function
// safe to repeat.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.kick = make(chan struct{}, 1)
	p.done = make(chan struct{})
	kick := p.kick
	done := p.done
	p.mu.Unlock()

	p.startWatcher()

	go p.loop(ctx, kick, done)

	// First value should appear without waiting out a full interval.
	p.Kick()
}

// Stop cancels the loop and releases the ticker and watcher. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	watcher := p.watcher
	p.watcher = nil
	p.mu.Unlock()

	cancel()
	<-done
	if watcher != nil {
		watcher.Close()
	}
}

// IsRunning reports whether the background loop is live.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Branch returns the most recently polled branch name, empty until the
// first successful poll.
func (p *Poller) Branch() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.branch
}

// Kick requests an immediate poll. Coalesces: multiple kicks before the
// loop services one collapse together.
func (p *Poller) Kick() {
	p.mu.Lock()
	kick := p.kick
	running := p.running
	p.mu.Unlock()

	if !running {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

// loop services ticks and kicks until the context is cancelled.
func (p *Poller) loop(ctx context.Context, kick chan struct{}, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-kick:
			p.poll(ctx)
		}
	}
}

// poll reads the branch once. Failure or empty output leaves the previous
// value untouched so transient git errors never blank the segment.
func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	out, err := p.runner.Output(ctx, p.dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		p.log.WithError(err).Debug("branch poll failed, keeping previous value")
		return
	}
	if out == "" {
		return
	}

	p.mu.Lock()
	changed := out != p.branch
	p.branch = out
	onBranch := p.OnBranch
	p.mu.Unlock()

	if changed && onBranch != nil {
		onBranch(out)
	}
}

// startWatcher wires a .git/HEAD watch so branch switches show up without
// waiting for the next tick. Any failure degrades to timer-only polling.
func (p *Poller) startWatcher() {
	headDir := filepath.Join(p.dir, ".git")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.log.WithError(err).Debug("fsnotify unavailable, timer-only polling")
		return
	}
	if err := watcher.Add(headDir); err != nil {
		p.log.WithError(err).Debug("cannot watch .git, timer-only polling")
		watcher.Close()
		return
	}

	p.mu.Lock()
	p.watcher = watcher
	p.mu.Unlock()

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				// HEAD is rewritten via rename on checkout.
				if filepath.Base(ev.Name) == "HEAD" {
					p.Kick()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}
