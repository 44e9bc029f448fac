// Package message implements the single-slot transient notification shown in
// the status line. At most one message is live; a newer message supersedes
// the current one and restarts the expiry countdown, while an identical
// message is absorbed without touching the timer to avoid redraw flicker.
package message

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a message stays visible when the caller does
// not specify a duration.
const DefaultTimeout = 3 * time.Second

// Channel is the message slot. All methods are safe for concurrent use.
type Channel struct {
	mu      sync.Mutex
	text    string
	timer   *time.Timer
	timeout time.Duration
	closed  bool

	// gen invalidates expiry callbacks that fired before their timer was
	// stopped but have not taken the lock yet. Every state change bumps it;
	// an expire armed for an older generation is a no-op.
	gen uint64

	// OnUpdate fires outside the lock whenever the visible message changed:
	// a new message, an expiry, or an explicit clear. The controller hooks
	// it to request a redraw.
	OnUpdate func()
}

// NewChannel creates a channel with the given default timeout; zero or
// negative means DefaultTimeout.
func NewChannel(timeout time.Duration) *Channel {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Channel{timeout: timeout}
}

// Show sanitizes and displays text. An optional timeout overrides the
// channel default for this message only. Showing the exact text already on
// screen is a no-op so repeated identical notifications do not restart the
// countdown. An empty (or fully sanitized-away) text clears the slot.
func (c *Channel) Show(text string, timeout ...time.Duration) {
	clean := Sanitize(text)

	c.mu.Lock()
	if c.closed || clean == c.text {
		c.mu.Unlock()
		return
	}

	c.stopTimerLocked()
	c.text = clean
	c.gen++

	if clean != "" {
		d := c.timeout
		if len(timeout) > 0 && timeout[0] > 0 {
			d = timeout[0]
		}
		gen := c.gen
		c.timer = time.AfterFunc(d, func() { c.expire(gen) })
	}
	onUpdate := c.OnUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
}

// Clear removes the current message immediately.
func (c *Channel) Clear() {
	c.mu.Lock()
	if c.text == "" {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.text = ""
	c.gen++
	onUpdate := c.OnUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
}

// Current returns the live message, if any.
func (c *Channel) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.text != ""
}

// Close releases the pending timer. Further Show calls are ignored. Safe to
// call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
	c.text = ""
	c.gen++
}

// expire is the timer callback, armed for one specific generation.
func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || c.text == "" || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.text = ""
	c.timer = nil
	onUpdate := c.OnUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
}

// stopTimerLocked cancels the pending expiry. Caller must hold c.mu.
func (c *Channel) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
