package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAndExpiry(t *testing.T) {
	c := NewChannel(50 * time.Millisecond)

	c.Show("saved")
	got, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "saved", got)

	assert.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond, "message must clear when the timer fires")
}

func TestDuplicateShowDoesNotResetTimer(t *testing.T) {
	c := NewChannel(120 * time.Millisecond)

	c.Show("saved")
	time.Sleep(80 * time.Millisecond)
	c.Show("saved") // identical: must not re-arm

	// If the duplicate had restarted the countdown, the message would still
	// be visible at the original expiry time plus slack.
	time.Sleep(80 * time.Millisecond)
	_, ok := c.Current()
	assert.False(t, ok, "duplicate Show must not extend the message lifetime")
}

func TestSupersedingMessageRestartsCountdown(t *testing.T) {
	c := NewChannel(100 * time.Millisecond)

	c.Show("first")
	time.Sleep(60 * time.Millisecond)
	c.Show("second")
	time.Sleep(60 * time.Millisecond)

	got, ok := c.Current()
	require.True(t, ok, "second message got a fresh countdown")
	assert.Equal(t, "second", got)
}

func TestStaleExpiryDoesNotClearSuperseder(t *testing.T) {
	// A timer that has fired but not yet taken the lock must not clear a
	// message shown after it. Race the expiry of a short-lived message
	// against a superseding long-lived one.
	for i := 0; i < 50; i++ {
		c := NewChannel(time.Hour)

		c.Show("first", time.Millisecond)
		time.Sleep(time.Millisecond)
		c.Show("second")
		time.Sleep(5 * time.Millisecond)

		got, ok := c.Current()
		require.True(t, ok, "iteration %d: superseding message was cleared by the old expiry", i)
		assert.Equal(t, "second", got)
	}
}

func TestPerMessageTimeoutOverride(t *testing.T) {
	c := NewChannel(time.Hour)

	c.Show("quick", 30*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestClearAndClose(t *testing.T) {
	c := NewChannel(time.Hour)

	c.Show("lingering")
	c.Clear()
	_, ok := c.Current()
	assert.False(t, ok)

	c.Show("again")
	c.Close()
	c.Close() // idempotent
	_, ok = c.Current()
	assert.False(t, ok)

	c.Show("after close")
	_, ok = c.Current()
	assert.False(t, ok, "a closed channel ignores Show")
}

func TestOnUpdateFires(t *testing.T) {
	c := NewChannel(time.Hour)

	updates := 0
	c.OnUpdate = func() { updates++ }

	c.Show("one")
	c.Show("one") // dedupe: no update
	c.Show("two")
	c.Clear()

	assert.Equal(t, 3, updates)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii untouched", "build ok", "build ok"},
		{"en and em dash", "a – b — c", "a - b - c"},
		{"ellipsis", "loading…", "loading..."},
		{"bullet and arrows", "• go → here ← back", "* go -> here <- back"},
		{"curly quotes", "‘x’ “y”", `'x' "y"`},
		{"unlisted multibyte dropped", "ok 世界 done", "ok  done"},
		{"newline and tab become spaces", "a\nb\tc", "a b c"},
		{"control bytes dropped", "a\x07b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestShowSanitizesBeforeDedupe(t *testing.T) {
	c := NewChannel(time.Hour)

	updates := 0
	c.OnUpdate = func() { updates++ }

	c.Show("done…")
	c.Show("done...") // same after sanitizing

	got, _ := c.Current()
	assert.Equal(t, "done...", got)
	assert.Equal(t, 1, updates)
}
