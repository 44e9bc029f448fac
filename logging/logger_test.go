package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsSingletonPerComponent(t *testing.T) {
	a := NewLogger("poller")
	b := NewLogger("poller")
	c := NewLogger("renderer")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestTextFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "poll timed out",
		Data:    logrus.Fields{"component": "poller", "elapsed": "1s"},
	}

	f := &TextFormatter{}
	out, err := f.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "[WARN]")
	assert.Contains(t, line, "[poller]")
	assert.Contains(t, line, "poll timed out")
	assert.Contains(t, line, "elapsed=1s")
}

func TestSetOutputRedirectsExistingLoggers(t *testing.T) {
	entry := NewLogger("redirect-test")

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	entry.Warn("cursor field stale")
	assert.Contains(t, buf.String(), "cursor field stale")
}
