// Package logging provides pre-configured logrus loggers for statline
// components. The render path runs on every redraw request, so components
// keep everything there at debug level; anything noisier would swamp the
// host session log.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	output    io.Writer
)

// NewLogger returns the logger for a component, creating and configuring it
// on first use. Loggers are singletons per component name.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	levelStr := os.Getenv("STATLINE_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&TextFormatter{
		// Colors only make sense on an interactive stderr. When attached to
		// an editor over stdio, stderr usually ends up in a log file.
		Colors: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	})
	if output != nil {
		logger.SetOutput(output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetOutput redirects every existing and future logger to w. A nil writer
// restores stderr. Used by the serve command: stdout/stdin belong to the RPC
// transport, so logs must go elsewhere.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	output = w
	dest := w
	if dest == nil {
		dest = os.Stderr
	}
	for _, entry := range loggers {
		entry.Logger.SetOutput(dest)
	}
}
