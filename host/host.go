// Package host declares the narrow surface this core needs from a host
// editor. The core operates on plain data behind these interfaces; only the
// adapter packages (nvim, the preview demo) know any editor's real API.
package host

import (
	"github.com/grovetools/statline/render"
)

// FileInfo describes the buffer shown in a pane.
type FileInfo struct {
	// Path is the absolute file path, empty for an unnamed buffer.
	Path string

	Modified bool
	Readonly bool
}

// CursorInfo is the cursor location, 1-indexed.
type CursorInfo struct {
	Line       int
	Col        int
	TotalLines int
}

// DiagnosticCounts holds per-severity diagnostic totals for the current
// file.
type DiagnosticCounts struct {
	Errors   int
	Warnings int
	Infos    int
	Hints    int
}

// Editor is the host's introspection surface. Implementations may be called
// from the render path and should answer quickly; errors degrade the
// affected field to its last cached value.
type Editor interface {
	Mode() (string, error)
	File() (FileInfo, error)
	Cursor() (CursorInfo, error)
	Diagnostics() (DiagnosticCounts, error)

	// Width returns the display width in cells; implementations may return
	// 0 when unknown.
	Width() int
}

// Display is the host's output surface.
type Display interface {
	// RequestRedraw asks the host to repaint the status area. It must be
	// fire-and-forget and tolerate being called more often than the host
	// repaints.
	RequestRedraw()

	// DefineStyles registers (or re-registers) the named styles.
	DefineStyles(styles map[string]render.Style) error
}
