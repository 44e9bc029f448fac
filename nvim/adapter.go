// Package nvim adapts the statline core to Neovim over RPC. It is the only
// package that knows Neovim's API; the core sees it through the host
// interfaces.
package nvim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/neovim/go-client/nvim"

	"github.com/grovetools/statline/errors"
	"github.com/grovetools/statline/host"
	"github.com/grovetools/statline/logging"
	"github.com/grovetools/statline/render"
)

// Adapter implements host.Editor and host.Display against a live Neovim
// instance.
type Adapter struct {
	v *nvim.Nvim
}

// NewAdapter wraps an attached client.
func NewAdapter(v *nvim.Nvim) *Adapter {
	return &Adapter{v: v}
}

// Mode returns Neovim's mode identifier ("n", "i", "v", ...).
func (a *Adapter) Mode() (string, error) {
	m, err := a.v.Mode()
	if err != nil {
		return "", errors.HostRPC("nvim_get_mode", err)
	}
	return m.Mode, nil
}

// File describes the current buffer.
func (a *Adapter) File() (host.FileInfo, error) {
	buf, err := a.v.CurrentBuffer()
	if err != nil {
		return host.FileInfo{}, errors.HostRPC("nvim_get_current_buf", err)
	}

	name, err := a.v.BufferName(buf)
	if err != nil {
		return host.FileInfo{}, errors.HostRPC("nvim_buf_get_name", err)
	}

	var modified, readonly bool
	if err := a.v.BufferOption(buf, "modified", &modified); err != nil {
		return host.FileInfo{}, errors.HostRPC("nvim_buf_get_option", err)
	}
	if err := a.v.BufferOption(buf, "readonly", &readonly); err != nil {
		return host.FileInfo{}, errors.HostRPC("nvim_buf_get_option", err)
	}

	return host.FileInfo{Path: name, Modified: modified, Readonly: readonly}, nil
}

// Cursor reports the 1-indexed cursor position and the buffer line count.
func (a *Adapter) Cursor() (host.CursorInfo, error) {
	win, err := a.v.CurrentWindow()
	if err != nil {
		return host.CursorInfo{}, errors.HostRPC("nvim_get_current_win", err)
	}
	pos, err := a.v.WindowCursor(win)
	if err != nil {
		return host.CursorInfo{}, errors.HostRPC("nvim_win_get_cursor", err)
	}
	buf, err := a.v.CurrentBuffer()
	if err != nil {
		return host.CursorInfo{}, errors.HostRPC("nvim_get_current_buf", err)
	}
	total, err := a.v.BufferLineCount(buf)
	if err != nil {
		return host.CursorInfo{}, errors.HostRPC("nvim_buf_line_count", err)
	}

	return host.CursorInfo{
		Line:       pos[0],
		Col:        pos[1] + 1, // nvim columns are 0-indexed
		TotalLines: total,
	}, nil
}

// Diagnostics counts diagnostics for the current buffer by severity.
func (a *Adapter) Diagnostics() (host.DiagnosticCounts, error) {
	var counts [4]int
	const query = `
		local c = vim.diagnostic.count(0)
		local s = vim.diagnostic.severity
		return {c[s.ERROR] or 0, c[s.WARN] or 0, c[s.INFO] or 0, c[s.HINT] or 0}
	`
	if err := a.v.ExecLua(query, &counts); err != nil {
		return host.DiagnosticCounts{}, errors.HostRPC("vim.diagnostic.count", err)
	}
	return host.DiagnosticCounts{
		Errors:   counts[0],
		Warnings: counts[1],
		Infos:    counts[2],
		Hints:    counts[3],
	}, nil
}

// Width reports the current window width in cells, 0 when unknown.
func (a *Adapter) Width() int {
	win, err := a.v.CurrentWindow()
	if err != nil {
		return 0
	}
	w, err := a.v.WindowWidth(win)
	if err != nil {
		return 0
	}
	return w
}

// RequestRedraw asks Neovim to repaint status lines. Runs off the caller's
// goroutine: redraw requests come from timer and watcher callbacks that
// must never block on RPC.
func (a *Adapter) RequestRedraw() {
	go func() {
		if err := a.v.Command("redrawstatus!"); err != nil {
			logging.NewLogger("nvim").WithError(err).Debug("redrawstatus failed")
		}
	}()
}

// DefineStyles registers one highlight group per style.
func (a *Adapter) DefineStyles(styles map[string]render.Style) error {
	// Deterministic order keeps :highlight listings and logs stable.
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == render.StyleSpacer {
			continue
		}
		if err := a.v.Command(highlightCommand(name, styles[name])); err != nil {
			return errors.HostRPC("highlight "+name, err)
		}
	}
	return nil
}

// highlightCommand builds the :highlight definition for one style.
func highlightCommand(name string, s render.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "highlight %s", name)
	if s.Fg != "" {
		fmt.Fprintf(&b, " guifg=%s", s.Fg)
	}
	if s.Bg != "" {
		fmt.Fprintf(&b, " guibg=%s", s.Bg)
	}
	attrs := make([]string, 0, 2)
	if s.Bold {
		attrs = append(attrs, "bold")
	}
	if s.Italic {
		attrs = append(attrs, "italic")
	}
	if len(attrs) > 0 {
		fmt.Fprintf(&b, " gui=%s", strings.Join(attrs, ","))
	} else {
		b.WriteString(" gui=NONE")
	}
	return b.String()
}
