package host

import (
	"sync"

	"github.com/grovetools/statline/render"
)

// Fake is a scriptable Editor and Display for tests and the preview demo.
// Every field is settable; call counters record how often the core actually
// queried the host.
type Fake struct {
	mu sync.Mutex

	ModeValue   string
	FileValue   FileInfo
	CursorValue CursorInfo
	DiagValue   DiagnosticCounts
	WidthValue  int

	// Err, when set, is returned from every query.
	Err error

	ModeCalls   int
	FileCalls   int
	CursorCalls int
	DiagCalls   int

	RedrawRequests int
	Styles         map[string]render.Style
	StyleDefines   int
}

// NewFake returns a fake positioned at the top of an empty unnamed buffer in
// normal mode.
func NewFake() *Fake {
	return &Fake{
		ModeValue:   "n",
		CursorValue: CursorInfo{Line: 1, Col: 1, TotalLines: 1},
		WidthValue:  80,
	}
}

// Set mutates fake state under the lock.
func (f *Fake) Set(mutate func(*Fake)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(f)
}

func (f *Fake) Mode() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ModeCalls++
	return f.ModeValue, f.Err
}

func (f *Fake) File() (FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FileCalls++
	return f.FileValue, f.Err
}

func (f *Fake) Cursor() (CursorInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CursorCalls++
	return f.CursorValue, f.Err
}

func (f *Fake) Diagnostics() (DiagnosticCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DiagCalls++
	return f.DiagValue, f.Err
}

func (f *Fake) Width() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.WidthValue
}

func (f *Fake) RequestRedraw() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RedrawRequests++
}

func (f *Fake) DefineStyles(styles map[string]render.Style) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StyleDefines++
	f.Styles = styles
	return f.Err
}

// Redraws returns the redraw-request count.
func (f *Fake) Redraws() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RedrawRequests
}
