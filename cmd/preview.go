package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	statline "github.com/grovetools/statline"
	"github.com/grovetools/statline/cli"
	"github.com/grovetools/statline/config"
	"github.com/grovetools/statline/host"
	"github.com/grovetools/statline/progress"
	"github.com/grovetools/statline/render"
)

// NewPreviewCmd creates the preview command: an interactive terminal demo of
// the status line driven by a scriptable fake editor.
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the status line interactively in the terminal",
		Long: `Runs the status line against a fake editor so the configuration can be
tried without attaching to Neovim. Keys drive mode changes, cursor movement,
diagnostics, LSP progress, and messages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}

			m := newPreviewModel(cfg)
			defer m.ctrl.Shutdown()

			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return handler.Handle(err)
			}
			return nil
		},
	}
	return cmd
}

// previewKeys binds the demo controls.
type previewKeys struct {
	Quit        key.Binding
	Insert      key.Binding
	Visual      key.Binding
	Command     key.Binding
	Normal      key.Binding
	Down        key.Binding
	Up          key.Binding
	Diagnostics key.Binding
	Progress    key.Binding
	Message     key.Binding
	Modified    key.Binding
}

func newPreviewKeys() previewKeys {
	return previewKeys{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Insert:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert mode")),
		Visual:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visual mode")),
		Command:     key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command mode")),
		Normal:      key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "normal mode")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "move cursor")),
		Up:          key.NewBinding(key.WithKeys("k", "up")),
		Diagnostics: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "cycle diagnostics")),
		Progress:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "start LSP progress")),
		Message:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "send a message")),
		Modified:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle modified")),
	}
}

// ansiState renders spans with lipgloss. The encoder runs inside the
// controller, so width and styles sit behind a lock.
type ansiState struct {
	mu     sync.Mutex
	styles map[string]render.Style
	width  int
	color  bool
}

func (s *ansiState) setWidth(w int) {
	s.mu.Lock()
	s.width = w
	s.mu.Unlock()
}

func (s *ansiState) encode(spans []render.Span) string {
	s.mu.Lock()
	styles, width, color := s.styles, s.width, s.color
	s.mu.Unlock()

	if !color {
		return render.Flatten(spans)
	}

	var left, right strings.Builder
	out := &left
	for _, span := range spans {
		if span.Style == render.StyleSpacer {
			out = &right
			continue
		}
		out.WriteString(s.paint(styles, span))
	}

	gap := width - lipgloss.Width(left.String()) - lipgloss.Width(right.String())
	if gap < 1 {
		gap = 1
	}
	return left.String() + strings.Repeat(" ", gap) + right.String()
}

func (s *ansiState) paint(styles map[string]render.Style, span render.Span) string {
	st, ok := styles[span.Style]
	if !ok {
		return span.Text
	}
	style := lipgloss.NewStyle()
	if st.Fg != "" {
		style = style.Foreground(lipgloss.Color(st.Fg))
	}
	if st.Bg != "" {
		style = style.Background(lipgloss.Color(st.Bg))
	}
	if st.Bold {
		style = style.Bold(true)
	}
	if st.Italic {
		style = style.Italic(true)
	}
	return style.Render(span.Text)
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// diagnosticCycle is the set of diagnostic states the d key walks through.
var diagnosticCycle = []host.DiagnosticCounts{
	{},
	{Errors: 2},
	{Errors: 2, Warnings: 5},
	{Warnings: 1, Infos: 3, Hints: 7},
}

type previewModel struct {
	ctrl  *statline.Controller
	fake  *host.Fake
	ansi  *ansiState
	keys  previewKeys
	input textinput.Model

	typing      bool
	diagIndex   int
	progressPct int
	progressing bool
	totalLines  int
}

func newPreviewModel(cfg config.Config) *previewModel {
	fake := host.NewFake()
	fake.Set(func(f *host.Fake) {
		f.FileValue = host.FileInfo{Path: "src/editor/buffer.go"}
		f.CursorValue = host.CursorInfo{Line: 1, Col: 1, TotalLines: 120}
	})

	ansi := &ansiState{
		styles: cfg.StyleTable(),
		width:  80,
		color:  termenv.ColorProfile() != termenv.Ascii,
	}

	input := textinput.New()
	input.Placeholder = "message text"
	input.CharLimit = 120

	m := &previewModel{
		ctrl:       statline.New(cfg, fake, fake, statline.WithEncoder(ansi.encode)),
		fake:       fake,
		ansi:       ansi,
		keys:       newPreviewKeys(),
		input:      input,
		totalLines: 120,
	}
	return m
}

func (m *previewModel) Init() tea.Cmd {
	if err := m.ctrl.Setup(); err != nil {
		return tea.Quit
	}
	return tick()
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.fake.Set(func(f *host.Fake) { f.WidthValue = msg.Width })
		m.ansi.setWidth(msg.Width)
		return m, nil

	case tickMsg:
		if m.progressing {
			m.advanceProgress()
		}
		return m, tick()

	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *previewModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if text := m.input.Value(); text != "" {
			m.ctrl.Notify(text)
		}
		m.typing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case "esc":
		m.typing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *previewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Insert):
		m.setMode("i")
	case key.Matches(msg, m.keys.Visual):
		m.setMode("v")
	case key.Matches(msg, m.keys.Command):
		m.setMode("c")
	case key.Matches(msg, m.keys.Normal):
		m.setMode("n")

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Diagnostics):
		m.diagIndex = (m.diagIndex + 1) % len(diagnosticCycle)
		m.fake.Set(func(f *host.Fake) { f.DiagValue = diagnosticCycle[m.diagIndex] })
		m.ctrl.HandleEvent(statline.EventDiagnosticsChanged)

	case key.Matches(msg, m.keys.Progress):
		m.startProgress()

	case key.Matches(msg, m.keys.Message):
		m.typing = true
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Modified):
		m.fake.Set(func(f *host.Fake) { f.FileValue.Modified = !f.FileValue.Modified })
	}
	return m, nil
}

func (m *previewModel) setMode(mode string) {
	m.fake.Set(func(f *host.Fake) { f.ModeValue = mode })
	m.ctrl.HandleEvent(statline.EventCursorMoved)
}

func (m *previewModel) moveCursor(delta int) {
	m.fake.Set(func(f *host.Fake) {
		line := f.CursorValue.Line + delta
		if line < 1 {
			line = 1
		}
		if line > m.totalLines {
			line = m.totalLines
		}
		f.CursorValue.Line = line
	})
	m.ctrl.HandleEvent(statline.EventCursorMoved)
}

func (m *previewModel) startProgress() {
	if m.progressing {
		return
	}
	m.progressing = true
	m.progressPct = 0
	m.ctrl.Progress(progress.Notification{
		Token:         "demo/indexing",
		Kind:          progress.KindBegin,
		Title:         "Indexing",
		Percentage:    0,
		HasPercentage: true,
	})
}

func (m *previewModel) advanceProgress() {
	m.progressPct += 4
	if m.progressPct >= 100 {
		m.progressing = false
		m.ctrl.Progress(progress.Notification{
			Token: "demo/indexing",
			Kind:  progress.KindEnd,
		})
		return
	}
	m.ctrl.Progress(progress.Notification{
		Token:         "demo/indexing",
		Kind:          progress.KindReport,
		Message:       fmt.Sprintf("%d/120 files", m.progressPct+20),
		Percentage:    m.progressPct,
		HasPercentage: true,
	})
}

var (
	previewTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	previewDimStyle   = lipgloss.NewStyle().Faint(true)
)

func (m *previewModel) View() string {
	var b strings.Builder

	b.WriteString(previewTitleStyle.Render("statline preview"))
	b.WriteString("\n\n")
	b.WriteString(m.ctrl.RenderActive())
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("active window"))
	b.WriteString("\n\n")
	b.WriteString(m.ctrl.RenderInactive())
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("inactive window"))
	b.WriteString("\n\n")

	if m.typing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		help := []string{
			m.keys.Insert.Help().Key + " " + m.keys.Insert.Help().Desc,
			m.keys.Visual.Help().Key + " " + m.keys.Visual.Help().Desc,
			m.keys.Down.Help().Key + " " + m.keys.Down.Help().Desc,
			m.keys.Diagnostics.Help().Key + " " + m.keys.Diagnostics.Help().Desc,
			m.keys.Progress.Help().Key + " " + m.keys.Progress.Help().Desc,
			m.keys.Message.Help().Key + " " + m.keys.Message.Help().Desc,
			m.keys.Modified.Help().Key + " " + m.keys.Modified.Help().Desc,
			m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
		}
		b.WriteString(previewDimStyle.Render(strings.Join(help, " · ")))
		b.WriteString("\n")
	}

	return b.String()
}
