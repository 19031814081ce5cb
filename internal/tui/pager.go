package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	xterm "github.com/charmbracelet/x/term"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meza/lcov-summary/internal/perf"
)

// header line + blank line above the viewport, help line + padding below
const pagerChromeHeight = 4

const (
	defaultPagerWidth  = 80
	defaultPagerHeight = 24
)

// PagerModel shows a long, read-only text in a scrollable viewport.
type PagerModel struct {
	title    string
	viewport viewport.Model
	help     help.Model
	keymap   PagerKeyMap
	quitting bool
}

func NewPagerModel(title string, content string, width int, height int) PagerModel {
	if width <= 0 {
		width = defaultPagerWidth
	}
	if height <= 0 {
		height = defaultPagerHeight
	}

	vp := viewport.New(width, max(height-pagerChromeHeight, 1))
	vp.SetContent(content)

	return PagerModel{
		title:    title,
		viewport: vp,
		help:     help.New(),
		keymap:   NewPagerKeyMap(),
	}
}

func (m PagerModel) Init() tea.Cmd {
	return nil
}

func (m PagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-pagerChromeHeight, 1)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keymap.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m PagerModel) View() string {
	if m.quitting {
		return ""
	}

	position := SubtleStyle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	return fmt.Sprintf("%s %s\n\n%s\n%s",
		TitleStyle.Render(m.title),
		position,
		m.viewport.View(),
		FooterStyle.Render(m.help.View(m.keymap)),
	)
}

// AtBottom reports whether the last line of the content is visible.
func (m PagerModel) AtBottom() bool {
	return m.viewport.AtBottom()
}

// AtTop reports whether the first line of the content is visible.
func (m PagerModel) AtTop() bool {
	return m.viewport.AtTop()
}

var terminalSize = func(out io.Writer) (int, int) {
	w, ok := out.(fdWriter)
	if !ok {
		return 0, 0
	}
	width, height, err := xterm.GetSize(w.Fd())
	if err != nil {
		return 0, 0
	}
	return width, height
}

// RunPager blocks until the user leaves the pager or ctx is cancelled.
func RunPager(ctx context.Context, title string, content string, in io.Reader, out io.Writer) error {
	ctx, span := perf.StartSpan(ctx, "tui.pager.session")
	defer span.End()

	width, height := terminalSize(out)
	span.SetAttributes(attribute.Int("width", width), attribute.Int("height", height))

	options := append(ProgramOptions(in, out), tea.WithContext(ctx))
	if IsTerminalWriter(out) {
		options = append(options, tea.WithAltScreen())
	}

	program := tea.NewProgram(NewPagerModel(title, content, width, height), options...)
	if _, err := program.Run(); err != nil {
		return err
	}
	span.AddEvent("tui.pager.closed")
	return nil
}
