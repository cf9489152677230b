// Package preview shows the dashboard in a terminal, for working on layouts
// without a framebuffer attached.
package preview

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/fbdash/internal/canvas"
	"github.com/rileyhilliard/fbdash/internal/dashboard"
)

// Key bindings.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyRedraw  = "r"
)

const footerHeight = 1

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// Model is the Bubble Tea model for the terminal preview. It draws the
// dashboard into an in-memory canvas and prints the result with half blocks.
type Model struct {
	dash     *dashboard.Dashboard
	canvas   *canvas.Canvas
	sink     *canvas.MemorySink
	interval time.Duration

	width    int
	height   int
	frame    string
	frames   int
	lastErr  error
	quitting bool
}

// tickMsg signals a periodic redraw.
type tickMsg time.Time

// New creates a preview of d on a width x height canvas, redrawn every
// interval.
func New(d *dashboard.Dashboard, width, height int, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	sink := &canvas.MemorySink{}
	return Model{
		dash:     d,
		canvas:   canvas.New(width, height, sink),
		sink:     sink,
		interval: interval,
	}
}

// Init starts the redraw timer.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyQuit, KeyQuitAlt:
			m.quitting = true
			return m, tea.Quit
		case KeyRedraw:
			m.redraw()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.redraw()

	case tickMsg:
		m.redraw()
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the last drawn frame and a status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Waiting for terminal size..."
	}
	status := fmt.Sprintf("fbdash preview  %s quit  %s redraw  frame %d", KeyQuit, KeyRedraw, m.frames)
	if m.lastErr != nil {
		status += "  error: " + m.lastErr.Error()
	}
	return m.frame + "\n" + footerStyle.Render(status)
}

// Frames returns how many frames the preview has drawn.
func (m Model) Frames() int {
	return m.frames
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) redraw() {
	if m.width == 0 {
		return
	}
	m.dash.DrawFrame(m.canvas)
	if err := m.canvas.Blit(); err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.frames++

	rows := m.height - footerHeight
	if rows < 1 {
		rows = 1
	}
	m.frame = HalfBlocks(m.sink.Last(), m.width, rows)
}
