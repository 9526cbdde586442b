package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Progress bar styles
var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 30

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// =============================================================================
// ProgressModel - Frame encoding progress
// =============================================================================

type frameMsg struct{ done, total int }

type finishedMsg struct{ err error }

// ProgressModel is the bubbletea model showing GIF encoding progress.
type ProgressModel struct {
	Title     string
	Done      int
	Total     int
	Err       error
	Finished  bool
	Cancelled bool
}

// NewProgressModel creates a progress model with the given title.
func NewProgressModel(title string) ProgressModel {
	return ProgressModel{Title: title}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Cancelled = true
			return m, tea.Quit
		}
	case frameMsg:
		m.Done, m.Total = msg.done, msg.total
	case finishedMsg:
		m.Finished = true
		m.Err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Finished || m.Cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleIconSpinner.Render(iconInfo))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.Title))
	b.WriteString("\n  ")
	b.WriteString(renderBar(m.Done, m.Total, barWidth))
	if m.Total > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" %d/%d frames", m.Done, m.Total)))
	}
	b.WriteString("\n")
	return b.String()
}

// renderBar draws a width-cell bar filled to done/total.
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// runWithProgress runs fn while a progress bar tracks the frames it
// reports. It returns fn's error, or context.Canceled when the user quits.
func runWithProgress(ctx context.Context, title string, fn func(report func(done, total int)) error) error {
	p := tea.NewProgram(NewProgressModel(title), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	go func() {
		err := fn(func(done, total int) { p.Send(frameMsg{done, total}) })
		p.Send(finishedMsg{err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(ProgressModel)
	if m.Cancelled {
		return context.Canceled
	}
	return m.Err
}
