package plot

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	frameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")).MarginBottom(1)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const (
	statsWidth  = 28
	minPlotCols = 20
)

// Viewer is the bubbletea model behind Display.
type Viewer struct {
	series Series
	width  int
	done   bool
}

func NewViewer(s Series) Viewer {
	return Viewer{series: s, width: DefaultTerminalOptions().Width + statsWidth + 12}
}

func (m Viewer) Init() tea.Cmd {
	return nil
}

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Viewer) View() string {
	if m.done {
		return ""
	}

	opts := DefaultTerminalOptions()
	opts.Width = m.width - statsWidth - 12
	if opts.Width < minPlotCols {
		opts.Width = minPlotCols
	}

	graph := graphStyle.Render(Terminal(m.series, opts))
	body := lipgloss.JoinHorizontal(lipgloss.Top, graph, statsStyle.Render(m.stats()))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.series.Name))
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("q/enter: continue"))
	return frameStyle.Render(sb.String())
}

func (m Viewer) stats() string {
	s := m.series
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	rows := []string{row("points", fmt.Sprintf("%d", len(s.Y)))}
	if len(s.X) > 0 {
		rows = append(rows,
			row(s.XLabel, fmt.Sprintf("%g .. %g", s.X[0], s.X[len(s.X)-1])),
		)
	}
	if len(s.Y) > 0 {
		lo, hi := Bounds(s.Y)
		rows = append(rows,
			row("min", fmt.Sprintf("%.4g", lo)),
			row("max", fmt.Sprintf("%.4g", hi)),
		)
	}
	if s.Unit != "" {
		rows = append(rows, row("unit", string(s.Unit)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Display shows the series full-screen until the user dismisses it.
func Display(ctx context.Context, s Series, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewViewer(s), opts...)
	_, err := p.Run()
	return err
}
