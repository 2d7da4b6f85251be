package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/storeshot/pkg/style"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// StyleListModel - Interactive style selection
// =============================================================================

// StyleListModel is the bubbletea model for interactive style selection.
type StyleListModel struct {
	Styles   []style.Name
	Cursor   int
	Selected style.Name
}

// NewStyleListModel creates a style list model over every built-in style.
func NewStyleListModel() StyleListModel {
	return StyleListModel{Styles: style.Names()}
}

func (m StyleListModel) Init() tea.Cmd {
	return nil
}

func (m StyleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Styles)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Styles[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StyleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Style"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Styles))
	for i, n := range m.Styles {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, string(n), style.Describe(n)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Style", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == m.Cursor && col == 2:
				return lipgloss.NewStyle().Foreground(colorGray)
			case row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Styles))))

	return b.String()
}

// pickStyle runs the picker and returns the chosen style, or "" when the
// user quit without choosing.
func pickStyle(ctx context.Context) (style.Name, error) {
	final, err := tea.NewProgram(NewStyleListModel(), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	return final.(StyleListModel).Selected, nil
}
