package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/style"
)

// stylesCommand lists the built-in styles.
func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the available styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, stylesTable())
			printNewline()
			printNextStep("Try one", appName+" render --demo --style "+string(style.Parallax))
			return nil
		},
	}
}

// stylesTable renders the style list, marking the default.
func stylesTable() string {
	var rows [][]string
	for _, n := range style.Names() {
		name := string(n)
		if name == config.DefaultStyle {
			name += " (default)"
		}
		rows = append(rows, []string{name, style.Describe(n)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Style", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			}
			return StyleValue
		}).
		Render()
}
