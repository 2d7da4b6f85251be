package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/pipeline"
)

// stdout receives all user-facing output. Logs go to the logger's writer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links and commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleFailed      = lipgloss.NewStyle().Foreground(colorRed)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// status line markers
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = styleFailed.Render("✗")
	markWarning = StyleWarning.Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile    = StyleDim.Render("→")
)

// =============================================================================
// Status Output
// =============================================================================

func printLine(mark, msg string) {
	fmt.Fprintln(stdout, mark+" "+msg)
}

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	printLine(markSuccess, fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	printLine(markError, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	printLine(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	printLine(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted detail line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "    "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output file line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+markFile+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Render Results
// =============================================================================

// printResult prints one line per entry followed by the run statistics.
// Placeholders and recovered warnings are listed under their entry.
func printResult(r *pipeline.Result) {
	if r.Stats.Failed == 0 {
		printSuccess("Rendered %d screenshots", len(r.Entries))
	} else {
		printWarning("Rendered %d of %d screenshots", len(r.Entries)-r.Stats.Failed, len(r.Entries))
	}
	for _, e := range r.Entries {
		switch {
		case !e.OK():
			fmt.Fprintln(stdout, "  "+markError+" "+e.Name+" "+StyleDim.Render(e.Err.Error()))
		case e.Path != "":
			printFile(e.Path)
		default:
			printFile(e.Name)
		}
		if e.SubjectMissing {
			printDetail("placeholder used, screenshot missing")
		}
		for _, w := range e.Warnings {
			printDetail("%v", w)
		}
	}
	printStats(r.Stats)
}

// printStats prints run statistics on a single line, e.g.
// "3 fresh · 1 cached · 120ms".
func printStats(s pipeline.Stats) {
	var parts []string
	add := func(n int, label string, st lipgloss.Style) {
		if n > 0 {
			parts = append(parts, st.Render(fmt.Sprintf("%d %s", n, label)))
		}
	}
	add(s.Rendered, "fresh", styleFresh)
	add(s.Cached, "cached", styleCached)
	add(s.Failed, "failed", styleFailed)
	add(s.Warnings, "warnings", StyleWarning)
	parts = append(parts, StyleDim.Render(s.Duration.Round(time.Millisecond).String()))

	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// =============================================================================
// Color Swatches
// =============================================================================

// swatch renders a block of color c followed by its hex value.
func swatch(c palette.Color) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("      ")
	return block + " " + StyleValue.Render(c.Hex())
}
