package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting and level colors
// matching the rest of the CLI output. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	logger.SetStyles(logStyles())
	return logger
}

func logStyles() *log.Styles {
	styles := log.DefaultStyles()
	level := func(label string, c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().SetString(label).Bold(true).MaxWidth(4).Foreground(c)
	}
	styles.Levels[log.DebugLevel] = level("DEBU", colorDim)
	styles.Levels[log.InfoLevel] = level("INFO", colorCyan)
	styles.Levels[log.WarnLevel] = level("WARN", colorYellow)
	styles.Levels[log.ErrorLevel] = level("ERRO", colorRed)
	styles.Timestamp = StyleDim
	styles.Key = lipgloss.NewStyle().Foreground(colorGray)
	return styles
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time, rounded to the
// millisecond. Example output: "Rendered 2 style(s) (1.234s)"
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context carrying l for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default when none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
