package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	// https://no-color.org/
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Semantic formatters for CLI output.
var (
	// Code formats runnable commands, e.g. `enject set api_key`.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --global.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats success indicators and messages.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error indicators and messages.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats warning indicators and messages.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats hints and directional indicators.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Secret formats secret names (never values).
	// Cyan with color, 'single quotes' without.
	Secret = Formatter{color.New(color.FgCyan), "'", "'"}

	// Reference formats template placeholders such as en://db_url.
	Reference = Formatter{color.New(color.FgMagenta), "", ""}

	// Muted formats de-emphasized or secondary text.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Status lines share the same three markers across every command.
func SuccessLine(msg string) string { return Success.Sprint("✓") + " " + msg }
func ErrorLine(msg string) string   { return Error.Sprint("✗") + " " + msg }
func HintLine(msg string) string    { return Info.Sprint("→") + " " + msg }
func WarningLine(msg string) string { return Warning.Sprint("⚠") + " " + msg }

// SecretList renders secret names one per line, indented.
func SecretList(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString("    - ")
		b.WriteString(Secret.Sprint(name))
		b.WriteString("\n")
	}
	return b.String()
}
