// Package display renders the operator-facing terminal stream: a clear
// visual separation between planner system messages and LLM agent output,
// implemented as a small event sink the planner (and the CLI commands that
// wrap tool activity) write into.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Display handles all CLI output with a consistent visual hierarchy.
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// New creates a Display, auto-detecting terminal width and honoring
// noColor for --no-color / non-TTY output.
func New(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Box prints a titled, bordered block for system messages the operator
// should not mistake for agent output. SystemStatus does not use it.
func (d *Display) Box(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}
	width := d.termWidth - 2
	remaining := width - (len(title) + 4)
	if remaining < 0 {
		remaining = 0
	}

	top := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remaining) + BoxTopRight
	fmt.Println(d.theme.SystemBorder(top))
	for _, line := range lines {
		fmt.Println(d.theme.SystemBorder(BoxVertical) + " " + d.theme.SystemText(d.padRight(line, width-2)) + " " + d.theme.SystemBorder(BoxVertical))
	}
	fmt.Println(d.theme.SystemBorder(BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight))
}

// SystemStatus prints a single-line planner status message, satisfying
// planner.Sink.
func (d *Display) SystemStatus(text string) {
	ts := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.SystemBorder(ts), d.theme.Info(SymbolPending), d.theme.SystemText(text))
}

// Success prints a success status line.
func (d *Display) Success(text string) {
	ts := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.SystemBorder(ts), d.theme.Success(SymbolSuccess), d.theme.SystemText(text))
}

// Warning prints a warning status line.
func (d *Display) Warning(text string) {
	ts := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.SystemBorder(ts), d.theme.Warning(SymbolWarning), d.theme.SystemText(text))
}

// Error prints an error status line, satisfying planner.Sink.
func (d *Display) Error(text string) {
	ts := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.SystemBorder(ts), d.theme.Error(SymbolError), d.theme.SystemText(text))
}

// AgentOutput prints text produced by the LLM backend, satisfying
// planner.Sink. Output is visually subdued relative to SystemStatus.
func (d *Display) AgentOutput(text string) {
	ts := time.Now().Format("[15:04:05]")
	lines := d.wrapText(text, d.termWidth-12)
	for i, line := range lines {
		if i == 0 {
			fmt.Printf("%s%s %s\n", IndentAgent, d.theme.AgentTimestamp(ts), d.theme.AgentText(line))
		} else {
			fmt.Printf("%s%s %s\n", IndentAgent, strings.Repeat(" ", len(ts)), d.theme.AgentText(line))
		}
	}
}

// ToolOutput announces one tool invocation's name and a short caption plus
// its full content.
func (d *Display) ToolOutput(name, caption, content string) {
	fmt.Printf("%s%s %s\n", IndentAgent, d.theme.AgentToolCount("["+name+"]"), d.theme.Dim(caption))
	if content != "" {
		d.AgentOutput(content)
	}
}

// ToolDetailUpdate prints an incremental detail line for a tool still in
// progress (e.g. streamed command output).
func (d *Display) ToolDetailUpdate(name, detail string) {
	fmt.Printf("%s%s %s\n", IndentAgent, d.theme.Dim(name+":"), d.theme.AgentText(detail))
}

// ToolComplete announces a tool invocation's outcome.
func (d *Display) ToolComplete(name string, success bool, duration time.Duration, caption string) {
	symbol := d.theme.Success(SymbolSuccess)
	if !success {
		symbol = d.theme.Error(SymbolError)
	}
	fmt.Printf("%s%s %s %s (%s)\n", IndentAgent, symbol, d.theme.AgentToolCount("["+name+"]"), caption, duration.Round(time.Millisecond))
}

// ContextUpdate prints the LLM context-window usage fraction.
func (d *Display) ContextUpdate(used, total int) {
	pct := 0
	if total > 0 {
		pct = used * 100 / total
	}
	fmt.Printf("%s%s\n", IndentAgent, d.theme.Dim(fmt.Sprintf("[context %d/%d %d%%]", used, total, pct)))
}

// SSEReceived prints a dimmed line noting receipt of a server-sent event
// from a streaming collaborator.
func (d *Display) SSEReceived(event string) {
	fmt.Printf("%s%s\n", IndentAgent, d.theme.Dim("<sse "+event+">"))
}

// Exit prints the final message before the process terminates.
func (d *Display) Exit(message string) {
	fmt.Printf("\n%s %s\n", d.theme.Info(SymbolPending), d.theme.SystemText(message))
}

func (d *Display) wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len()+len(word)+1 > maxWidth && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func (d *Display) padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with an ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses runs of spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
