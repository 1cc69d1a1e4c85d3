package display

import "github.com/fatih/color"

// Box drawing characters
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	SectionBreak   = "━"
)

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolPending = "○"
)

// IndentAgent is the indentation applied to agent output lines.
const IndentAgent = "  "

// Theme holds all color functions for consistent styling.
type Theme struct {
	// Planner orchestration messages (prominent)
	SystemBorder func(a ...interface{}) string
	SystemLabel  func(a ...interface{}) string
	SystemText   func(a ...interface{}) string

	// LLM agent output (subdued)
	AgentTimestamp func(a ...interface{}) string
	AgentText      func(a ...interface{}) string
	AgentToolCount func(a ...interface{}) string

	// Status indicators
	Success func(a ...interface{}) string
	Error   func(a ...interface{}) string
	Warning func(a ...interface{}) string
	Info    func(a ...interface{}) string

	// Structural elements
	Bold      func(a ...interface{}) string
	Dim       func(a ...interface{}) string
	Separator func(a ...interface{}) string
}

// DefaultTheme creates the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		SystemBorder: color.New(color.FgCyan).SprintFunc(),
		SystemLabel:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		SystemText:   color.New(color.FgWhite).SprintFunc(),

		AgentTimestamp: color.New(color.FgHiBlack).SprintFunc(),
		AgentText:      color.New(color.FgWhite).SprintFunc(),
		AgentToolCount: color.New(color.FgHiBlack).SprintFunc(),

		Success: color.New(color.FgGreen).SprintFunc(),
		Error:   color.New(color.FgRed).SprintFunc(),
		Warning: color.New(color.FgYellow).SprintFunc(),
		Info:    color.New(color.FgCyan).SprintFunc(),

		Bold:      color.New(color.Bold).SprintFunc(),
		Dim:       color.New(color.FgHiBlack).SprintFunc(),
		Separator: color.New(color.FgCyan).SprintFunc(),
	}
}

// NoColorTheme creates a theme without colors (for --no-color or non-TTY).
func NoColorTheme() *Theme {
	identity := func(a ...interface{}) string {
		if len(a) == 0 {
			return ""
		}
		if s, ok := a[0].(string); ok {
			return s
		}
		return ""
	}
	return &Theme{
		SystemBorder:   identity,
		SystemLabel:    identity,
		SystemText:     identity,
		AgentTimestamp: identity,
		AgentText:      identity,
		AgentToolCount: identity,
		Success:        identity,
		Error:          identity,
		Warning:        identity,
		Info:           identity,
		Bold:           identity,
		Dim:            identity,
		Separator:      identity,
	}
}
