// Package repl drives the operator side of the Planner's prompts over an
// interactive, history-aware terminal line editor. It is the default
// planner.Prompter implementation used by the CLI; tests use a scripted
// Prompter instead.
package repl

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

// Prompter reads one line of operator input per Ask call from a persistent
// readline instance, giving the operator history and editing across the
// Planner's successive questions.
type Prompter struct {
	rl *readline.Instance
}

// New opens a readline instance against the controlling terminal.
func New() (*Prompter, error) {
	rl, err := readline.New("> ")
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Prompter{rl: rl}, nil
}

// Close releases the underlying terminal state.
func (p *Prompter) Close() error {
	return p.rl.Close()
}

// Ask prints prompt, then blocks for one line of operator input.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Println(strings.TrimRight(prompt, "\n"))
	line, err := p.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
