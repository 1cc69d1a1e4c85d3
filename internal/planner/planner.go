// Package planner drives the user-visible workflow: startup preconditions,
// recovery from a prior incomplete run, requirement refinement, the
// implement loop, and the commit boundary. It is single-threaded and
// cooperative — one state is current at a time, and every transition that
// mutates on-disk plan state appends a history entry before returning.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/g3labs/g3/internal/gitdriver"
	"github.com/g3labs/g3/internal/llm"
	"github.com/g3labs/g3/internal/planstore"
)

// Prompter asks the operator a question and returns their raw answer.
type Prompter interface {
	Ask(prompt string) (string, error)
}

// Sink receives narration of planner progress. All methods are optional to
// implement meaningfully; NopSink satisfies the interface by doing nothing.
type Sink interface {
	SystemStatus(text string)
	AgentOutput(text string)
	Error(text string)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) SystemStatus(string) {}
func (NopSink) AgentOutput(string)  {}
func (NopSink) Error(string)        {}

// Planner owns one run of the workflow over a single plan directory.
type Planner struct {
	Store         *planstore.Store
	Git           *gitdriver.Driver
	LLM           llm.Backend
	Prompt        Prompter
	Sink          Sink
	Now           func() time.Time
	Model         string
	AllowedTools  []string
	IgnorePattern string

	state    State
	recovery Info
}

// New wires a Planner from its collaborators. sink may be nil, in which
// case events are discarded.
func New(store *planstore.Store, git *gitdriver.Driver, backend llm.Backend, prompt Prompter, sink Sink) *Planner {
	if sink == nil {
		sink = NopSink{}
	}
	return &Planner{
		Store:  store,
		Git:    git,
		LLM:    backend,
		Prompt: prompt,
		Sink:   sink,
		Now:    time.Now,
	}
}

// State returns the planner's current state.
func (p *Planner) State() State { return p.state }

// Run drives the state machine to completion (StateQuit) or until ctx is
// cancelled or a non-recoverable error occurs.
func (p *Planner) Run(ctx context.Context) error {
	p.state = StateStartup
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch p.state {
		case StateStartup:
			err = p.stepStartup(ctx)
		case StateRecovery:
			err = p.stepRecovery(ctx)
		case StatePromptForRequirements:
			err = p.stepPromptForRequirements(ctx)
		case StateRefineRequirements:
			err = p.stepRefineRequirements(ctx)
		case StateImplementRequirements:
			err = p.stepImplementRequirements(ctx)
		case StateImplementationComplete:
			err = p.stepImplementationComplete(ctx)
		case StateQuit:
			p.Sink.SystemStatus("quit")
			return nil
		default:
			return fmt.Errorf("planner: unknown state %v", p.state)
		}
		if err != nil {
			p.Sink.Error(err.Error())
			return err
		}
	}
}

// ask loops prompter.Ask until parse returns ok=true, re-prompting on
// unrecognized input as required by the parsing contract.
func ask[T any](p *Planner, prompt string, parse func(string) (T, bool)) (T, error) {
	for {
		raw, err := p.Prompt.Ask(prompt)
		var zero T
		if err != nil {
			return zero, fmt.Errorf("prompt failed: %w", err)
		}
		if v, ok := parse(raw); ok {
			return v, nil
		}
	}
}

func (p *Planner) stepStartup(ctx context.Context) error {
	if !p.Git.IsRepo() {
		return &gitdriver.PreconditionError{Reason: "codepath is not a git repository"}
	}

	branch, err := p.Git.CurrentBranch()
	if err != nil {
		return fmt.Errorf("determine current branch: %w", err)
	}
	choice, err := ask(p, fmt.Sprintf("On branch %q. Continue? [Y/n] ", branch), ParseBranchConfirmChoice)
	if err != nil {
		return err
	}
	if choice == BranchConfirmQuit {
		p.state = StateQuit
		return nil
	}

	dirty, err := p.Git.Dirty(p.IgnorePattern)
	if err != nil {
		return fmt.Errorf("check working tree: %w", err)
	}
	// Paths on the staging exclusion list are not worth warning about.
	for _, list := range []*[]string{&dirty.Modified, &dirty.Untracked, &dirty.Staged} {
		kept := (*list)[:0]
		for _, f := range *list {
			if !gitdriver.ShouldExclude(f) {
				kept = append(kept, f)
			}
		}
		*list = kept
	}
	if !dirty.IsEmpty() {
		dchoice, err := ask(p, "Working tree has uncommitted changes:\n"+dirty.ToDisplayString()+"\nProceed? [Y/n] ", ParseDirtyFilesChoice)
		if err != nil {
			return err
		}
		if dchoice == DirtyFilesQuit {
			p.state = StateQuit
			return nil
		}
	}

	if info, ok := DetectRecovery(p.Store); ok {
		p.recovery = info
		p.state = StateRecovery
		return nil
	}
	p.state = StatePromptForRequirements
	return nil
}

func (p *Planner) stepRecovery(ctx context.Context) error {
	prompt := "A prior run left plan files in place."
	if p.recovery.HasCurrentRequirements {
		prompt += fmt.Sprintf(" current_requirements.md last modified %s.", p.recovery.RequirementsModified)
	}
	if p.recovery.HasTodo {
		prompt += " todo.g3.md is present."
	}
	prompt += " Resume this work? [y/n/q] "

	choice, err := ask(p, prompt, ParseRecoveryChoice)
	if err != nil {
		return err
	}

	now := p.Now()
	switch choice {
	case RecoveryResume:
		if err := p.Store.WriteAttemptingRecovery(now); err != nil {
			return err
		}
		p.state = StateImplementRequirements
	case RecoveryMarkComplete:
		if err := p.Store.WriteSkippedRecovery(now); err != nil {
			return err
		}
		if p.Store.HasCurrentRequirements() && p.Store.HasTodo() {
			if _, _, err := p.Store.ArchiveCompleted(now); err != nil {
				return fmt.Errorf("archive prior plan files: %w", err)
			}
		}
		p.state = StatePromptForRequirements
	case RecoveryQuit:
		p.state = StateQuit
	}
	return nil
}

func (p *Planner) stepPromptForRequirements(ctx context.Context) error {
	text, err := p.Prompt.Ask("Describe the requirements for this cycle: ")
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	if err := p.Store.WriteNewRequirements(text); err != nil {
		return err
	}
	if err := p.Store.WriteRefiningRequirements(p.Now()); err != nil {
		return err
	}
	p.state = StateRefineRequirements
	return nil
}

func (p *Planner) stepRefineRequirements(ctx context.Context) error {
	draft, err := p.Store.ReadNewRequirements()
	if err != nil {
		return fmt.Errorf("read new_requirements.md: %w", err)
	}
	p.Sink.AgentOutput(draft)

	choice, err := ask(p, "Approve these requirements? [y/n/q] ", ParseApprovalChoice)
	if err != nil {
		return err
	}

	switch choice {
	case ApprovalApprove:
		if err := p.Store.PromoteNewToCurrent(); err != nil {
			return fmt.Errorf("promote requirements: %w", err)
		}
		sha, err := p.Git.HeadSHA()
		if err != nil {
			return fmt.Errorf("read HEAD sha: %w", err)
		}
		now := p.Now()
		if err := p.Store.WriteGitHead(now, sha); err != nil {
			return err
		}

		summary, err := p.summarizeRequirements(ctx, draft)
		if err != nil {
			return fmt.Errorf("summarize requirements: %w", err)
		}
		if err := p.Store.WriteStartImplementing(now, summary); err != nil {
			return err
		}
		p.state = StateImplementRequirements

	case ApprovalRefine:
		revised, err := p.Prompt.Ask("Revise the requirements: ")
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if err := p.Store.WriteNewRequirements(revised); err != nil {
			return err
		}
		if err := p.Store.WriteRefiningRequirements(p.Now()); err != nil {
			return err
		}
		// stay in RefineRequirements

	case ApprovalQuit:
		p.state = StateQuit
	}
	return nil
}

func (p *Planner) summarizeRequirements(ctx context.Context, requirements string) (string, error) {
	resp, err := p.LLM.Complete(ctx, llm.Request{
		Prompt:       "Summarize these requirements in one or two short lines:\n\n" + requirements,
		Model:        p.Model,
		AllowedTools: p.AllowedTools,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *Planner) stepImplementRequirements(ctx context.Context) error {
	if !p.Store.HasTodo() {
		requirements, err := p.Store.ReadCurrentRequirements()
		if err != nil {
			return fmt.Errorf("read current_requirements.md: %w", err)
		}
		resp, err := completeAndValidate(ctx, p.LLM, llm.Request{
			Prompt:       "Produce a markdown TODO checklist implementing:\n\n" + requirements,
			Model:        p.Model,
			AllowedTools: p.AllowedTools,
		}, validateTodo)
		if err != nil {
			return fmt.Errorf("generate todo: %w", err)
		}
		if err := p.Store.WriteTodo(resp.Text); err != nil {
			return err
		}
	}

	todo, err := p.Store.ReadTodo()
	if err != nil {
		return fmt.Errorf("read todo.g3.md: %w", err)
	}
	if planstore.AllComplete(todo) {
		p.state = StateImplementationComplete
		return nil
	}

	choice, err := ask(p, "Continue implementing? [Y/n/q] ", ParseCompletionChoice)
	if err != nil {
		return err
	}
	switch choice {
	case CompletionComplete:
		p.state = StateImplementationComplete
	case CompletionContinue:
		return p.runIteration(ctx, todo)
	case CompletionQuit:
		p.state = StateQuit
	}
	return nil
}

// runIteration invokes one coach/player turn against the current TODO and
// persists the LLM's rewritten checklist. Individual tool-call handling
// within a turn is the concern of the LLM backend and its tool surface, not
// the planner.
func (p *Planner) runIteration(ctx context.Context, todo string) error {
	resp, err := p.LLM.Complete(ctx, llm.Request{
		Prompt:       "Continue implementing this checklist, returning the updated checklist:\n\n" + todo,
		Model:        p.Model,
		AllowedTools: p.AllowedTools,
	})
	if err != nil {
		return fmt.Errorf("run implementation iteration: %w", err)
	}
	p.Sink.AgentOutput(resp.Text)
	if strings.TrimSpace(resp.Text) == "" {
		return nil
	}
	return p.Store.WriteTodo(resp.Text)
}

func (p *Planner) stepImplementationComplete(ctx context.Context) error {
	now := p.Now()

	reqFile, todoFile, err := p.Store.ArchiveCompleted(now)
	if err != nil {
		return fmt.Errorf("archive completed plan files: %w", err)
	}
	if err := p.Store.WriteCompletedRequirements(now, reqFile, todoFile); err != nil {
		return err
	}

	summary, body, err := p.generateCommitMessage(ctx, reqFile, todoFile)
	if err != nil {
		return fmt.Errorf("generate commit message: %w", err)
	}

	if _, err := p.Git.StageFiles(p.Store.Dir); err != nil {
		return fmt.Errorf("stage changed files: %w", err)
	}

	if err := p.Store.WriteGitCommit(now, summary); err != nil {
		return err
	}
	// Re-stage the plan dir so the GIT COMMIT line just appended is
	// captured by the commit it describes.
	if err := p.Git.StagePlanDir(p.Store.Dir); err != nil {
		return fmt.Errorf("re-stage plan directory: %w", err)
	}

	sha, err := p.Git.Commit(summary, body)
	if err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	p.Sink.SystemStatus(fmt.Sprintf("committed %s", sha))

	choice, err := ask(p, "Start another requirement cycle? [Y/n] ", ParseBranchConfirmChoice)
	if err != nil {
		return err
	}
	if choice == BranchConfirmQuit {
		p.state = StateQuit
		return nil
	}
	p.state = StatePromptForRequirements
	return nil
}

const maxCommitBodyLines = 10

func (p *Planner) generateCommitMessage(ctx context.Context, reqFile, todoFile string) (summary, body string, err error) {
	req, _ := p.Store.ReadArchived(reqFile) // best-effort context only

	resp, err := completeAndValidate(ctx, p.LLM, llm.Request{
		Prompt: fmt.Sprintf(
			"Write a git commit message for completed work archived as %s and %s. "+
				"First line is a short summary (at most 72 characters); a blank line; then an optional body.\n\nContext:\n%s",
			reqFile, todoFile, req,
		),
		Model:        p.Model,
		AllowedTools: p.AllowedTools,
	}, nonEmpty)
	if err != nil {
		return "", "", err
	}

	lines := strings.Split(strings.TrimSpace(resp.Text), "\n")
	summary = strings.TrimSpace(lines[0])
	if summary == "" {
		summary = "completed requirements"
	}

	var bodyLines []string
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" && len(bodyLines) == 0 {
			continue
		}
		bodyLines = append(bodyLines, line)
		if len(bodyLines) >= maxCommitBodyLines {
			break
		}
	}
	body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	return summary, body, nil
}
