package cli

import (
	"fmt"
	"os"

	"github.com/g3labs/g3/internal/config"
	"github.com/g3labs/g3/internal/display"
	"github.com/g3labs/g3/internal/gitdriver"
	"github.com/g3labs/g3/internal/glog"
	"github.com/g3labs/g3/internal/llm"
	"github.com/g3labs/g3/internal/planner"
	"github.com/g3labs/g3/internal/planstore"
	"github.com/g3labs/g3/internal/repl"
)

// session bundles the collaborators every planner-driving command needs,
// built once from the resolved codepath and its config.
type session struct {
	cfg     *config.Config
	store   *planstore.Store
	git     *gitdriver.Driver
	backend llm.Backend
	disp    *display.Display
	prompt  *repl.Prompter
}

func newSession(verbose, noColor bool) (*session, error) {
	cfg, err := config.Load(codepath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	glog.Setup(os.Stderr, verbose)

	store, err := planstore.New(cfg.PlanDir(codepath))
	if err != nil {
		return nil, fmt.Errorf("open plan store: %w", err)
	}

	prompt, err := repl.New()
	if err != nil {
		return nil, fmt.Errorf("init prompter: %w", err)
	}

	return &session{
		cfg:     cfg,
		store:   store,
		git:     gitdriver.New(codepath),
		backend: llm.NewCLIBackend(cfg.LLM.Backend, cfg.LLM.Binary),
		disp:    display.New(noColor),
		prompt:  prompt,
	}, nil
}

func (s *session) close() {
	if s.prompt != nil {
		s.prompt.Close()
	}
}

func (s *session) newPlanner() *planner.Planner {
	p := planner.New(s.store, s.git, s.backend, s.prompt, s.disp)
	p.Model = s.cfg.LLM.Model
	p.AllowedTools = s.cfg.LLM.AllowedTools
	p.IgnorePattern = s.cfg.Git.IgnorePattern
	return p
}
