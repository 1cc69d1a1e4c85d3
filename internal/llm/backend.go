// Package llm abstracts the operator-agent's LLM call: a single
// request/response round-trip asking the model to draft requirements,
// propose a unified diff, or summarize a commit. Unlike a chat agent, the
// planner never streams partial tokens — it waits for one complete answer
// per state transition and parses it.
package llm

import "context"

// Backend represents an LLM execution backend.
type Backend interface {
	// Name returns the backend name (e.g., "claude-cli").
	Name() string

	// Complete runs one prompt to completion and returns the model's full
	// response text.
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request describes one completion call.
type Request struct {
	Prompt       string
	ContextFiles []string
	Model        string
	AllowedTools []string
	WorkDir      string
}

// Response is the model's answer to a Request.
type Response struct {
	Text string
}
