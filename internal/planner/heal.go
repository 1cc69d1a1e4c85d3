package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/g3labs/g3/internal/llm"
)

// maxHealRetries bounds how many times the planner will re-ask the model
// for a usable answer before giving up. Unlike a human operator, who can
// be re-prompted indefinitely, an automated retry loop needs a ceiling so
// a persistently malformed response degrades into a surfaced error instead
// of spinning forever.
const maxHealRetries = 3

// completeAndValidate calls backend.Complete and re-prompts (appending the
// validation complaint to the next attempt) up to maxHealRetries times
// until validate accepts the response text.
func completeAndValidate(ctx context.Context, backend llm.Backend, req llm.Request, validate func(string) error) (llm.Response, error) {
	prompt := req.Prompt
	var lastErr error

	for attempt := 0; attempt <= maxHealRetries; attempt++ {
		req.Prompt = prompt
		if lastErr != nil {
			req.Prompt = fmt.Sprintf("%s\n\nThe previous attempt was rejected: %s. Try again.", prompt, lastErr)
		}

		resp, err := backend.Complete(ctx, req)
		if err != nil {
			return llm.Response{}, err
		}
		if err := validate(resp.Text); err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	return llm.Response{}, fmt.Errorf("no valid response after %d attempts: %w", maxHealRetries+1, lastErr)
}

func nonEmpty(text string) error {
	for _, r := range text {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return nil
		}
	}
	return fmt.Errorf("response was empty")
}

// validateTodo rejects a generated checklist that contains no checklist
// items at all — the planner can't drive an implement loop without at
// least one box to check off.
func validateTodo(text string) error {
	if err := nonEmpty(text); err != nil {
		return err
	}
	if !strings.Contains(text, "- [") {
		return fmt.Errorf("response did not contain a markdown checklist item")
	}
	return nil
}
