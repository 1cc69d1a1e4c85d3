package planner

import (
	"context"
	"testing"

	"github.com/g3labs/g3/internal/llm"
)

func TestCompleteAndValidateRetriesUntilAccepted(t *testing.T) {
	backend := &llm.FakeBackend{Responses: []llm.Response{
		{Text: "no checklist here"},
		{Text: "- [ ] a step"},
	}}

	resp, err := completeAndValidate(context.Background(), backend, llm.Request{Prompt: "p"}, validateTodo)
	if err != nil {
		t.Fatalf("completeAndValidate: %v", err)
	}
	if resp.Text != "- [ ] a step" {
		t.Fatalf("unexpected response: %q", resp.Text)
	}
	if len(backend.Requests) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(backend.Requests))
	}
}

func TestCompleteAndValidateGivesUpAfterMaxRetries(t *testing.T) {
	responses := make([]llm.Response, maxHealRetries+1)
	for i := range responses {
		responses[i] = llm.Response{Text: "still no checklist"}
	}
	backend := &llm.FakeBackend{Responses: responses}

	if _, err := completeAndValidate(context.Background(), backend, llm.Request{Prompt: "p"}, validateTodo); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
}

func TestValidateTodoRejectsEmptyAndChecklistless(t *testing.T) {
	if err := validateTodo(""); err == nil {
		t.Fatal("expected empty text to be rejected")
	}
	if err := validateTodo("just prose, no items"); err == nil {
		t.Fatal("expected text without a checklist item to be rejected")
	}
	if err := validateTodo("- [x] done"); err != nil {
		t.Fatalf("expected valid checklist text to pass: %v", err)
	}
}
