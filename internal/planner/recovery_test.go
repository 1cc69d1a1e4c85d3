package planner

import (
	"testing"

	"github.com/g3labs/g3/internal/planstore"
)

func TestDetectRecoveryNoFiles(t *testing.T) {
	store, err := planstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := DetectRecovery(store); ok {
		t.Fatal("expected no recovery when neither file exists")
	}
}

func TestDetectRecoveryWithCurrentRequirements(t *testing.T) {
	store, err := planstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.WriteNewRequirements("do the thing"); err != nil {
		t.Fatalf("WriteNewRequirements: %v", err)
	}
	if err := store.PromoteNewToCurrent(); err != nil {
		t.Fatalf("PromoteNewToCurrent: %v", err)
	}

	info, ok := DetectRecovery(store)
	if !ok {
		t.Fatal("expected recovery to be detected")
	}
	if !info.HasCurrentRequirements {
		t.Fatal("expected HasCurrentRequirements")
	}
	if info.HasTodo {
		t.Fatal("did not expect HasTodo")
	}
	if info.RequirementsModified == "" {
		t.Fatal("expected a non-empty RequirementsModified timestamp")
	}
}

func TestDetectRecoveryWithTodo(t *testing.T) {
	store, err := planstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.WriteTodo("- [ ] step one\n"); err != nil {
		t.Fatalf("WriteTodo: %v", err)
	}

	info, ok := DetectRecovery(store)
	if !ok {
		t.Fatal("expected recovery to be detected")
	}
	if !info.HasTodo {
		t.Fatal("expected HasTodo")
	}
	if info.TodoContents != "- [ ] step one\n" {
		t.Fatalf("unexpected TodoContents: %q", info.TodoContents)
	}
	if info.HasCurrentRequirements {
		t.Fatal("did not expect HasCurrentRequirements")
	}
}
