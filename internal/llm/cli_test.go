package llm

import "testing"

func TestBuildArgsIncludesModelAndTools(t *testing.T) {
	c := &CLIBackend{name: "test"}
	args := c.buildArgs(Request{
		Model:        "opus",
		AllowedTools: []string{"Read", "Edit"},
		ContextFiles: []string{"a.md", "b.md"},
	})
	want := []string{"--model", "opus", "--allowedTools", "Read,Edit", "a.md", "b.md"}
	if len(args) != len(want) {
		t.Fatalf("got %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("got %v, want %v", args, want)
		}
	}
}

func TestFakeBackendServesScriptedResponsesInOrder(t *testing.T) {
	f := &FakeBackend{Responses: []Response{{Text: "first"}, {Text: "second"}}}

	r1, err := f.Complete(nil, Request{Prompt: "p1"})
	if err != nil || r1.Text != "first" {
		t.Fatalf("got (%v, %v)", r1, err)
	}
	r2, err := f.Complete(nil, Request{Prompt: "p2"})
	if err != nil || r2.Text != "second" {
		t.Fatalf("got (%v, %v)", r2, err)
	}
	if _, err := f.Complete(nil, Request{}); err == nil {
		t.Fatal("expected error once scripted responses are exhausted")
	}
	if len(f.Requests) != 3 {
		t.Fatalf("expected 3 recorded requests, got %d", len(f.Requests))
	}
}
