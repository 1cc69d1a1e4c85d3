package llm

import (
	"context"
	"fmt"
)

// FakeBackend serves a scripted sequence of responses, one per Complete
// call, for use in planner tests that must not shell out to a real model.
type FakeBackend struct {
	Responses []Response
	calls     int
	Requests  []Request
}

func (f *FakeBackend) Name() string { return "fake" }

func (f *FakeBackend) Complete(ctx context.Context, req Request) (Response, error) {
	f.Requests = append(f.Requests, req)
	if f.calls >= len(f.Responses) {
		return Response{}, fmt.Errorf("fake backend: no scripted response for call %d", f.calls)
	}
	resp := f.Responses[f.calls]
	f.calls++
	return resp, nil
}
