package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type fakeSession struct {
	id     uuid.UUID
	closes *int
	mu     *sync.Mutex
}

func (s fakeSession) ChatSessionID() uuid.UUID { return s.id }

func (s fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.closes++
	return nil
}

type fakeSessions struct {
	mu      sync.Mutex
	opened  []uuid.UUID
	closes  int
	openErr error
}

func (f *fakeSessions) Open(_ context.Context, id uuid.UUID) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened = append(f.opened, id)
	return fakeSession{id: id, closes: &f.closes, mu: &f.mu}, nil
}

func (f *fakeSessions) closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// stubPipeline answers per criterion id. A criterion without an answer gets a
// generated all-compliant array covering the ids listed in its prompt.
type stubPipeline struct {
	mu       sync.Mutex
	answers  map[int]string
	failures map[int]error
	calls    []ReasoningRequest
	onCall   func(req ReasoningRequest)
	block    bool
}

func (p *stubPipeline) Complete(ctx context.Context, _ Session, req ReasoningRequest) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	onCall := p.onCall
	answer, hasAnswer := p.answers[req.CriterionID]
	failure := p.failures[req.CriterionID]
	block := p.block
	p.mu.Unlock()

	if onCall != nil {
		onCall(req)
	}
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if failure != nil {
		return "", failure
	}
	if hasAnswer {
		return answer, nil
	}
	return compliantFor(req.Prompt), nil
}

func (p *stubPipeline) criterionCalls() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.calls))
	for i, c := range p.calls {
		out[i] = c.CriterionID
	}
	return out
}

func compliantFor(prompt string) string {
	const marker = "INDICATORS TO AUDIT for this criterion: "
	idx := strings.Index(prompt, marker)
	if idx < 0 {
		return "[]"
	}
	line := prompt[idx+len(marker):]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	parts := make([]string, 0)
	for _, id := range strings.Split(line, ", ") {
		parts = append(parts, fmt.Sprintf(`{"id":%s,"status":"compliant","issues":[],"corrective_plan":[]}`, id))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
