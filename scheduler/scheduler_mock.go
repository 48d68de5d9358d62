package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Mock is an in-memory client for development and testing without a real
// scheduler. The factory only ever selects it when HPCPY_DEV_MODE=1.
type Mock struct {
	base

	mu     sync.Mutex
	nextID int
	jobs   map[string]JobState
}

// NewMock returns an empty in-memory client.
func NewMock(logger *slog.Logger, opts ...Option) *Mock {
	return &Mock{
		base: newBase(nil, logger, "mock", opts...),
		jobs: make(map[string]JobState),
	}
}

// Name returns "mock".
func (m *Mock) Name() string { return "mock" }

// SubmitCommand returns the argv a real scheduler submission would start
// from; the mock itself executes nothing.
func (m *Mock) SubmitCommand(req *SubmitRequest) ([]string, error) {
	deps, err := ResolveDependsOn(req.DependsOn)
	if err != nil {
		return nil, err
	}
	argv := []string{"true"}
	argv = append(argv, deps...)
	argv = append(argv, req.Script)
	return argv, nil
}

// Submit registers a new job in state QUEUED and returns its handle. The
// dependency argument is still resolved so malformed input fails the same way
// it would against a real scheduler.
func (m *Mock) Submit(ctx context.Context, req *SubmitRequest) (*Job, error) {
	if _, err := ResolveDependsOn(req.DependsOn); err != nil {
		return nil, err
	}
	if _, err := m.scriptToSubmit(req); err != nil {
		return nil, &SubmitError{Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("mock-%d", m.nextID)
	m.jobs[id] = StateQueued
	return NewJob(id, m), nil
}

// Status returns the job's recorded state, or StateUnknown for IDs the mock
// has never seen or has deleted.
func (m *Mock) Status(ctx context.Context, jobID string) (JobState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.jobs[jobID]; ok {
		return s, nil
	}
	return StateUnknown, nil
}

// Delete removes the job; deleting an unknown job is a no-op.
func (m *Mock) Delete(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
	return nil
}

// Hold marks the job held.
func (m *Mock) Hold(ctx context.Context, jobID string) error {
	return m.set(jobID, StateHeld)
}

// Release returns a held job to the queue.
func (m *Mock) Release(ctx context.Context, jobID string) error {
	return m.set(jobID, StateQueued)
}

// SetState overrides a job's state, letting tests walk a job through its
// lifecycle.
func (m *Mock) SetState(jobID string, s JobState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[jobID] = s
}

func (m *Mock) set(jobID string, s JobState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[jobID]; !ok {
		return fmt.Errorf("mock: unknown job %s", jobID)
	}
	m.jobs[jobID] = s
	return nil
}

// IsQueued reports Status == StateQueued.
func (m *Mock) IsQueued(ctx context.Context, jobID string) (bool, error) {
	return isState(ctx, m, jobID, StateQueued)
}

// IsRunning reports Status == StateRunning.
func (m *Mock) IsRunning(ctx context.Context, jobID string) (bool, error) {
	return isState(ctx, m, jobID, StateRunning)
}
