// Package scheduler provides a uniform client interface over HPC batch
// schedulers (PBS, SLURM), translating submit/status/delete calls into
// scheduler-native command lines and parsing their output back.
package scheduler

import (
	"context"
	"time"

	"github.com/ACCESS-NRI/hpcpy/executor"
)

// Executor runs a command line and reports its outcome. Implementations must
// pass argv literally (no shell interpretation) and merge env over the
// process environment.
type Executor interface {
	Execute(ctx context.Context, argv []string, env map[string]string) (executor.Result, error)
}

// Client is the uniform contract implemented by every scheduler variant.
//
// Clients are stateless between calls: every operation is an independent
// request against the scheduler CLI, so a single Client may be shared across
// goroutines as long as its Executor is reentrant. Callers polling many jobs
// should fan out and rate-limit themselves; the client imposes no throttling.
type Client interface {
	// Name returns the variant identifier ("pbs", "slurm", "mock").
	Name() string

	// Submit places one job on the scheduler queue and returns its handle.
	Submit(ctx context.Context, req *SubmitRequest) (*Job, error)

	// SubmitCommand returns the argv Submit would execute, without running
	// anything. Rendering is not applied; req.Script is used as given.
	SubmitCommand(req *SubmitRequest) ([]string, error)

	// Status queries the scheduler for the job's current state. A job the
	// scheduler no longer knows about yields StateUnknown, not an error.
	Status(ctx context.Context, jobID string) (JobState, error)

	// Delete cancels the job. Deleting a job the scheduler has already
	// forgotten is a successful no-op.
	Delete(ctx context.Context, jobID string) error

	// Hold places the job on hold; Release lifts it.
	Hold(ctx context.Context, jobID string) error
	Release(ctx context.Context, jobID string) error

	// IsQueued and IsRunning are convenience predicates over Status.
	IsQueued(ctx context.Context, jobID string) (bool, error)
	IsRunning(ctx context.Context, jobID string) (bool, error)

	// RenderJobScript renders the template with tmplContext and writes the
	// result under the job-script scratch directory, returning the path.
	// Submit uses the same pipeline when req.Render is set.
	RenderJobScript(templatePath string, tmplContext map[string]any) (string, error)
}

// SubmitRequest describes one job submission. It is constructed per call and
// never retained by the client.
type SubmitRequest struct {
	// Script is the path to the job script, or to its template when Render
	// is set.
	Script string

	// Render treats Script as a template and interpolates Context into it
	// before submission.
	Render bool

	// Context holds key/value pairs interpolated into the script template.
	Context map[string]any

	// Variables are environment variables handed to the job. Values are
	// coerced to strings. On PBS they are passed as "-v k=v,..."; embedded
	// commas in values are not escaped and will corrupt the flag — a
	// documented limitation of the PBS encoding. On SLURM they are injected
	// into the submission environment.
	Variables map[string]any

	// Directives are raw scheduler flags appended verbatim, e.g. "-q express".
	Directives []string

	// DependsOn names jobs that must complete successfully before this one
	// starts. Accepts a job ID string, a *Job handle, or a slice of either;
	// see ResolveDependsOn.
	DependsOn any

	// Queue selects the queue (PBS -q) or partition (SLURM -p).
	Queue string

	// Walltime requests a run-time limit. Zero means scheduler default.
	Walltime time.Duration

	// Delay defers the start until the given time. Zero value means no delay.
	Delay time.Time

	// Storage lists PBS storage mounts ("-l storage=a+b"). Ignored by SLURM.
	Storage []string
}
