package scheduler

import "context"

// Job is a handle for a submitted job: its scheduler-issued ID and a
// reference to the client that submitted it. The handle does not own the
// client and never caches state; every method re-queries the scheduler.
type Job struct {
	ID string

	client Client
}

// NewJob wraps an existing job ID with a client, e.g. to manage a job
// submitted in an earlier process.
func NewJob(id string, client Client) *Job {
	return &Job{ID: id, client: client}
}

// Status returns the job's current state.
func (j *Job) Status(ctx context.Context) (JobState, error) {
	return j.client.Status(ctx, j.ID)
}

// Delete cancels the job.
func (j *Job) Delete(ctx context.Context) error {
	return j.client.Delete(ctx, j.ID)
}

// Hold places the job on hold.
func (j *Job) Hold(ctx context.Context) error {
	return j.client.Hold(ctx, j.ID)
}

// Release lifts a hold.
func (j *Job) Release(ctx context.Context) error {
	return j.client.Release(ctx, j.ID)
}

// IsQueued reports whether the job is currently queued.
func (j *Job) IsQueued(ctx context.Context) (bool, error) {
	return j.client.IsQueued(ctx, j.ID)
}

// IsRunning reports whether the job is currently running.
func (j *Job) IsRunning(ctx context.Context) (bool, error) {
	return j.client.IsRunning(ctx, j.ID)
}
