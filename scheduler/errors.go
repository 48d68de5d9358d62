package scheduler

import (
	"errors"
	"fmt"
)

// ErrNoClient is returned by GetClient when no supported scheduler CLI is
// present on the host.
var ErrNoClient = errors.New("unable to detect scheduler type, cannot determine client type")

// SubmitError reports a failed submission: the command could not run, exited
// nonzero, or produced output no job ID could be parsed from. Stderr carries
// whatever the scheduler printed. Submissions are never retried automatically;
// resubmitting has side effects and is the caller's decision.
type SubmitError struct {
	Stderr string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit failed: %s", e.Err)
	}
	return fmt.Sprintf("submit failed: %s", e.Stderr)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// QueryError reports an executor-level failure during a status query. A job
// the scheduler simply does not know is not a QueryError; that case returns
// StateUnknown.
type QueryError struct {
	JobID  string
	Stderr string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status query for %s failed: %s", e.JobID, e.Err)
	}
	return fmt.Sprintf("status query for %s failed: %s", e.JobID, e.Stderr)
}

func (e *QueryError) Unwrap() error { return e.Err }

// DeleteError reports a failed cancellation, excluding "already gone"
// responses, which Delete treats as success.
type DeleteError struct {
	JobID  string
	Stderr string
	Err    error
}

func (e *DeleteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delete of %s failed: %s", e.JobID, e.Err)
	}
	return fmt.Sprintf("delete of %s failed: %s", e.JobID, e.Stderr)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// DependencyError reports a DependsOn element that is neither a job ID string
// nor a Job handle. It is raised before any command is built, so a malformed
// dependency never causes a partial submission.
type DependencyError struct {
	Value any
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot resolve depends_on element of type %T", e.Value)
}
