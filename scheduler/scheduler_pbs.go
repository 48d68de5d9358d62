package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// PBS drives a PBS Pro (or OpenPBS) scheduler through qsub, qstat and qdel.
type PBS struct {
	base
}

// NewPBS returns a PBS client backed by the given executor.
func NewPBS(exec Executor, logger *slog.Logger, opts ...Option) *PBS {
	return &PBS{base: newBase(exec, logger, "pbs", opts...)}
}

// Name returns "pbs".
func (p *PBS) Name() string { return "pbs" }

// SubmitCommand builds the qsub argv for a request without executing it.
func (p *PBS) SubmitCommand(req *SubmitRequest) ([]string, error) {
	return p.buildSubmit(req, req.Script)
}

func (p *PBS) buildSubmit(req *SubmitRequest, script string) ([]string, error) {
	deps, err := ResolveDependsOn(req.DependsOn)
	if err != nil {
		return nil, err
	}

	argv := []string{"qsub"}
	argv = append(argv, splitDirectives(req.Directives)...)
	if len(deps) > 0 {
		argv = append(argv, "-W", "depend=afterok:"+strings.Join(deps, ":"))
	}
	if !req.Delay.IsZero() {
		argv = append(argv, "-a", req.Delay.Format("200601021504.05"))
	}
	if req.Queue != "" {
		argv = append(argv, "-q", req.Queue)
	}
	if req.Walltime > 0 {
		argv = append(argv, "-l", "walltime="+pbsWalltime(req.Walltime))
	}
	if len(req.Storage) > 0 {
		argv = append(argv, "-l", "storage="+strings.Join(req.Storage, "+"))
	}
	if len(req.Variables) > 0 {
		argv = append(argv, "-v", formatVariables(req.Variables))
	}
	argv = append(argv, script)
	return argv, nil
}

// Submit runs qsub and returns a handle for the job ID it prints.
func (p *PBS) Submit(ctx context.Context, req *SubmitRequest) (*Job, error) {
	script, err := p.scriptToSubmit(req)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}

	argv, err := p.buildSubmit(req, script)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("submitting job", "argv", argv)
	res, err := p.exec.Execute(ctx, argv, nil)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}
	if res.ExitCode != 0 {
		p.logger.Error("qsub failed", "exit_code", res.ExitCode)
		return nil, &SubmitError{Stderr: strings.TrimSpace(res.Stderr)}
	}

	// qsub prints the full job ID on its own, e.g. "132058409.gadi-pbs".
	id := firstLine(res.Stdout)
	if id == "" {
		return nil, &SubmitError{
			Stderr: strings.TrimSpace(res.Stderr),
			Err:    errors.New("no job ID in qsub output"),
		}
	}

	p.logger.Info("job submitted", "job_id", id)
	return NewJob(id, p), nil
}

// Status queries qstat in JSON mode and normalizes the job_state code.
func (p *PBS) Status(ctx context.Context, jobID string) (JobState, error) {
	res, err := p.exec.Execute(ctx, []string{"qstat", "-f", "-F", "json", jobID}, nil)
	if err != nil {
		return StateUnknown, &QueryError{JobID: jobID, Err: err}
	}
	if res.ExitCode != 0 {
		if pbsJobGone(res.Stderr) {
			// Purged from scheduler history; a normal occurrence.
			return StateUnknown, nil
		}
		return StateUnknown, &QueryError{JobID: jobID, Stderr: strings.TrimSpace(res.Stderr)}
	}

	var payload struct {
		Jobs map[string]struct {
			JobState string `json:"job_state"`
		} `json:"Jobs"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &payload); err != nil {
		return StateUnknown, &QueryError{JobID: jobID, Err: fmt.Errorf("parse qstat output: %w", err)}
	}

	// qstat keys jobs by their fully-qualified ID; accept a short ID too.
	if entry, ok := payload.Jobs[jobID]; ok {
		return normalize(pbsStates, entry.JobState), nil
	}
	for name, entry := range payload.Jobs {
		if strings.HasPrefix(name, jobID+".") {
			return normalize(pbsStates, entry.JobState), nil
		}
	}
	return StateUnknown, nil
}

// Delete cancels the job with qdel. A job PBS no longer knows about is
// treated as already deleted.
func (p *PBS) Delete(ctx context.Context, jobID string) error {
	res, err := p.exec.Execute(ctx, []string{"qdel", jobID}, nil)
	if err != nil {
		return &DeleteError{JobID: jobID, Err: err}
	}
	if res.ExitCode != 0 && !pbsJobGone(res.Stderr) {
		return &DeleteError{JobID: jobID, Stderr: strings.TrimSpace(res.Stderr)}
	}
	return nil
}

// Hold places the job on hold with qhold.
func (p *PBS) Hold(ctx context.Context, jobID string) error {
	return p.simple(ctx, "qhold", jobID)
}

// Release lifts a hold with qrls.
func (p *PBS) Release(ctx context.Context, jobID string) error {
	return p.simple(ctx, "qrls", jobID)
}

func (p *PBS) simple(ctx context.Context, cmd, jobID string) error {
	res, err := p.exec.Execute(ctx, []string{cmd, jobID}, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cmd, jobID, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s %s: %s", cmd, jobID, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// IsQueued reports Status == StateQueued.
func (p *PBS) IsQueued(ctx context.Context, jobID string) (bool, error) {
	return isState(ctx, p, jobID, StateQueued)
}

// IsRunning reports Status == StateRunning.
func (p *PBS) IsRunning(ctx context.Context, jobID string) (bool, error) {
	return isState(ctx, p, jobID, StateRunning)
}

// pbsJobGone recognizes qstat/qdel responses for jobs the server has purged.
func pbsJobGone(stderr string) bool {
	return strings.Contains(stderr, "Unknown Job Id") ||
		strings.Contains(stderr, "Job has finished")
}

// pbsWalltime renders a duration as H:MM:SS.
func pbsWalltime(d time.Duration) string {
	secs := int64(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
