package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Slurm drives a SLURM scheduler through sbatch, squeue, scancel and
// scontrol.
type Slurm struct {
	base
}

// NewSlurm returns a SLURM client backed by the given executor.
func NewSlurm(exec Executor, logger *slog.Logger, opts ...Option) *Slurm {
	return &Slurm{base: newBase(exec, logger, "slurm", opts...)}
}

// Name returns "slurm".
func (s *Slurm) Name() string { return "slurm" }

// SubmitCommand builds the sbatch argv for a request without executing it.
// Variables do not appear here; SLURM receives them through the submission
// environment rather than a flag.
func (s *Slurm) SubmitCommand(req *SubmitRequest) ([]string, error) {
	return s.buildSubmit(req, req.Script)
}

func (s *Slurm) buildSubmit(req *SubmitRequest, script string) ([]string, error) {
	deps, err := ResolveDependsOn(req.DependsOn)
	if err != nil {
		return nil, err
	}

	argv := []string{"sbatch", "--parsable"}
	argv = append(argv, splitDirectives(req.Directives)...)
	if len(deps) > 0 {
		argv = append(argv, "--dependency=afterok:"+strings.Join(deps, ":"))
	}
	if !req.Delay.IsZero() {
		argv = append(argv, "--begin="+req.Delay.Format("2006-01-02T15:04:05"))
	}
	if req.Queue != "" {
		argv = append(argv, "-p", req.Queue)
	}
	if req.Walltime > 0 {
		// sbatch accepts a bare minute count.
		argv = append(argv, "--time", strconv.Itoa(int(req.Walltime.Minutes())))
	}
	argv = append(argv, script)
	return argv, nil
}

// Submit runs sbatch and returns a handle for the job ID it prints.
// Variables are injected into the sbatch environment, which SLURM propagates
// to the job.
func (s *Slurm) Submit(ctx context.Context, req *SubmitRequest) (*Job, error) {
	script, err := s.scriptToSubmit(req)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}

	argv, err := s.buildSubmit(req, script)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("submitting job", "argv", argv)
	res, err := s.exec.Execute(ctx, argv, coerceVariables(req.Variables))
	if err != nil {
		return nil, &SubmitError{Err: err}
	}
	if res.ExitCode != 0 {
		s.logger.Error("sbatch failed", "exit_code", res.ExitCode)
		return nil, &SubmitError{Stderr: strings.TrimSpace(res.Stderr)}
	}

	// --parsable prints "jobid" or "jobid;cluster".
	id, _, _ := strings.Cut(firstLine(res.Stdout), ";")
	if id == "" {
		return nil, &SubmitError{
			Stderr: strings.TrimSpace(res.Stderr),
			Err:    errors.New("no job ID in sbatch output"),
		}
	}

	s.logger.Info("job submitted", "job_id", id)
	return NewJob(id, s), nil
}

// Status queries squeue in JSON mode and normalizes the job_state name.
func (s *Slurm) Status(ctx context.Context, jobID string) (JobState, error) {
	res, err := s.exec.Execute(ctx, []string{"squeue", "-j", jobID, "--json"}, nil)
	if err != nil {
		return StateUnknown, &QueryError{JobID: jobID, Err: err}
	}
	if res.ExitCode != 0 {
		if slurmJobGone(res.Stderr) {
			return StateUnknown, nil
		}
		return StateUnknown, &QueryError{JobID: jobID, Stderr: strings.TrimSpace(res.Stderr)}
	}

	var payload struct {
		Jobs []struct {
			JobState flexStrings `json:"job_state"`
		} `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &payload); err != nil {
		return StateUnknown, &QueryError{JobID: jobID, Err: fmt.Errorf("parse squeue output: %w", err)}
	}
	if len(payload.Jobs) == 0 || len(payload.Jobs[0].JobState) == 0 {
		return StateUnknown, nil
	}

	return normalize(slurmStates, payload.Jobs[0].JobState[0]), nil
}

// Delete cancels the job with scancel. A job SLURM no longer knows about is
// treated as already deleted.
func (s *Slurm) Delete(ctx context.Context, jobID string) error {
	res, err := s.exec.Execute(ctx, []string{"scancel", jobID}, nil)
	if err != nil {
		return &DeleteError{JobID: jobID, Err: err}
	}
	if res.ExitCode != 0 && !slurmJobGone(res.Stderr) {
		return &DeleteError{JobID: jobID, Stderr: strings.TrimSpace(res.Stderr)}
	}
	return nil
}

// Hold places the job on hold with scontrol.
func (s *Slurm) Hold(ctx context.Context, jobID string) error {
	return s.scontrol(ctx, "hold", jobID)
}

// Release lifts a hold with scontrol.
func (s *Slurm) Release(ctx context.Context, jobID string) error {
	return s.scontrol(ctx, "release", jobID)
}

func (s *Slurm) scontrol(ctx context.Context, op, jobID string) error {
	res, err := s.exec.Execute(ctx, []string{"scontrol", op, jobID}, nil)
	if err != nil {
		return fmt.Errorf("scontrol %s %s: %w", op, jobID, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("scontrol %s %s: %s", op, jobID, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// IsQueued reports Status == StateQueued.
func (s *Slurm) IsQueued(ctx context.Context, jobID string) (bool, error) {
	return isState(ctx, s, jobID, StateQueued)
}

// IsRunning reports Status == StateRunning.
func (s *Slurm) IsRunning(ctx context.Context, jobID string) (bool, error) {
	return isState(ctx, s, jobID, StateRunning)
}

// slurmJobGone recognizes responses for jobs SLURM has purged from its
// records.
func slurmJobGone(stderr string) bool {
	return strings.Contains(stderr, "Invalid job id specified") ||
		strings.Contains(stderr, "slurm_load_jobs error")
}

// flexStrings absorbs squeue's job_state field, which newer releases emit as
// an array of state names and older ones as a single string.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*f = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*f = []string{one}
	return nil
}
