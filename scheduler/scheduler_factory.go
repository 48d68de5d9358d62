package scheduler

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ACCESS-NRI/hpcpy/executor"
)

// Variant identifiers accepted by New and returned by Detect.
const (
	KindPBS   = "pbs"
	KindSlurm = "slurm"
	KindMock  = "mock"
)

// schedulerProbes lists the CLI entry point probed for each variant, in
// precedence order.
var schedulerProbes = []struct {
	cmd  string
	kind string
}{
	{"qsub", KindPBS},
	{"sbatch", KindSlurm},
}

// Detect returns the variant matching the first scheduler CLI the
// availability probe reports, checking in fixed precedence order. Detection
// is existence-only: no scheduler command is ever executed. With devMode set
// the mock variant is selected unconditionally. Returns ErrNoClient when
// nothing matches.
func Detect(available func(name string) bool, devMode bool) (string, error) {
	if devMode {
		return KindMock, nil
	}
	for _, p := range schedulerProbes {
		if available(p.cmd) {
			return p.kind, nil
		}
	}
	return "", ErrNoClient
}

// PathAvailable reports whether name resolves to an executable on PATH.
func PathAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// New constructs the named client variant.
func New(kind string, exec Executor, logger *slog.Logger, opts ...Option) (Client, error) {
	switch kind {
	case KindPBS:
		return NewPBS(exec, logger, opts...), nil
	case KindSlurm:
		return NewSlurm(exec, logger, opts...), nil
	case KindMock:
		return NewMock(logger, opts...), nil
	default:
		return nil, fmt.Errorf("unknown scheduler %q: must be one of pbs, slurm, mock", kind)
	}
}

// GetClient probes the host for a supported scheduler and returns the
// matching client backed by a local executor. The mock variant is eligible
// only when HPCPY_DEV_MODE=1.
func GetClient(logger *slog.Logger, opts ...Option) (Client, error) {
	kind, err := Detect(PathAvailable, os.Getenv("HPCPY_DEV_MODE") == "1")
	if err != nil {
		return nil, err
	}
	return New(kind, executor.NewLocal(0), logger, opts...)
}
