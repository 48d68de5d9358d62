// Package cli implements the hpcctl command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ACCESS-NRI/hpcpy/config"
	"github.com/ACCESS-NRI/hpcpy/executor"
	"github.com/ACCESS-NRI/hpcpy/logging"
	"github.com/ACCESS-NRI/hpcpy/scheduler"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagScheduler string
	flagDebug     bool

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for hpcctl.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hpcctl",
		Short: "Submit and manage HPC batch jobs",
		Long:  "hpcctl drives PBS and SLURM schedulers through one uniform command set.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagScheduler != "" {
				cfg.Scheduler = flagScheduler
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.hpcpy/config.yaml)")
	root.PersistentFlags().StringVar(&flagScheduler, "scheduler", "", "Force a scheduler (pbs, slurm, mock)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newSubmitCmd(),
		newStatusCmd(),
		newDeleteCmd(),
		newListCmd(),
		newRenderCmd(),
	)

	return root
}

// newClient builds a scheduler client from config, auto-detecting the variant
// unless one was forced.
func newClient() (scheduler.Client, error) {
	kind := cfg.Scheduler
	if kind == "" {
		var err error
		kind, err = scheduler.Detect(scheduler.PathAvailable, os.Getenv("HPCPY_DEV_MODE") == "1")
		if err != nil {
			return nil, err
		}
	}

	var opts []scheduler.Option
	if cfg.ScriptDir != "" {
		opts = append(opts, scheduler.WithScriptDir(cfg.ScriptDir))
	}
	return scheduler.New(kind, executor.NewLocal(cfg.ExecTimeout()), logger, opts...)
}

// parseKV splits repeated "key=value" flag values into a map.
func parseKV(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}
