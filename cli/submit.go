package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ACCESS-NRI/hpcpy/history"
	"github.com/ACCESS-NRI/hpcpy/scheduler"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var (
		render     bool
		dryRun     bool
		vars       []string
		tmplCtx    []string
		dependsOn  []string
		directives []string
		storage    []string
		queue      string
		walltime   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit <script>",
		Short: "Submit a job script to the scheduler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variables, err := parseKV(vars)
			if err != nil {
				return fmt.Errorf("--var: %w", err)
			}
			renderCtx, err := parseKV(tmplCtx)
			if err != nil {
				return fmt.Errorf("--context: %w", err)
			}

			req := &scheduler.SubmitRequest{
				Script:     args[0],
				Render:     render,
				Context:    renderCtx,
				Variables:  variables,
				Directives: directives,
				Queue:      queue,
				Walltime:   walltime,
				Storage:    storage,
			}
			if len(dependsOn) > 0 {
				req.DependsOn = dependsOn
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			if dryRun {
				argv, err := client.SubmitCommand(req)
				if err != nil {
					return err
				}
				fmt.Println(strings.Join(argv, " "))
				return nil
			}

			job, err := client.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Println(job.ID)

			recordSubmission(cmd, client.Name(), job.ID, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Treat the script as a template and render --context into it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the submission command instead of running it")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Environment variable for the job (key=value, repeatable)")
	cmd.Flags().StringArrayVar(&tmplCtx, "context", nil, "Template context entry (key=value, repeatable)")
	cmd.Flags().StringSliceVar(&dependsOn, "depends-on", nil, "Job IDs this job depends on")
	cmd.Flags().StringArrayVar(&directives, "directive", nil, "Raw scheduler directive, e.g. '-q express' (repeatable)")
	cmd.Flags().StringSliceVar(&storage, "storage", nil, "PBS storage mounts")
	cmd.Flags().StringVar(&queue, "queue", "", "Queue or partition")
	cmd.Flags().DurationVar(&walltime, "walltime", 0, "Walltime limit, e.g. 2h30m")

	return cmd
}

// recordSubmission appends to the local ledger; a ledger failure never fails
// the submission, which has already happened.
func recordSubmission(cmd *cobra.Command, schedName, jobID, script string) {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	err = store.Record(cmd.Context(), history.Submission{
		JobID:       jobID,
		Scheduler:   schedName,
		Script:      script,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		logger.Warn("failed to record submission", "err", err)
	}
}
