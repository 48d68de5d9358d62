package cli

import (
	"fmt"

	"github.com/ACCESS-NRI/hpcpy/history"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs submitted through hpcctl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			subs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Println("no recorded submissions")
				return nil
			}

			for _, s := range subs {
				fmt.Printf("%-24s %-8s %-20s %s\n",
					s.JobID, s.Scheduler, s.SubmittedAt.Local().Format("2006-01-02 15:04:05"), s.Script)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 = all)")
	return cmd
}
