package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var tmplCtx []string

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a job script template without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderCtx, err := parseKV(tmplCtx)
			if err != nil {
				return fmt.Errorf("--context: %w", err)
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			path, err := client.RenderJobScript(args[0], renderCtx)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&tmplCtx, "context", nil, "Template context entry (key=value, repeatable)")
	return cmd
}
