package cli

import "github.com/spf13/cobra"

// NewReportCmd groups the commands that query a running trainer's status
// API.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [status|evaluations|model]",
		Short: "Report on a training run",
		Long:  `Query a running trainer for its status, round-evaluation log, or current model.`,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show run status",
		Long:  `Show the trainer's current run status.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			s, err := tsdk.Status()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, s)
		},
	}

	evaluationsCmd := &cobra.Command{
		Use:   "evaluations",
		Short: "Show round evaluations",
		Long:  `Show the append-only round-evaluation log of the current run.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			evs, err := tsdk.Evaluations()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, evs)
		},
	}

	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Show current model",
		Long:  `Show the trainer's current model weights and dual scalar.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := tsdk.Model()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	cmd.AddCommand(statusCmd, evaluationsCmd, modelCmd)

	return cmd
}
