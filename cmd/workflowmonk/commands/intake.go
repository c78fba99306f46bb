package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"workflowmonk/internal/config"
	"workflowmonk/internal/domain/wizard"
	"workflowmonk/internal/tui"
)

// Intake returns the command walking through the wizard in the terminal.
func Intake() *cobra.Command {
	var settle, selectDelay time.Duration

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Run the intake wizard interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctrl := wizard.New(
				wizard.WithSchedulerURL(cfg.SchedulerBaseURL),
				wizard.WithSettleDelay(settle),
				wizard.WithSelectDelay(selectDelay),
			)
			res, err := tui.Run(cmd.Context(), ctrl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res.SchedulerURL != "":
				fmt.Fprintln(out, "Book your consultation:")
				fmt.Fprintln(out, res.SchedulerURL)
			case res.Exit == wizard.ExitHome:
				fmt.Fprintln(out, "No worries, come back any time.")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", 300*time.Millisecond, "Pause before each step transition")
	cmd.Flags().DurationVar(&selectDelay, "select-delay", 500*time.Millisecond, "Extra pause after picking an option")
	return cmd
}
