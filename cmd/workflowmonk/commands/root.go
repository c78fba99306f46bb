// Package commands holds the cobra command tree of the workflowmonk binary.
package commands

import "github.com/spf13/cobra"

// Root returns the workflowmonk root command.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "workflowmonk",
		Short:         "Lead intake wizard for automation consultations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Intake())
	cmd.AddCommand(SchedulerURL())

	return cmd
}
