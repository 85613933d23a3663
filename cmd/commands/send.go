package commands

import (
	"fmt"

	"github.com/ncobase/remind/app"
	"github.com/spf13/cobra"
)

// NewSendCommand creates the send command, which runs one reminder
// dispatch and exits.
func NewSendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Send due reminders once",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := app.InitializeReminder()
			if err != nil {
				return fmt.Errorf("failed to initialize reminders: %w", err)
			}
			defer cleanup()

			sent, err := svc.Dispatch(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to send reminders: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d reminders\n", sent)
			return nil
		},
	}
}
