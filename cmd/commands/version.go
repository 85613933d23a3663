package commands

import (
	"fmt"

	"github.com/ncobase/remind/version"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			out := cmd.OutOrStdout()
			if asJSON {
				s, err := info.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}
			fmt.Fprintln(out, "Version:", info.Version)
			fmt.Fprintln(out, "Revision:", info.Revision)
			fmt.Fprintln(out, "Built At:", info.BuiltAt)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
