package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/csvprune/internal/version"
)

func newVersionCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the csvprune version, git commit, build date, Go toolchain and platform.",
		Args:  cobra.NoArgs,
		// Version works without a config file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			if jsonOutput {
				j, err := info.JSON()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), j)

				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")

	return cmd
}
