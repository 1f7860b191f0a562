package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		satisfies  string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Display the version, git commit, build date, Go version, and platform.

With --satisfies, check the running version against a semver constraint
(the same check a rules file's "requires" field performs) and exit with
code 1 when it is not met. Development builds satisfy every constraint.`,
		Args: cobra.NoArgs,
		// Override parent PersistentPreRunE; version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			if satisfies != "" {
				ok, err := info.Satisfies(satisfies)
				if err != nil {
					return &ExitError{Code: ExitUsage, Err: err}
				}

				if !ok {
					return &ExitError{Code: ExitGeneral, Err: fmt.Errorf("version %s does not satisfy %q", info.Version, satisfies)}
				}
			}

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
	cmd.Flags().StringVar(&satisfies, "satisfies", "", "fail unless the version satisfies this semver constraint")

	return cmd
}
