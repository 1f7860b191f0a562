package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Validate a rules file",
		Long: `Validate parses a rules file and reports every problem found: an
unsupported version, an unsatisfied requires constraint, an unknown key
case, empty paths, incomplete aliases and unknown rule actions.

Returns exit code 3 when the file is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	rf, err := config.LoadRulesFile(path)
	if err != nil {
		if errors.Is(err, config.ErrInvalidRulesFile) {
			return &ExitError{Code: ExitInvalidRules, Err: err}
		}

		return &ExitError{Code: ExitGeneral, Err: err}
	}

	set := rf.ToSet()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rules file is valid: %d rule(s), %d compiled path(s).\n",
		set.Len(), len(set.Compile().Entries()))

	return nil
}
