// Package cli implements the cobra command tree for transformer.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/logging"
)

// Process exit codes.
const (
	ExitGeneral      = 1
	ExitUsage        = 2
	ExitInvalidRules = 3
	ExitSourceDecode = 4
	ExitDifferences  = 5
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Code != ExitDifferences {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}

			return exitErr.Code
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		return ExitGeneral
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "transformer",
		Short: "Reshape JSON and YAML documents with path-addressed rules",
		Long: `transformer reshapes nested JSON and YAML documents.

Rules address nodes by dotted paths, where every array level contributes
a "*" segment (Tags.*.Id). Nodes can be renamed, dropped, selected, and
have their keys converted to camel, snake, kebab or pascal case.

Rules come from a rules file (--rules) and from repeatable flags, which
are appended after the file's rules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("keyCase", cfg.KeyCase),
				slog.String("outputFormat", cfg.OutputFormat),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .transformer.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	cmd.AddCommand(
		newApplyCommand(),
		newDiffCommand(),
		newInspectCommand(),
		newValidateCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
