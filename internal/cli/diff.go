package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/diff"
)

type diffOptions struct {
	ruleOptions

	// Exit with ExitDifferences when the output differs from the source.
	exitCode bool

	// Lines of context around each change.
	context int
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <source>",
		Short: "Show what the rules change in a document",
		Long: `Diff renders the source document and its transformed form in the
same output format and prints a unified diff between them.

Exit codes:
  0  Success (or no differences with --exit-code)
  1  Error
  2  Invalid arguments
  3  Invalid rules file
  4  Source could not be decoded
  5  Differences found (with --exit-code)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with code 5 when differences are found")
	f.IntVar(&opts.context, "context", 3, "lines of context around each change")
	f.String("output-format", "json", "format both sides are rendered in: json, yaml")
	f.Int("indent", 2, "spaces per indentation level")

	registerRuleFlags(cmd, &opts.ruleOptions)

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, path string, opts *diffOptions) error {
	cfg := config.FromContext(ctx)

	// A diff of compact JSON is a single line.
	if cfg.Indent == 0 {
		cfg.Indent = 2
	}

	result, err := runPipeline(ctx, cmd, path, &opts.ruleOptions)
	if err != nil {
		return err
	}

	before, err := render(cfg, result.Source.Docs, result.Source.Multi)
	if err != nil {
		return err
	}

	after, err := render(cfg, result.Output, result.Source.Multi)
	if err != nil {
		return err
	}

	diffOpts := diff.DefaultOptions()
	diffOpts.OldLabel = path
	diffOpts.Context = opts.context

	res, err := diff.Compute(string(before), string(after), diffOpts)
	if err != nil {
		return &ExitError{Code: ExitGeneral, Err: fmt.Errorf("computing diff: %w", err)}
	}

	w := cmd.OutOrStdout()
	diff.Write(w, res, !cfg.NoColor)

	if res.HasDifferences && !cfg.Quiet {
		added, removed := res.Stats()
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d line(s) added, %d line(s) removed\n", added, removed)
	}

	if opts.exitCode && res.HasDifferences {
		return &ExitError{Code: ExitDifferences, Err: fmt.Errorf("%d hunk(s) differ", len(res.Hunks))}
	}

	return nil
}
