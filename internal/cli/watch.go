package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/logging"
	"github.com/rumur/transformer/internal/watch"
)

type watchOptions struct {
	ruleOptions
	outputOptions

	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <source>",
		Short: "Re-apply rules whenever the source or rules file changes",
		Long: `Watch transforms the source once and again every time the source
document or the rules file changes, writing the result to --output.

File changes are debounced to avoid rapid re-runs. The rules file is
reloaded on every run, so edits to it take effect immediately. Runs that
fail are reported and the previous output is left in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerRuleFlags(cmd, &opts.ruleOptions)
	registerOutputFlags(cmd, &opts.outputOptions)

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, opts *watchOptions) error {
	if opts.output == "" || opts.output == stdinPath {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("--output (-o) is required for watch mode")}
	}

	if path == stdinPath {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("watch cannot read the source from standard input")}
	}

	cfg := config.FromContext(ctx)

	var (
		mu       sync.Mutex
		previous []byte
	)

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		mu.Lock()
		defer mu.Unlock()

		result, err := runPipeline(fnCtx, cmd, path, &opts.ruleOptions)
		if err != nil {
			return nil, err
		}

		data, err := render(cfg, result.Output, result.Source.Multi)
		if err != nil {
			return nil, err
		}

		if previous != nil && bytes.Equal(previous, data) {
			return &watch.RunResult{OutputPath: opts.output, Bytes: len(data), Unchanged: true}, nil
		}

		if err := writeOutput(fnCtx, cmd, opts.output, data); err != nil {
			return nil, err
		}

		previous = data

		return &watch.RunResult{OutputPath: opts.output, Bytes: len(data)}, nil
	}

	files := []string{path}
	if opts.rulesFile != "" {
		files = append(files, opts.rulesFile)
	}

	var out io.Writer = cmd.ErrOrStderr()
	if cfg.Quiet {
		out = io.Discard
	}

	watchOpts := watch.Options{
		Files:    files,
		Debounce: opts.debounce,
		Logger:   logging.Component(logging.FromContext(ctx), "watch"),
		Out:      out,
	}

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: ExitGeneral, Err: err}
	}

	return nil
}
