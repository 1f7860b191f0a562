package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/logging"
)

type applyOptions struct {
	ruleOptions
	outputOptions
}

func newApplyCommand() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <source>",
		Short: "Transform a JSON or YAML document",
		Long: `Apply reads a source document, transforms it with the configured
rules, and writes the result.

The source format is chosen by extension: .json and .jsonc are read as
JSON (comments allowed), anything else as YAML. Use "-" to read from
standard input. Every document of a multi-document YAML stream is
transformed on its own.

Exit codes:
  0  Success
  1  Error
  2  Invalid arguments
  3  Invalid rules file
  4  Source could not be decoded`,
		Example: `  transformer apply post.json --alias Tags=tags --alias Tags.*.Id=tag_id
  transformer apply post.yaml --rules rules.yaml --key-case snake -o out.json
  cat post.json | transformer apply - --only Title --output-format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerRuleFlags(cmd, &opts.ruleOptions)
	registerOutputFlags(cmd, &opts.outputOptions)

	return cmd
}

func runApply(ctx context.Context, cmd *cobra.Command, path string, opts *applyOptions) error {
	logger := logging.FromContext(ctx)
	cfg := config.FromContext(ctx)

	result, err := runPipeline(ctx, cmd, path, &opts.ruleOptions)
	if err != nil {
		return err
	}

	data, err := render(cfg, result.Output, result.Source.Multi)
	if err != nil {
		return err
	}

	if err := writeOutput(ctx, cmd, opts.output, data); err != nil {
		return err
	}

	if opts.output != "" && opts.output != stdinPath {
		logger.Info("output written",
			slog.String("path", opts.output),
			slog.Int("documents", len(result.Output)),
			slog.Int("bytes", len(data)),
		)
	}

	return nil
}
