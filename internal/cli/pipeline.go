package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/engine"
	"github.com/rumur/transformer/internal/logging"
	"github.com/rumur/transformer/internal/output"
	"github.com/rumur/transformer/internal/rules"
	"github.com/rumur/transformer/internal/tree"
	"github.com/rumur/transformer/internal/yamlutil"
)

// stdinPath names standard input as a source.
const stdinPath = "-"

// source holds the decoded documents of one input.
type source struct {
	Path string
	Docs []interface{}
	// Multi is set for YAML streams holding more than one document.
	Multi bool
}

// pipelineResult holds the outputs of one transformation run.
type pipelineResult struct {
	Source *source
	Rules  *rules.Set
	Output []interface{}
}

// runPipeline loads the source, assembles the rule set, and transforms every
// document. This is the shared core of apply, diff and watch.
func runPipeline(ctx context.Context, cmd *cobra.Command, path string, opts *ruleOptions) (*pipelineResult, error) {
	logger := logging.FromContext(ctx)
	cfg := config.FromContext(ctx)

	set, err := buildRuleSet(cmd, cfg, opts)
	if err != nil {
		return nil, err
	}

	src, err := loadSource(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	logger.Debug("source loaded",
		slog.String("path", src.Path),
		slog.Int("documents", len(src.Docs)),
		slog.Int("rules", set.Len()),
	)

	out, err := transformDocs(logger, set.Compile(), src.Docs)
	if err != nil {
		return nil, err
	}

	return &pipelineResult{Source: src, Rules: set, Output: out}, nil
}

// buildRuleSet assembles the rules file and the rule flags into one set. An
// explicit --key-case wins over the rules file's keyCase, which wins over the
// configured default.
func buildRuleSet(cmd *cobra.Command, cfg *config.Config, opts *ruleOptions) (*rules.Set, error) {
	set := rules.NewSet()
	fileKeyCase := false

	if opts.rulesFile != "" {
		rf, err := config.LoadRulesFile(opts.rulesFile)
		if err != nil {
			if errors.Is(err, config.ErrInvalidRulesFile) {
				return nil, &ExitError{Code: ExitInvalidRules, Err: err}
			}

			return nil, &ExitError{Code: ExitGeneral, Err: err}
		}

		set.Merge(rf.ToSet())
		fileKeyCase = rf.KeyCase != ""
	}

	set.Except(opts.except...)
	set.Only(opts.only...)
	set.KeepOrigin(opts.keepOrigin...)

	for _, a := range opts.aliases {
		from, to, ok := strings.Cut(a, "=")
		if !ok || from == "" || to == "" {
			return nil, &ExitError{Code: ExitUsage, Err: fmt.Errorf("invalid --alias %q: expected from=to", a)}
		}

		set.Alias(from, to)
	}

	if cmd.Flags().Changed("key-case") || !fileKeyCase {
		fn, err := cfg.KeyFunc()
		if err != nil {
			return nil, &ExitError{Code: ExitUsage, Err: err}
		}

		set.ShowKeysAs(fn)
	}

	return set, nil
}

// loadSource reads and decodes path. The decoder is chosen by extension:
// .json and .jsonc are decoded as JSON with comments, everything else,
// standard input included, as a YAML stream (which also accepts JSON).
func loadSource(path string, stdin io.Reader) (*source, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-supplied source
	}

	if err != nil {
		return nil, &ExitError{Code: ExitGeneral, Err: fmt.Errorf("reading source %q: %w", path, err)}
	}

	src := &source{Path: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		doc, decErr := tree.DecodeJSON(data)
		if decErr != nil {
			return nil, &ExitError{Code: ExitSourceDecode, Err: fmt.Errorf("source %q: %w", path, decErr)}
		}

		src.Docs = []interface{}{doc}

		return src, nil
	}

	parts := yamlutil.SplitDocuments(data)
	if len(parts) == 0 {
		src.Docs = []interface{}{nil}
		return src, nil
	}

	for i, part := range parts {
		doc, decErr := tree.DecodeYAML(part)
		if decErr != nil {
			return nil, &ExitError{Code: ExitSourceDecode, Err: fmt.Errorf("source %q document %d: %w", path, i, decErr)}
		}

		src.Docs = append(src.Docs, doc)
	}

	src.Multi = len(src.Docs) > 1

	return src, nil
}

// transformDocs runs the engine over every document.
func transformDocs(logger *slog.Logger, table *rules.Table, docs []interface{}) ([]interface{}, error) {
	eng := engine.New(table, engine.WithLogger(logging.Component(logger, "engine")))

	out := make([]interface{}, len(docs))

	for i, doc := range docs {
		result, err := eng.Transform(doc)
		if err != nil {
			return nil, &ExitError{Code: ExitGeneral, Err: fmt.Errorf("transforming document %d: %w", i, err)}
		}

		out[i] = result
	}

	return out, nil
}

// render serializes docs in the configured format. Multi-document input is
// rendered as a YAML stream, or as a JSON array when the format is JSON.
func render(cfg *config.Config, docs []interface{}, multi bool) ([]byte, error) {
	format := strings.ToLower(cfg.OutputFormat)

	serialize, err := output.DefaultRegistry().Serializer(format)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}

	if !multi {
		var doc interface{}
		if len(docs) > 0 {
			doc = docs[0]
		}

		return serializeDoc(serialize, doc, cfg.Indent)
	}

	if format == output.FormatJSON {
		return serializeDoc(serialize, docs, cfg.Indent)
	}

	rendered := make([][]byte, 0, len(docs))

	for _, doc := range docs {
		data, err := serializeDoc(serialize, doc, cfg.Indent)
		if err != nil {
			return nil, err
		}

		rendered = append(rendered, data)
	}

	return yamlutil.JoinDocuments(rendered), nil
}

func serializeDoc(serialize output.SerializeFunc, doc interface{}, indent int) ([]byte, error) {
	data, err := serialize(doc, indent)
	if err != nil {
		return nil, &ExitError{Code: ExitGeneral, Err: err}
	}

	return data, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(ctx context.Context, cmd *cobra.Command, path string, data []byte) error {
	logger := logging.Component(logging.FromContext(ctx), "output")

	w := output.NewWriter(path, cmd.OutOrStdout(), output.WithLogger(logger))
	if err := w.Write(data); err != nil {
		return &ExitError{Code: ExitGeneral, Err: fmt.Errorf("writing output: %w", err)}
	}

	return nil
}
