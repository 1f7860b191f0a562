package cli

import (
	"github.com/spf13/cobra"

	"github.com/rumur/transformer/internal/casing"
	"github.com/rumur/transformer/internal/output"
)

// ruleOptions are the rule sources shared by apply, diff, inspect and watch.
type ruleOptions struct {
	rulesFile  string
	except     []string
	only       []string
	keepOrigin []string
	aliases    []string
}

// outputOptions control where and how a result is rendered.
type outputOptions struct {
	output string
}

// registerRuleFlags adds the rule flags to a cobra command. Path flags are
// repeatable and applied after the rules file.
func registerRuleFlags(cmd *cobra.Command, opts *ruleOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.rulesFile, "rules", "", "rules file (YAML, JSON or JSONC)")
	f.StringArrayVar(&opts.except, "except", nil, "drop the node at path (repeatable)")
	f.StringArrayVar(&opts.only, "only", nil, "keep only the node at path (repeatable)")
	f.StringArrayVar(&opts.keepOrigin, "keep-origin", nil, "exempt the key at path from --key-case (repeatable)")
	f.StringArrayVar(&opts.aliases, "alias", nil, "rename a node, as from=to (repeatable)")
	f.String("key-case", "none", "output key case: none, camel, snake, kebab, pascal")

	_ = cmd.RegisterFlagCompletionFunc("key-case", fixedCompletions(append([]string{casing.None}, casing.Presets()...)))
	_ = cmd.MarkFlagFilename("rules", "yaml", "yml", "json", "jsonc")
}

// registerOutputFlags adds the rendering flags to a cobra command. The
// format and indent flags are read through the configuration so that they
// can also come from the config file or environment.
func registerOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	f.String("output-format", "json", "output format: json, yaml")
	f.Int("indent", 2, "spaces per indentation level (0 renders compact JSON)")

	_ = cmd.RegisterFlagCompletionFunc("output-format", fixedCompletions(output.DefaultRegistry().Formats()))
}

func fixedCompletions(values []string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
