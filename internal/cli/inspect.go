package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/rules"
)

type inspectOptions struct {
	ruleOptions

	// Output control.
	raw    bool
	format string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the compiled rule table",
		Long: `Inspect assembles the rules file and rule flags exactly as apply does
and prints the compiled table: one row per path that carries a rule.

Use --raw to dump the internal rule trie for debugging.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.raw, "raw", false, "dump the compiled rule trie")
	f.StringVar(&opts.format, "format", "table", "output format: table, json, yaml")

	registerRuleFlags(cmd, &opts.ruleOptions)

	return cmd
}

// inspectResult is the structured output of the inspect command.
type inspectResult struct {
	KeyCase    string        `json:"keyCase"`
	OnlyActive bool          `json:"onlyActive"`
	RuleCount  int           `json:"ruleCount"`
	Entries    []rules.Entry `json:"entries"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts *inspectOptions) error {
	cfg := config.FromContext(ctx)

	set, err := buildRuleSet(cmd, cfg, &opts.ruleOptions)
	if err != nil {
		return err
	}

	table := set.Compile()
	w := cmd.OutOrStdout()

	if opts.raw {
		cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cs.Fdump(w, table)

		return nil
	}

	result := inspectResult{
		KeyCase:    keyCaseName(cmd, cfg, opts),
		OnlyActive: table.OnlyActive(),
		RuleCount:  set.Len(),
		Entries:    table.Entries(),
	}

	if result.Entries == nil {
		result.Entries = []rules.Entry{}
	}

	switch strings.ToLower(opts.format) {
	case "table", "":
		renderTable(w, result)
		return nil
	case "json":
		return renderJSON(w, result)
	case "yaml":
		return renderYAML(w, result)
	default:
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("unknown format %q: expected table, json, yaml", opts.format)}
	}
}

// keyCaseName reports the effective key-case preset with the same
// precedence buildRuleSet applies.
func keyCaseName(cmd *cobra.Command, cfg *config.Config, opts *inspectOptions) string {
	if opts.rulesFile != "" && !cmd.Flags().Changed("key-case") {
		if rf, err := config.LoadRulesFile(opts.rulesFile); err == nil && rf.KeyCase != "" {
			return strings.ToLower(rf.KeyCase)
		}
	}

	return strings.ToLower(cfg.KeyCase)
}

func renderJSON(w io.Writer, result inspectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

func renderYAML(w io.Writer, result inspectResult) error {
	data, err := sigsyaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}

	_, err = w.Write(data)

	return err
}

func renderTable(w io.Writer, result inspectResult) {
	_, _ = fmt.Fprintf(w, "Key case: %s\n", result.KeyCase)
	_, _ = fmt.Fprintf(w, "Rules: %d (only active: %t)\n", result.RuleCount, result.OnlyActive)

	if len(result.Entries) == 0 {
		_, _ = fmt.Fprintln(w, "\nNo path rules.")
		return
	}

	_, _ = fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tALIAS\tEXCLUDE\tONLY\tKEEP ORIGIN")

	for _, e := range result.Entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Path, dash(e.Alias), mark(e.Exclude), mark(e.Only), mark(e.KeepOrigin))
	}

	_ = tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func mark(b bool) string {
	if b {
		return "yes"
	}

	return "-"
}
