package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/rumur/transformer/internal/casing"
	"github.com/rumur/transformer/internal/rules"
	"github.com/rumur/transformer/internal/version"
)

// RulesFileVersion is the only rules-file schema version understood.
const RulesFileVersion = "1"

// ErrInvalidRulesFile is wrapped by every error ParseRulesFile returns.
var ErrInvalidRulesFile = errors.New("invalid rules file")

// RulesFile is the declarative form of a rule set, read from YAML, JSON or
// JSON with comments.
type RulesFile struct {
	// Version is the schema version. Must be RulesFileVersion.
	Version string `json:"version"`

	// Requires is an optional semver constraint on the running binary.
	Requires string `json:"requires,omitempty"`

	// KeyCase is an optional key-case preset.
	KeyCase string `json:"keyCase,omitempty"`

	// Except lists paths to drop.
	Except []string `json:"except,omitempty"`

	// Only lists paths to keep exclusively.
	Only []string `json:"only,omitempty"`

	// KeepOrigin lists paths whose output keys skip the key-case preset.
	KeepOrigin []string `json:"keepOrigin,omitempty"`

	// Aliases renames paths in order; a later entry for a path wins.
	Aliases []AliasEntry `json:"aliases,omitempty"`

	// Rules are typed records applied after the sections above.
	Rules []RuleEntry `json:"rules,omitempty"`
}

// AliasEntry renames From to To.
type AliasEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RuleEntry is one typed rule record.
type RuleEntry struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	To     string `json:"to,omitempty"`
}

// LoadRulesFile reads and parses the rules file at path.
func LoadRulesFile(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied path
	if err != nil {
		return nil, fmt.Errorf("reading rules file %q: %w", path, err)
	}

	rf, err := ParseRulesFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rf, nil
}

// ParseRulesFile parses and validates a rules file. JSON input may carry
// comments and trailing commas. Unknown fields are rejected.
func ParseRulesFile(data []byte) (*RulesFile, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		data = jsonc.ToJSON(data)
	}

	var rf RulesFile
	if err := sigsyaml.UnmarshalStrict(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRulesFile, err)
	}

	if err := rf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRulesFile, err)
	}

	return &rf, nil
}

// Validate checks the rules file for correctness and reports every problem
// found.
func (rf *RulesFile) Validate() error {
	var errs []error

	if rf.Version != RulesFileVersion {
		errs = append(errs, fmt.Errorf("version %q is not supported (must be %q)", rf.Version, RulesFileVersion))
	}

	if rf.Requires != "" {
		info := version.GetInfo()

		ok, err := info.Satisfies(rf.Requires)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("requires: %w", err))
		case !ok:
			errs = append(errs, fmt.Errorf("requires %q: running version %s does not satisfy it", rf.Requires, info.Version))
		}
	}

	if _, err := casing.ForName(rf.KeyCase); err != nil {
		errs = append(errs, fmt.Errorf("keyCase: %w", err))
	}

	errs = append(errs, checkPaths("except", rf.Except)...)
	errs = append(errs, checkPaths("only", rf.Only)...)
	errs = append(errs, checkPaths("keepOrigin", rf.KeepOrigin)...)

	for i, a := range rf.Aliases {
		if strings.TrimSpace(a.From) == "" {
			errs = append(errs, fmt.Errorf("aliases[%d]: from is required", i))
		}

		if strings.TrimSpace(a.To) == "" {
			errs = append(errs, fmt.Errorf("aliases[%d]: to is required", i))
		}
	}

	for i, r := range rf.Rules {
		if strings.TrimSpace(r.Path) == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: path is required", i))
		}

		action, err := rules.ParseAction(r.Action)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}

		if action == rules.ActionAlias && strings.TrimSpace(r.To) == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: alias of %q requires to", i, r.Path))
		}
	}

	return errors.Join(errs...)
}

func checkPaths(section string, paths []string) []error {
	var errs []error

	for i, p := range paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: path must not be empty", section, i))
		}
	}

	return errs
}

// ToSet builds a rule set in section order: except, only, keepOrigin,
// aliases, then the typed rules. The rules file must be valid.
func (rf *RulesFile) ToSet() *rules.Set {
	s := rules.NewSet().
		Except(rf.Except...).
		Only(rf.Only...).
		KeepOrigin(rf.KeepOrigin...)

	for _, a := range rf.Aliases {
		s.Alias(a.From, a.To)
	}

	for _, r := range rf.Rules {
		action, err := rules.ParseAction(r.Action)
		if err != nil {
			continue
		}

		s.Add(rules.Rule{Path: r.Path, Action: action, Alias: r.To})
	}

	if fn, err := casing.ForName(rf.KeyCase); err == nil && fn != nil {
		s.ShowKeysAs(fn)
	}

	return s
}
