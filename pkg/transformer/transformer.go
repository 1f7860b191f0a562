// Package transformer provides a fluent Go API for reshaping nested data:
// renaming keys, dropping or selecting subtrees, and converting key casing,
// all addressed by dotted paths.
//
// Paths name the shape-position of a node. Every array level contributes a
// "*" segment instead of an index, so "Tags.*.Id" addresses the Id key of
// every element of Tags.
//
// Basic usage:
//
//	out, err := transformer.New(post).
//	    AliasFor("Tags", "tags").
//	    AliasFor("Tags.*.Id", "tag_id").
//	    Except("Tags.*.Meta").
//	    ShowKeysAsSnakeCase().
//	    JSON()
//
// Selection follows a fixed precedence: once any Only path is configured,
// every other path is dropped, and an Except path is dropped even when it is
// also selected by Only.
//
// A Transformer is a mutable builder owned by one goroutine. The trees it
// produces are fresh on every call and share no containers with the source.
package transformer

import (
	"log/slog"
	"sort"

	"github.com/rumur/transformer/internal/casing"
	"github.com/rumur/transformer/internal/config"
	"github.com/rumur/transformer/internal/engine"
	"github.com/rumur/transformer/internal/output"
	"github.com/rumur/transformer/internal/rules"
	"github.com/rumur/transformer/internal/tree"
)

// Hydratable is implemented by values that convert themselves to plain data
// before being traversed. A *Transformer is Hydratable, so transformers nest.
type Hydratable = tree.Hydratable

// HydrateFunc adapts a function to Hydratable.
type HydrateFunc = tree.HydrateFunc

// FromStruct wraps a pointer to a struct so that it hydrates into plain data
// keyed by its json tags. Use it to feed typed values to a transformer.
func FromStruct(obj interface{}) Hydratable {
	return tree.FromStruct(obj)
}

// Object is the ordered object type produced by Build.
type Object = tree.Object

// KeyFunc converts an output key.
type KeyFunc = casing.Func

// Extension rewrites the source before it is transformed.
type Extension func(source interface{}) interface{}

// Alias renames the node at From to To. A dotted To re-nests the value.
type Alias struct {
	From string
	To   string
}

// Rules is a reusable, ordered rule set that can be shared between
// transformers through UseRules.
type Rules = rules.Set

// NewRules creates an empty rule set.
func NewRules() *Rules {
	return rules.NewSet()
}

// LoadRules reads a YAML, JSON or JSONC rules file.
func LoadRules(path string) (*Rules, error) {
	rf, err := config.LoadRulesFile(path)
	if err != nil {
		return nil, err
	}

	return rf.ToSet(), nil
}

// Transformer accumulates rules for one source.
type Transformer struct {
	source interface{}
	rules  *rules.Set
	logger *slog.Logger
}

// New creates a transformer for source. Objects, arrays and Hydratable
// values are accepted; a nil source is treated as an empty object.
func New(source interface{}) *Transformer {
	return &Transformer{
		source: source,
		rules:  rules.NewSet(),
	}
}

// Transform is a synonym of New that reads well at call sites.
func Transform(source interface{}) *Transformer {
	return New(source)
}

// UseSource replaces the source.
func (t *Transformer) UseSource(source interface{}) *Transformer {
	t.source = source
	return t
}

// UseRules appends a copy of the rules in s, adopting its key function when
// it has one.
func (t *Transformer) UseRules(s *Rules) *Transformer {
	if s != nil {
		t.rules.Merge(s.Clone())
	}

	return t
}

// Rules returns an independent copy of the accumulated rules.
func (t *Transformer) Rules() *Rules {
	return t.rules.Clone()
}

// WithLogger routes debug output of the transformation to logger.
func (t *Transformer) WithLogger(logger *slog.Logger) *Transformer {
	t.logger = logger
	return t
}

// Except drops the nodes at paths together with their subtrees.
func (t *Transformer) Except(paths ...string) *Transformer {
	t.rules.Except(paths...)
	return t
}

// Only restricts the output to paths. Every ancestor needed to reach a path
// is kept as scaffolding.
func (t *Transformer) Only(paths ...string) *Transformer {
	t.rules.Only(paths...)
	return t
}

// KeepOrigin exempts the output keys at paths from the key function. Aliases
// still apply.
func (t *Transformer) KeepOrigin(paths ...string) *Transformer {
	t.rules.KeepOrigin(paths...)
	return t
}

// DoNotTransform is a synonym of KeepOrigin.
func (t *Transformer) DoNotTransform(paths ...string) *Transformer {
	return t.KeepOrigin(paths...)
}

// AliasFor renames the node at origin to alias. A later alias for the same
// origin wins.
func (t *Transformer) AliasFor(origin, alias string) *Transformer {
	t.rules.Alias(origin, alias)
	return t
}

// Alias adds every origin → alias pair of m, in sorted origin order.
func (t *Transformer) Alias(m map[string]string) *Transformer {
	origins := make([]string, 0, len(m))
	for origin := range m {
		origins = append(origins, origin)
	}

	sort.Strings(origins)

	for _, origin := range origins {
		t.rules.Alias(origin, m[origin])
	}

	return t
}

// AliasPairs adds aliases in the given order.
func (t *Transformer) AliasPairs(pairs ...Alias) *Transformer {
	for _, p := range pairs {
		t.rules.Alias(p.From, p.To)
	}

	return t
}

// ShowKeysAs sets the function applied to every output key. A dotted key
// is converted segment by segment. A nil fn leaves keys untouched.
func (t *Transformer) ShowKeysAs(fn KeyFunc) *Transformer {
	t.rules.ShowKeysAs(fn)
	return t
}

// ShowKeysAsCamelCase renders keys as camelCase.
func (t *Transformer) ShowKeysAsCamelCase() *Transformer {
	return t.ShowKeysAs(casing.CamelCase)
}

// ShowKeysAsSnakeCase renders keys as snake_case.
func (t *Transformer) ShowKeysAsSnakeCase() *Transformer {
	return t.ShowKeysAs(casing.SnakeCase)
}

// ShowKeysAsKebabCase renders keys as kebab-case.
func (t *Transformer) ShowKeysAsKebabCase() *Transformer {
	return t.ShowKeysAs(casing.KebabCase)
}

// ShowKeysAsPascalCase renders keys as PascalCase.
func (t *Transformer) ShowKeysAsPascalCase() *Transformer {
	return t.ShowKeysAs(casing.PascalCase)
}

// Build transforms the source. Objects come back as *Object, arrays as
// []interface{}, and scalars unchanged. Extensions run on the source, in
// order, before it is transformed. A nil source reaches them as an empty
// object.
//
// The only error Build returns is one raised by a Hydratable value in the
// source; it is returned unwrapped.
func (t *Transformer) Build(extend ...Extension) (interface{}, error) {
	src := t.source
	if src == nil {
		src = tree.NewObject()
	}

	for _, fn := range extend {
		if fn != nil {
			src = fn(src)
		}
	}

	var opts []engine.Option
	if t.logger != nil {
		opts = append(opts, engine.WithLogger(t.logger))
	}

	return engine.New(t.rules.Compile(), opts...).Transform(src)
}

// ToPlain is like Build but returns plain maps instead of ordered objects.
func (t *Transformer) ToPlain(extend ...Extension) (interface{}, error) {
	out, err := t.Build(extend...)
	if err != nil {
		return nil, err
	}

	return tree.Plain(out), nil
}

// Hydrate implements Hydratable by building the output tree.
func (t *Transformer) Hydrate() (interface{}, error) {
	return t.Build()
}

// JSON renders the output as compact JSON, keeping key order.
func (t *Transformer) JSON() ([]byte, error) {
	out, err := t.Build()
	if err != nil {
		return nil, err
	}

	data, err := output.Serialize(out, output.SerializeOptions{Format: output.FormatJSON})
	if err != nil {
		return nil, err
	}

	return data[:len(data)-1], nil
}

// YAML renders the output as a YAML document, keeping key order.
func (t *Transformer) YAML() ([]byte, error) {
	out, err := t.Build()
	if err != nil {
		return nil, err
	}

	return output.Serialize(out, output.DefaultSerializeOptions().WithFormat(output.FormatYAML))
}

// MarshalJSON implements json.Marshaler.
func (t *Transformer) MarshalJSON() ([]byte, error) {
	return t.JSON()
}

// String returns the JSON text of the output, or "" when the transformation
// fails. Use JSON to see the error.
func (t *Transformer) String() string {
	data, err := t.JSON()
	if err != nil {
		return ""
	}

	return string(data)
}
