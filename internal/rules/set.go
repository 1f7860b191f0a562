package rules

import (
	"github.com/rumur/transformer/internal/casing"
	"github.com/rumur/transformer/internal/keypath"
)

// Set accumulates rules through fluent calls. Calls are append-only; a later
// alias for the same path wins at compile time.
//
// A Set is not safe for concurrent mutation. Use Clone to hand an
// independent copy to another goroutine.
type Set struct {
	rules []Rule
	keyFn casing.Func
}

// NewSet creates an empty rule set.
func NewSet() *Set {
	return &Set{}
}

// Add appends rules in order. Include-only rules are expanded so that every
// ancestor of their path is selected as well.
func (s *Set) Add(rules ...Rule) *Set {
	for _, r := range rules {
		if r.Action != ActionIncludeOnly {
			s.rules = append(s.rules, r)
			continue
		}

		for _, p := range keypath.Ancestors(r.Path) {
			s.rules = append(s.rules, Rule{Path: p, Action: ActionIncludeOnly})
		}
	}

	return s
}

// Except drops the nodes at paths together with their subtrees.
func (s *Set) Except(paths ...string) *Set {
	return s.addPaths(ActionExclude, paths)
}

// Only restricts the output to paths and the ancestors needed to reach them.
func (s *Set) Only(paths ...string) *Set {
	return s.addPaths(ActionIncludeOnly, paths)
}

// KeepOrigin exempts the output keys at paths from the key-case function.
func (s *Set) KeepOrigin(paths ...string) *Set {
	return s.addPaths(ActionKeepOrigin, paths)
}

// Alias renames the node at origin to alias. A dotted alias re-nests the value.
func (s *Set) Alias(origin, alias string) *Set {
	return s.Add(Rule{Path: origin, Action: ActionAlias, Alias: alias})
}

// ShowKeysAs sets the function applied to every resolved output key.
// A nil fn disables key conversion.
func (s *Set) ShowKeysAs(fn casing.Func) *Set {
	s.keyFn = fn
	return s
}

// KeyFunc returns the configured key-case function, or nil.
func (s *Set) KeyFunc() casing.Func {
	return s.keyFn
}

// Rules returns a copy of the accumulated rules in insertion order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)

	return out
}

// Len returns the number of accumulated rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{rules: s.Rules(), keyFn: s.keyFn}
}

// Merge appends the rules of other and adopts its key function when set.
func (s *Set) Merge(other *Set) *Set {
	if other == nil {
		return s
	}

	s.rules = append(s.rules, other.rules...)

	if other.keyFn != nil {
		s.keyFn = other.keyFn
	}

	return s
}

// Compile builds the lookup table for one transformation run.
func (s *Set) Compile() *Table {
	t := &Table{root: newNode(), keyFn: s.keyFn}

	for _, r := range s.rules {
		n := t.root.ensure(r.Path)

		switch r.Action {
		case ActionAlias:
			n.alias = r.Alias
			n.aliased = true
		case ActionExclude:
			n.except = true
		case ActionIncludeOnly:
			n.only = true
			t.onlyActive = true
		case ActionKeepOrigin:
			n.keepOrigin = true
		}
	}

	return t
}

func (s *Set) addPaths(action Action, paths []string) *Set {
	for _, p := range paths {
		s.Add(Rule{Path: p, Action: action})
	}

	return s
}
