// Package rules holds the declarative configuration of a transformation: an
// ordered list of typed rule records addressed by canonical path, and the
// trie they compile into for lookup during a tree walk.
//
// Selection follows a fixed precedence. When any include-only rule exists,
// a path without one is dropped; otherwise an exclude rule drops it. An
// exclusion therefore wins over an inclusion on the same path.
package rules

import (
	"fmt"
	"strings"
)

// Action is what a rule does to the node at its path.
type Action int

// Supported actions.
const (
	// ActionAlias renames the node's output key.
	ActionAlias Action = iota + 1
	// ActionExclude drops the node and its subtree.
	ActionExclude
	// ActionIncludeOnly selects the node; once any exists, unselected nodes are dropped.
	ActionIncludeOnly
	// ActionKeepOrigin exempts the node's output key from the key-case function.
	ActionKeepOrigin
)

var actionNames = map[Action]string{
	ActionAlias:       "alias",
	ActionExclude:     "exclude",
	ActionIncludeOnly: "only",
	ActionKeepOrigin:  "keepOrigin",
}

// String returns the canonical action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction resolves an action name. Matching is case-insensitive and
// accepts the names used by the fluent API as synonyms.
func ParseAction(name string) (Action, error) {
	switch strings.ToLower(name) {
	case "alias", "rename":
		return ActionAlias, nil
	case "exclude", "except":
		return ActionExclude, nil
	case "only", "includeonly", "include":
		return ActionIncludeOnly, nil
	case "keeporigin", "donottransform":
		return ActionKeepOrigin, nil
	default:
		return 0, fmt.Errorf("unknown action %q: must be one of alias, exclude, only, keepOrigin", name)
	}
}

// Rule is one configuration record.
type Rule struct {
	// Path is the canonical origin path, e.g. "Tags.*.Id".
	Path string
	// Action is what happens at Path.
	Action Action
	// Alias is the output key or dotted output path. Only used by ActionAlias.
	Alias string
}

// String renders the rule for diagnostics.
func (r Rule) String() string {
	if r.Action == ActionAlias {
		return fmt.Sprintf("%s %s -> %s", r.Action, r.Path, r.Alias)
	}

	return fmt.Sprintf("%s %s", r.Action, r.Path)
}
