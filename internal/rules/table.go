package rules

import (
	"sort"
	"strings"

	"github.com/rumur/transformer/internal/casing"
	"github.com/rumur/transformer/internal/keypath"
)

// Node is one segment of the compiled trie. A nil *Node is valid and means
// "no rule at or below this path".
type Node struct {
	children map[string]*Node

	alias      string
	aliased    bool
	except     bool
	only       bool
	keepOrigin bool
}

func newNode() *Node {
	return &Node{}
}

// Child returns the node for key below n. A key containing the separator
// walks one level per segment, so a source key "a.b" addresses the same
// rules as the nested path a → b.
func (n *Node) Child(key string) *Node {
	if n == nil {
		return nil
	}

	if !strings.Contains(key, keypath.Separator) {
		return n.children[key]
	}

	current := n
	for _, seg := range keypath.Split(key) {
		if current = current.children[seg]; current == nil {
			return nil
		}
	}

	return current
}

// Element returns the node shared by every element of the array at n.
func (n *Node) Element() *Node {
	return n.Child(keypath.Wildcard)
}

func (n *Node) ensure(path string) *Node {
	current := n

	for _, seg := range keypath.Split(path) {
		if current.children == nil {
			current.children = make(map[string]*Node)
		}

		next, ok := current.children[seg]
		if !ok {
			next = newNode()
			current.children[seg] = next
		}

		current = next
	}

	return current
}

// Table is the compiled, read-only form of a Set.
type Table struct {
	root       *Node
	onlyActive bool
	keyFn      casing.Func
}

// Root returns the node of the root path.
func (t *Table) Root() *Node {
	return t.root
}

// Lookup returns the node at a canonical path, or nil.
func (t *Table) Lookup(path string) *Node {
	if path == "" {
		return t.root
	}

	return t.root.Child(path)
}

// Keep reports whether the node at n survives selection: include-only
// rules are consulted first, exclusions second.
func (t *Table) Keep(n *Node) bool {
	if t.onlyActive && (n == nil || !n.only) {
		return false
	}

	return n == nil || !n.except
}

// OutputKey resolves the output key for the node at the canonical path. The
// alias wins over the last path segment; the key-case function is then
// applied per dotted segment unless the node keeps its origin casing.
func (t *Table) OutputKey(n *Node, path string) string {
	key := keypath.Last(path)

	if n != nil && n.aliased {
		key = n.alias
	}

	if n != nil && n.keepOrigin {
		return key
	}

	return casing.ApplySegments(t.keyFn, key)
}

// Entry is a flattened view of one compiled trie node.
type Entry struct {
	Path       string `json:"path"`
	Alias      string `json:"alias,omitempty"`
	Exclude    bool   `json:"exclude,omitempty"`
	Only       bool   `json:"only,omitempty"`
	KeepOrigin bool   `json:"keepOrigin,omitempty"`
}

// Entries lists every node that carries at least one rule, sorted by path.
func (t *Table) Entries() []Entry {
	var out []Entry

	var walk func(n *Node, path string)
	walk = func(n *Node, path string) {
		if n.aliased || n.except || n.only || n.keepOrigin {
			e := Entry{Path: path, Exclude: n.except, Only: n.only, KeepOrigin: n.keepOrigin}
			if n.aliased {
				e.Alias = n.alias
			}

			out = append(out, e)
		}

		for seg, child := range n.children {
			walk(child, keypath.Join(path, seg))
		}
	}

	walk(t.root, "")

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

// OnlyActive reports whether include-only selection is in effect.
func (t *Table) OnlyActive() bool {
	return t.onlyActive
}
