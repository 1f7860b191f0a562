// Package keypath computes canonical dotted paths for nodes of a data tree.
//
// A canonical path describes the shape-position of a node, not its position
// in an array: every array traversal contributes the wildcard segment "*"
// instead of an index, so "Tags.*.Meta.*.Name" addresses the Name field of
// every Meta element of every Tags element.
package keypath

import "strings"

const (
	// Separator joins path segments.
	Separator = "."

	// Wildcard is the segment every array element contributes.
	Wildcard = "*"
)

// Join appends key to parent. An empty parent denotes the root.
func Join(parent, key string) string {
	if parent == "" {
		return key
	}

	return parent + Separator + key
}

// Element returns the path shared by all elements of the array found at path.
func Element(path string) string {
	return Join(path, Wildcard)
}

// Split breaks a path into its segments. The empty path has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, Separator)
}

// Last returns the final segment of path, i.e. the node's own name.
func Last(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+1:]
	}

	return path
}

// Ancestors returns every cumulative prefix of path that names an object
// key, followed by path itself. Prefixes ending in a wildcard are skipped:
// array elements are never selected individually, only the keys inside them.
//
//	Ancestors("Tags.*.Meta.*.Name") => [Tags Tags.*.Meta Tags.*.Meta.*.Name]
//	Ancestors("Category.Id")        => [Category Category.Id]
//	Ancestors("Name")               => [Name]
func Ancestors(path string) []string {
	segments := Split(path)
	if len(segments) <= 1 {
		return []string{path}
	}

	out := make([]string, 0, len(segments))
	prefix := ""

	for i, seg := range segments {
		prefix = Join(prefix, seg)

		if seg == Wildcard && i < len(segments)-1 {
			continue
		}

		out = append(out, prefix)
	}

	return out
}
