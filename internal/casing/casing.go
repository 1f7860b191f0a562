// Package casing provides the key-case presets the transformer can apply to
// resolved output keys.
package casing

import (
	"fmt"
	"strings"

	"github.com/stoewer/go-strcase"

	"github.com/rumur/transformer/internal/keypath"
)

// Func converts a single key. It must be pure.
type Func func(string) string

// Preset names.
const (
	None   = "none"
	Camel  = "camel"
	Snake  = "snake"
	Kebab  = "kebab"
	Pascal = "pascal"
)

// CamelCase converts "tag_id", "TagId" or "TAG_ID" to "tagId".
func CamelCase(s string) string { return strcase.LowerCamelCase(s) }

// SnakeCase converts "tagId" or "TagID" to "tag_id".
func SnakeCase(s string) string { return strcase.SnakeCase(s) }

// KebabCase converts "tagId" to "tag-id".
func KebabCase(s string) string { return strcase.KebabCase(s) }

// PascalCase converts "tag_id" to "TagId".
func PascalCase(s string) string { return strcase.UpperCamelCase(s) }

// Presets returns the names accepted by ForName, excluding None.
func Presets() []string {
	return []string{Camel, Snake, Kebab, Pascal}
}

// ForName resolves a preset name. None and the empty string resolve to a nil
// Func, meaning keys are left untouched.
func ForName(name string) (Func, error) {
	switch strings.ToLower(name) {
	case "", None:
		return nil, nil
	case Camel:
		return CamelCase, nil
	case Snake:
		return SnakeCase, nil
	case Kebab:
		return KebabCase, nil
	case Pascal:
		return PascalCase, nil
	default:
		return nil, fmt.Errorf("unknown key case %q: must be one of none, %s", name, strings.Join(Presets(), ", "))
	}
}

// ApplySegments applies fn to every dot-separated segment of key, so that a
// dotted alias keeps its nesting after conversion. A nil fn is the identity.
func ApplySegments(fn Func, key string) string {
	if fn == nil {
		return key
	}

	if !strings.Contains(key, keypath.Separator) {
		return fn(key)
	}

	segments := strings.Split(key, keypath.Separator)
	for i, seg := range segments {
		segments[i] = fn(seg)
	}

	return strings.Join(segments, keypath.Separator)
}
