package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SerializeFunc renders a tree with the given indent.
type SerializeFunc func(v interface{}, indent int) ([]byte, error)

// Registry maps format names to serializers, enabling pluggable output
// formats for the apply and watch commands.
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]SerializeFunc
}

// NewRegistry creates an empty serializer registry.
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[string]SerializeFunc),
	}
}

// Register adds a serializer under the given format name. Names are matched
// case-insensitively; existing entries are overwritten.
func (r *Registry) Register(name string, fn SerializeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.serializers[strings.ToLower(name)] = fn
}

// Serializer returns the serializer for the given format, or an error if
// none is registered.
func (r *Registry) Serializer(name string) (SerializeFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.serializers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return fn, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatsLocked()
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) formatsLocked() []string {
	names := make([]string, 0, len(r.serializers))
	for name := range r.serializers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	formats := r.formatsLocked()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// formats: json, yaml and its yml synonym.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(FormatJSON, SerializeJSON)
	r.Register(FormatYAML, SerializeYAML)
	r.Register("yml", SerializeYAML)

	return r
}
