package tree

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
)

// Hydratable is implemented by domain values that can convert themselves to
// plain data (objects, arrays, scalars) before being traversed. Errors are
// surfaced to the caller of the transformation unmodified.
type Hydratable interface {
	Hydrate() (interface{}, error)
}

// HydrateFunc adapts an ordinary function to the Hydratable interface.
type HydrateFunc func() (interface{}, error)

// Hydrate calls f.
func (f HydrateFunc) Hydrate() (interface{}, error) {
	return f()
}

// FromStruct wraps a pointer to a struct so that it hydrates into its
// unstructured form, honouring json struct tags. Integers hydrate to int64
// and floats to float64.
func FromStruct(obj interface{}) Hydratable {
	return HydrateFunc(func() (interface{}, error) {
		m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
		if err != nil {
			return nil, fmt.Errorf("converting %T to plain data: %w", obj, err)
		}

		return m, nil
	})
}
