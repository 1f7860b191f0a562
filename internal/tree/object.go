// Package tree provides the data model the transformer reads and writes:
// an insertion-ordered [Object], conversion helpers between ordered trees and
// plain map[string]interface{} trees, ordered JSON/YAML decoding, and the
// [Hydratable] capability for domain values that convert themselves to plain
// data.
//
// Object order matters because output keys are emitted in the order the
// source presented them, and a later dotted alias may overwrite an earlier
// one at the same output position.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rumur/transformer/internal/keypath"
)

// Object is a string-keyed map that remembers insertion order.
// The zero value is not usable; create instances with NewObject.
type Object struct {
	keys   []string
	values map[string]interface{}
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]interface{})}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)

	return out
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (interface{}, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key. Overwriting keeps the key's original position.
func (o *Object) Set(key string, value interface{}) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}

	o.values[key] = value
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, exists := o.values[key]; !exists {
		return
	}

	delete(o.values, key)

	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for every entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, value interface{}) bool) {
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// SetPath stores value at a dot-separated path, creating intermediate
// objects as needed. An intermediate that exists but is not an *Object is
// replaced by a fresh one.
func (o *Object) SetPath(path string, value interface{}) {
	segments := keypath.Split(path)
	if len(segments) == 0 {
		o.Set(path, value)
		return
	}

	current := o

	for _, seg := range segments[:len(segments)-1] {
		next, ok := current.values[seg].(*Object)
		if !ok {
			next = NewObject()
			current.Set(seg, next)
		}

		current = next
	}

	current.Set(segments[len(segments)-1], value)
}

// GetPath returns the value at a dot-separated path.
func (o *Object) GetPath(path string) (interface{}, bool) {
	var current interface{} = o

	for _, seg := range keypath.Split(path) {
		obj, ok := current.(*Object)
		if !ok {
			return nil, false
		}

		current, ok = obj.values[seg]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// MarshalJSON encodes the object with its keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}

		vb, err := marshalJSON(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalJSON encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalYAML encodes the object as a YAML mapping in insertion order.
func (o *Object) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, k := range o.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(o.values[k]); err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}
