// Package engine implements the recursive builder that walks a source tree
// and produces a transformed copy according to a compiled rule table.
//
// Every node is addressed by its canonical path (see package keypath). For
// each object key the engine consults the table to decide whether the key
// survives, what its output key is, and where in the output it is deposited.
// Rules are always matched against the origin path, so an alias never
// changes which rules apply to the subtree below it.
package engine

import (
	"encoding/json"
	"log/slog"
	"reflect"

	"github.com/rumur/transformer/internal/keypath"
	"github.com/rumur/transformer/internal/rules"
	"github.com/rumur/transformer/internal/tree"
)

// Engine transforms source trees. It is immutable after construction and
// safe for concurrent use.
type Engine struct {
	table  *rules.Table
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine for table. A nil table behaves as an empty one.
func New(table *rules.Table, opts ...Option) *Engine {
	if table == nil {
		table = rules.NewSet().Compile()
	}

	e := &Engine{
		table:  table,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Transform builds the output tree for src. Objects come back as
// *tree.Object, arrays as []interface{}, scalars unchanged. A nil source
// yields an empty object.
//
// Elements of a root array are transformed at the root path, so a rule for
// "Popular" applies to the Popular key of every element.
//
// The only error Transform returns is one raised while hydrating a value;
// it is returned as is.
func (e *Engine) Transform(src interface{}) (interface{}, error) {
	if src == nil {
		return tree.NewObject(), nil
	}

	v, err := e.hydrate(src, "")
	if err != nil {
		return nil, err
	}

	if v == nil {
		return tree.NewObject(), nil
	}

	if items, ok := asSlice(v); ok {
		return e.buildArray(items, e.table.Root(), "")
	}

	return e.build(v, e.table.Root(), "")
}

func (e *Engine) build(value interface{}, node *rules.Node, path string) (interface{}, error) {
	v, err := e.hydrate(value, path)
	if err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case *tree.Object:
		return e.buildObject(val.Keys(), func(k string) interface{} {
			item, _ := val.Get(k)
			return item
		}, node, path)
	case map[string]interface{}:
		return e.buildObject(tree.SortedKeys(val), func(k string) interface{} {
			return val[k]
		}, node, path)
	case []interface{}:
		return e.buildArray(val, node.Element(), keypath.Element(path))
	}

	if m, ok := asMap(v); ok {
		return e.build(m, node, path)
	}

	if items, ok := asSlice(v); ok {
		return e.buildArray(items, node.Element(), keypath.Element(path))
	}

	return v, nil
}

func (e *Engine) buildObject(
	keys []string,
	get func(string) interface{},
	node *rules.Node,
	path string,
) (*tree.Object, error) {
	out := tree.NewObject()

	for _, key := range keys {
		childPath := keypath.Join(path, key)
		child := node.Child(key)

		if !e.table.Keep(child) {
			e.logger.Debug("dropping path", slog.String("path", childPath))
			continue
		}

		result, err := e.build(get(key), child, childPath)
		if err != nil {
			return nil, err
		}

		outKey := e.table.OutputKey(child, childPath)
		if outKey != key {
			e.logger.Debug("renaming path", slog.String("path", childPath), slog.String("key", outKey))
		}

		out.SetPath(outKey, result)
	}

	return out, nil
}

func (e *Engine) buildArray(items []interface{}, node *rules.Node, path string) ([]interface{}, error) {
	out := make([]interface{}, len(items))

	for i, item := range items {
		result, err := e.build(item, node, path)
		if err != nil {
			return nil, err
		}

		out[i] = result
	}

	return out, nil
}

// hydrate resolves value until it is plain data. Hydratable values are
// asked for their data; other JSON marshalers (time.Time, for instance) are
// replaced by the decoded form of their JSON encoding.
func (e *Engine) hydrate(value interface{}, path string) (interface{}, error) {
	for {
		switch v := value.(type) {
		case *tree.Object:
			if v == nil {
				return nil, nil
			}

			return v, nil
		case tree.Hydratable:
			if isNilPointer(v) {
				return nil, nil
			}

			e.logger.Debug("hydrating value", slog.String("path", path), slog.String("type", typeName(v)))

			next, err := v.Hydrate()
			if err != nil {
				return nil, err
			}

			value = next
		case json.Marshaler:
			if isNilPointer(v) {
				return nil, nil
			}

			data, err := v.MarshalJSON()
			if err != nil {
				return nil, err
			}

			return tree.DecodeJSON(data)
		default:
			return value, nil
		}
	}
}

// asMap converts maps with string keys of any named or element type.
func asMap(v interface{}) (map[string]interface{}, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	if rv.IsNil() {
		return nil, false
	}

	out := make(map[string]interface{}, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}

	return out, true
}

// asSlice converts slices and arrays of any element type except bytes,
// which stay scalar.
func asSlice(v interface{}) ([]interface{}, bool) {
	if items, ok := v.([]interface{}); ok {
		return items, true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}

	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

func isNilPointer(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func typeName(v interface{}) string {
	return reflect.TypeOf(v).String()
}
