package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DecodeJSON parses JSON into an ordered tree. Comments and trailing commas
// (JSONC) are accepted. Integral numbers decode to int64, others to float64.
// Integers outside the int64 range are kept as json.Number.
func DecodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding JSON: unexpected data after top-level value")
	}

	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}

		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return numberValue(t), nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func decodeJSONObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}

		obj.Set(key, val)
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

func decodeJSONArray(dec *json.Decoder) ([]interface{}, error) {
	arr := []interface{}{}

	for dec.More() {
		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}

		arr = append(arr, val)
	}

	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return arr, nil
}

func numberValue(n json.Number) interface{} {
	if i, err := n.Int64(); err == nil {
		return i
	}

	if !strings.ContainsAny(n.String(), ".eE") {
		return n
	}

	if f, err := n.Float64(); err == nil {
		return f
	}

	return n.String()
}

// DecodeYAML parses a single YAML document into an ordered tree. An empty
// document decodes to nil. Integers decode to int64, as in DecodeJSON.
func DecodeYAML(data []byte) (interface{}, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	v, err := fromNode(&doc)
	if err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	return v, nil
}

func fromNode(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}

		return fromNode(n.Content[0])
	case yaml.MappingNode:
		obj := NewObject()

		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}

			obj.Set(n.Content[i].Value, val)
		}

		return obj, nil
	case yaml.SequenceNode:
		arr := make([]interface{}, 0, len(n.Content))

		for _, item := range n.Content {
			val, err := fromNode(item)
			if err != nil {
				return nil, err
			}

			arr = append(arr, val)
		}

		return arr, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}

		if i, ok := v.(int); ok {
			return int64(i), nil
		}

		return v, nil
	default:
		return nil, nil
	}
}
