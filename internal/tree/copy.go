package tree

import "sort"

// Plain converts an ordered tree into plain Go data: every *Object becomes a
// map[string]interface{} and every []interface{} is copied. Other values are
// returned as they are.
func Plain(v interface{}) interface{} {
	switch val := v.(type) {
	case *Object:
		return ToMap(val)
	case []interface{}:
		return plainSlice(val)
	default:
		return v
	}
}

// ToMap performs a deep conversion of an Object into a map[string]interface{}.
func ToMap(o *Object) map[string]interface{} {
	if o == nil {
		return nil
	}

	dst := make(map[string]interface{}, len(o.keys))

	for _, k := range o.keys {
		dst[k] = Plain(o.values[k])
	}

	return dst
}

func plainSlice(src []interface{}) []interface{} {
	if src == nil {
		return nil
	}

	dst := make([]interface{}, len(src))

	for i, v := range src {
		dst[i] = Plain(v)
	}

	return dst
}

// FromMap performs a deep conversion of a plain map into an Object. Go maps
// carry no order, so keys are inserted in sorted order.
func FromMap(src map[string]interface{}) *Object {
	if src == nil {
		return nil
	}

	dst := NewObject()

	for _, k := range SortedKeys(src) {
		dst.Set(k, ordered(src[k]))
	}

	return dst
}

func ordered(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return FromMap(val)
	case []interface{}:
		dst := make([]interface{}, len(val))
		for i, item := range val {
			dst[i] = ordered(item)
		}

		return dst
	default:
		return v
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
