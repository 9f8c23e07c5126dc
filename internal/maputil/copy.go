// Package maputil deep-copies decoded JSON values so that a render context
// never shares mutable state with the record it was built from.
package maputil

// LeafFunc maps a scalar value (anything that is not an object or array)
// during a copy.
type LeafFunc func(v any) any

// DeepCopyMap returns a deep copy of src. Nested objects and arrays are
// copied; scalars (strings, bools, json.Number, nil) are shared.
func DeepCopyMap(src map[string]any) map[string]any {
	return DeepCopyMapFunc(src, nil)
}

// DeepCopyMapFunc is DeepCopyMap with every scalar passed through leaf.
// A nil leaf keeps scalars unchanged.
func DeepCopyMapFunc(src map[string]any, leaf LeafFunc) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))

	for k, v := range src {
		dst[k] = copyValue(v, leaf)
	}

	return dst
}

// DeepCopySlice returns a deep copy of src.
func DeepCopySlice(src []any) []any {
	return copySlice(src, nil)
}

// DeepCopy copies a single decoded JSON value.
func DeepCopy(v any) any {
	return copyValue(v, nil)
}

func copySlice(src []any, leaf LeafFunc) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))

	for i, v := range src {
		dst[i] = copyValue(v, leaf)
	}

	return dst
}

func copyValue(v any, leaf LeafFunc) any {
	switch val := v.(type) {
	case map[string]any:
		return DeepCopyMapFunc(val, leaf)
	case []any:
		return copySlice(val, leaf)
	case []string:
		return append([]string(nil), val...)
	default:
		if leaf != nil {
			return leaf(v)
		}

		return v
	}
}
