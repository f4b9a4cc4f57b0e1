package defaults

// Clone deep copies an extracted value map so callers can hand out results
// they cache without sharing nested maps.
func Clone(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	return CloneValue(values).(map[string]any)
}

// CloneValue deep copies maps and slices decoded from a definition.
func CloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = CloneValue(item)
		}
		return out
	default:
		return value
	}
}
