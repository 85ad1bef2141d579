package convert

// ToFloat64Slice converts []float64, []float32 and []any of numbers to
// []float64. A single non-numeric element fails the whole conversion.
//
//	ToFloat64Slice([]any{1, 2.5, "3"}) // [1 2.5 3], true
func ToFloat64Slice(v any) ([]float64, bool) {
	switch val := v.(type) {
	case []float64:
		return val, true
	case []float32:
		result := make([]float64, len(val))
		for i, f := range val {
			result[i] = float64(f)
		}
		return result, true
	case []any:
		result := make([]float64, len(val))
		for i, item := range val {
			f, ok := ToFloat64(item)
			if !ok {
				return nil, false
			}
			result[i] = f
		}
		return result, true
	}
	return nil, false
}

// ToInt64Slice converts []int64, []int and []any of integers to []int64.
func ToInt64Slice(v any) ([]int64, bool) {
	switch val := v.(type) {
	case []int64:
		return val, true
	case []int:
		result := make([]int64, len(val))
		for i, n := range val {
			result[i] = int64(n)
		}
		return result, true
	case []any:
		result := make([]int64, len(val))
		for i, item := range val {
			n, ok := ToInt64(item)
			if !ok {
				return nil, false
			}
			result[i] = n
		}
		return result, true
	}
	return nil, false
}

// ToStringSlice converts []string and []any holding only strings to
// []string. Returns nil otherwise.
//
//	ToStringSlice([]any{"a", "b"}) // [a b]
//	ToStringSlice([]any{"a", 1})   // nil
func ToStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			result[i] = s
		}
		return result
	}
	return nil
}

// Normalize rewrites a decoded document value into canonical types:
// integers become int64, other numbers float64, homogeneous lists typed
// slices ([]string, []int64, []float64) and maps are normalized
// recursively. Empty and mixed lists stay []any with normalized elements.
func Normalize(v any) any {
	switch val := v.(type) {
	case int, int32, int64, uint, uint32:
		n, _ := ToInt64(val)
		return n
	case uint64:
		if n, ok := ToInt64(val); ok {
			return n
		}
		return float64(val)
	case float32:
		return float64(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		return normalizeList(val)
	}
	return v
}

func normalizeList(list []any) any {
	if len(list) == 0 {
		return list
	}
	items := make([]any, len(list))
	strs, ints, nums := true, true, true
	for i, item := range list {
		n := Normalize(item)
		items[i] = n
		switch n.(type) {
		case string:
			ints, nums = false, false
		case int64:
			strs = false
		case float64:
			strs, ints = false, false
		default:
			strs, ints, nums = false, false, false
		}
	}
	switch {
	case strs:
		return ToStringSlice(items)
	case ints:
		out, _ := ToInt64Slice(items)
		return out
	case nums:
		out, _ := ToFloat64Slice(items)
		return out
	}
	return items
}
