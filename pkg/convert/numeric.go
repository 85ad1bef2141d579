// Package convert turns loosely typed document values into the concrete
// types graph properties and ids are stored as.
//
// Decoders hand back interface values whose dynamic type depends on the
// input format: YAML yields int for small integers, JSON-style numbers may
// arrive as float64 and ids may be numbers or strings. The functions here
// accept any of these and report whether the conversion succeeded.
//
// Example:
//
//	if n, ok := convert.ToInt64(doc["since"]); ok {
//		// use n
//	}
//	id, ok := convert.ToString(node["id"]) // 42 -> "42"
package convert

import (
	"fmt"
	"math"
	"strconv"
)

// ToFloat64 converts numeric types and numeric strings to float64.
//
//	ToFloat64(42)      // 42, true
//	ToFloat64("1e-3")  // 0.001, true
//	ToFloat64("hello") // 0, false
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ToInt64 converts integer types, integral floats and integer strings to
// int64. Floats with a fractional part and values out of range fail.
//
//	ToInt64(int32(7)) // 7, true
//	ToInt64(3.0)      // 3, true
//	ToInt64(3.7)      // 0, false
//	ToInt64("123")    // 123, true
func ToInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float64:
		return floatToInt(val)
	case float32:
		return floatToInt(float64(val))
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ToString converts strings, integers, integral floats and fmt.Stringers to
// a string. It is meant for identifiers, so bools, fractional floats and
// composite values fail.
//
//	ToString("a")   // "a", true
//	ToString(42)    // "42", true
//	ToString(42.0)  // "42", true
//	ToString(4.2)   // "", false
func ToString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case float64, float32:
		if i, ok := ToInt64(val); ok {
			return strconv.FormatInt(i, 10), true
		}
		return "", false
	}
	if i, ok := ToInt64(v); ok {
		return strconv.FormatInt(i, 10), true
	}
	if u, ok := v.(uint64); ok {
		return strconv.FormatUint(u, 10), true
	}
	return "", false
}
