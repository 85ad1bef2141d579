package convert

import (
	"math"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{"float64", 3.14, 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 42, 42.0, true},
		{"int64", int64(99), 99.0, true},
		{"int32", int32(50), 50.0, true},
		{"uint", uint(10), 10.0, true},
		{"uint64", uint64(100), 100.0, true},
		{"uint32", uint32(25), 25.0, true},
		{"string decimal", "3.14", 3.14, true},
		{"string scientific", "1.5e-3", 0.0015, true},
		{"string invalid", "hello", 0, false},
		{"string empty", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"slice", []int{1, 2}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			assert.Equal(t, tt.ok, ok, "ok mismatch")
			if ok {
				assert.InDelta(t, tt.expected, got, 0.0001, "value mismatch")
			}
		})
	}

	t.Run("string NaN", func(t *testing.T) {
		got, ok := ToFloat64("NaN")
		assert.True(t, ok)
		assert.True(t, math.IsNaN(got))
	})
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
		ok       bool
	}{
		{"int64", int64(99), 99, true},
		{"int", 42, 42, true},
		{"int32", int32(50), 50, true},
		{"uint", uint(10), 10, true},
		{"uint32", uint32(25), 25, true},
		{"uint64", uint64(100), 100, true},
		{"uint64 overflow", uint64(math.MaxUint64), 0, false},
		{"integral float", 3.0, 3, true},
		{"negative integral float", -7.0, -7, true},
		{"fractional float", 3.7, 0, false},
		{"float32", float32(2), 2, true},
		{"huge float", 1e300, 0, false},
		{"string integer", "42", 42, true},
		{"string negative", "-10", -10, true},
		{"string integral float", "4.0", 4, true},
		{"string fractional", "3.7", 0, false},
		{"string invalid", "hello", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.input)
			assert.Equal(t, tt.ok, ok, "ok mismatch")
			assert.Equal(t, tt.expected, got, "value mismatch")
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		ok       bool
	}{
		{"string", "Alice", "Alice", true},
		{"int", 42, "42", true},
		{"int64", int64(-3), "-3", true},
		{"large uint64", uint64(math.MaxUint64), "18446744073709551615", true},
		{"integral float", 7.0, "7", true},
		{"fractional float", 7.5, "", false},
		{"stringer", netip.MustParseAddr("10.0.0.1"), "10.0.0.1", true},
		{"bool", false, "", false},
		{"nil", nil, "", false},
		{"map", map[string]any{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToString(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToFloat64Slice(t *testing.T) {
	got, ok := ToFloat64Slice([]float32{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2}, got)

	got, ok = ToFloat64Slice([]any{1, "2.5", int64(3)})
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2.5, 3}, got)

	got, ok = ToFloat64Slice([]any{1, "invalid"})
	assert.False(t, ok)
	assert.Nil(t, got)

	_, ok = ToFloat64Slice("not a slice")
	assert.False(t, ok)
}

func TestToInt64Slice(t *testing.T) {
	got, ok := ToInt64Slice([]int{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2}, got)

	got, ok = ToInt64Slice([]any{1, int32(2), "3"})
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, got)

	_, ok = ToInt64Slice([]any{1, 2.5})
	assert.False(t, ok)
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ToStringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, ToStringSlice([]any{"a", "b"}))
	assert.Nil(t, ToStringSlice([]any{"a", 1}))
	assert.Nil(t, ToStringSlice(123))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"int", 42, int64(42)},
		{"uint32", uint32(7), int64(7)},
		{"huge uint64", uint64(math.MaxUint64), float64(math.MaxUint64)},
		{"float32", float32(1.5), 1.5},
		{"string", "x", "x"},
		{"bool", true, true},
		{"nil", nil, nil},
		{"strings", []any{"a", "b"}, []string{"a", "b"}},
		{"ints", []any{1, 2}, []int64{1, 2}},
		{"mixed numbers", []any{1, 2.5}, []float64{1, 2.5}},
		{"mixed kinds", []any{"a", 1}, []any{"a", int64(1)}},
		{"empty list", []any{}, []any{}},
		{"nested map", map[string]any{"n": 1, "tags": []any{"x"}}, map[string]any{"n": int64(1), "tags": []string{"x"}}},
		{"list of maps", []any{map[string]any{"n": 1}}, []any{map[string]any{"n": int64(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	input := map[string]any{"name": "Alice", "age": 31, "tags": []any{"a", "b", "c"}, "scores": []any{1, 2.5, 3}}
	for b.Loop() {
		Normalize(input)
	}
}
