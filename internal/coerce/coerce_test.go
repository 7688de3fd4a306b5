package coerce

import (
	"math"
	"reflect"
	"testing"
)

type target struct {
	Name    string
	Count   int
	Ratio   float64
	Active  bool
	Tags    []string
	Extra   any
	Pointer *int
	Nested  nested
	Renamed string `config:"alias"`
}

type nested struct {
	Value int
}

func TestFieldsLeavesEqualValuesUntouched(t *testing.T) {
	v := target{Name: "same"}
	Fields(&v, map[string]any{"name": "same"})
	if v.Name != "same" {
		t.Fatalf("equal value changed: %q", v.Name)
	}
}

func TestFieldsNilSectionValueClearsNilableFields(t *testing.T) {
	n := 5
	v := target{Tags: []string{"a"}, Pointer: &n, Extra: "x", Count: 3}
	Fields(&v, map[string]any{"tags": nil, "pointer": nil, "extra": nil, "count": nil})

	if v.Tags != nil || v.Pointer != nil || v.Extra != nil {
		t.Fatalf("nilable fields should clear: %+v", v)
	}
	if v.Count != 3 {
		t.Fatalf("non-nilable field must stay untouched on nil, got %d", v.Count)
	}
}

func TestFieldsAssignsSectionValueWhenDefaultIsNil(t *testing.T) {
	v := target{}
	Fields(&v, map[string]any{"extra": map[string]any{"k": 1}, "pointer": "42"})

	if v.Extra == nil {
		t.Fatalf("nil interface default should take the section value as-is")
	}
	if v.Pointer == nil || *v.Pointer != 42 {
		t.Fatalf("nil pointer default should allocate and coerce, got %v", v.Pointer)
	}
}

func TestFieldsStringCoercion(t *testing.T) {
	cases := []struct {
		raw  any
		want string
	}{
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{2.5, "2.5"},
		{"plain", "plain"},
		{map[string]any{"a": 1}, `{"a":1}`},
	}
	for _, tc := range cases {
		v := target{Name: "default"}
		Fields(&v, map[string]any{"name": tc.raw})
		if v.Name != tc.want {
			t.Fatalf("Stringify(%v): got %q, want %q", tc.raw, v.Name, tc.want)
		}
	}
}

func TestFieldsBoolCoercion(t *testing.T) {
	cases := []struct {
		raw  any
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"on", true},
		{"On", true},
		{"off", false},
		{"yes", false},
		{true, true},
		{false, false},
		{1, true},
		{1.0, true},
		{2, false},
		{0, false},
		{[]any{1}, false},
	}
	for _, tc := range cases {
		v := target{Active: !tc.want}
		Fields(&v, map[string]any{"active": tc.raw})
		if v.Active != tc.want {
			t.Fatalf("Boolify(%v): got %v, want %v", tc.raw, v.Active, tc.want)
		}
	}
}

func TestFieldsNumericCoercion(t *testing.T) {
	cases := []struct {
		raw  any
		want int
	}{
		{"250", 250},
		{" 12 ", 12},
		{"abc", 0},
		{true, 1},
		{false, 0},
		{7.9, 7},
		{int64(9), 9},
		{map[string]any{}, 0},
	}
	for _, tc := range cases {
		v := target{Count: 99}
		Fields(&v, map[string]any{"count": tc.raw})
		if v.Count != tc.want {
			t.Fatalf("Numify(%v): got %d, want %d", tc.raw, v.Count, tc.want)
		}
	}
}

func TestFieldsSaturatesOutOfRangeNumbers(t *testing.T) {
	type limits struct {
		Big   int64
		Small int8
		Count uint8
		Wide  uint64
	}

	v := limits{}
	Fields(&v, map[string]any{
		"big":   1e300,
		"small": float64(1000),
		"count": float64(-5),
		"wide":  1e300,
	})
	if v.Big != math.MaxInt64 {
		t.Fatalf("expected int64 saturation, got %d", v.Big)
	}
	if v.Small != math.MaxInt8 {
		t.Fatalf("expected int8 saturation, got %d", v.Small)
	}
	if v.Count != 0 {
		t.Fatalf("negative value into uint should be 0, got %d", v.Count)
	}
	if v.Wide != math.MaxUint64 {
		t.Fatalf("expected uint64 saturation, got %d", v.Wide)
	}

	Fields(&v, map[string]any{
		"big":   -1e300,
		"small": math.NaN(),
		"count": float64(300),
	})
	if v.Big != math.MinInt64 {
		t.Fatalf("expected negative int64 saturation, got %d", v.Big)
	}
	if v.Small != 0 {
		t.Fatalf("NaN should coerce to 0, got %d", v.Small)
	}
	if v.Count != math.MaxUint8 {
		t.Fatalf("expected uint8 saturation, got %d", v.Count)
	}
}

func TestFieldsRecursesIntoNestedStructs(t *testing.T) {
	v := target{Nested: nested{Value: 1}}
	Fields(&v, map[string]any{"nested": map[string]any{"value": "3"}})
	if v.Nested.Value != 3 {
		t.Fatalf("nested recursion failed: %d", v.Nested.Value)
	}
}

func TestFieldsLeavesUnmatchedKindsUntouched(t *testing.T) {
	v := target{Tags: []string{"keep"}}
	Fields(&v, map[string]any{"tags": "not-a-slice"})
	if !reflect.DeepEqual(v.Tags, []string{"keep"}) {
		t.Fatalf("slice field should be untouched, got %v", v.Tags)
	}
}

func TestFieldsHonoursConfigTag(t *testing.T) {
	v := target{}
	Fields(&v, map[string]any{"alias": "tagged"})
	if v.Renamed != "tagged" {
		t.Fatalf("config tag not honoured: %q", v.Renamed)
	}
}

func TestFieldsIgnoresKeysAbsentFromStruct(t *testing.T) {
	v := target{Name: "keep"}
	Fields(&v, map[string]any{"unknown": 1})
	if v.Name != "keep" {
		t.Fatalf("unrelated key mutated the struct: %q", v.Name)
	}
}

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"ServerOptions": "serverOptions",
		"a":             "a",
		"":              "",
		"HTTP":          "hTTP",
	}
	for in, want := range cases {
		if got := LowerFirst(in); got != want {
			t.Fatalf("LowerFirst(%q) = %q, want %q", in, got, want)
		}
	}
}
