// Package coerce converts loosely typed configuration sections onto typed
// defaults structs. Mismatches never error; every rule resolves to a safe
// value so callers always get a usable object back.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fields applies section values onto target, which must be a non-nil
// pointer to struct. Only fields present in both the struct and the section
// are touched. Rule precedence, first match wins:
//
//  1. values already equal → unchanged
//  2. section value is nil → nilable fields set to nil
//  3. defaults value nil, section value present → assigned as-is
//  4. string field → canonical string form of the section value
//  5. bool field → "1"/"true"/"on" (any case) true, other strings false;
//     numbers equal to 1 true; anything else false
//  6. numeric field → numeric form of the section value, 0 on mismatch
//  7. struct field + section object → recurse
//  8. otherwise untouched
func Fields(target any, section map[string]any) {
	if target == nil || section == nil {
		return
	}
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return
	}
	coerceStruct(value, section)
}

func coerceStruct(target reflect.Value, section map[string]any) {
	targetType := target.Type()
	for i := 0; i < target.NumField(); i++ {
		field := target.Field(i)
		if !field.CanSet() {
			continue
		}
		raw, ok := section[FieldKey(targetType.Field(i))]
		if !ok {
			continue
		}
		coerceField(field, raw)
	}
}

// FieldKey resolves the section key for a struct field: the `config` tag
// when present, otherwise the field name with its first rune lowered.
func FieldKey(field reflect.StructField) string {
	if tag := field.Tag.Get("config"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return LowerFirst(field.Name)
}

// LowerFirst lowers the first rune of name.
func LowerFirst(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

func coerceField(field reflect.Value, raw any) {
	// Rule 1: already equal.
	if field.CanInterface() && reflect.DeepEqual(field.Interface(), raw) {
		return
	}

	// Rule 2: section value is nil.
	if raw == nil {
		if isNilable(field.Kind()) {
			field.Set(reflect.Zero(field.Type()))
		}
		return
	}

	// Rule 3: defaults value is nil but the section has a value.
	if isNilable(field.Kind()) && field.IsNil() {
		assignAsIs(field, raw)
		return
	}

	switch field.Kind() {
	case reflect.String:
		// Rule 4.
		field.SetString(Stringify(raw))
	case reflect.Bool:
		// Rule 5.
		field.SetBool(Boolify(raw))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Rule 6.
		field.SetInt(clampInt(field.Type().Bits(), Numify(raw)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.SetUint(clampUint(field.Type().Bits(), Numify(raw)))
	case reflect.Float32, reflect.Float64:
		field.SetFloat(Numify(raw))
	case reflect.Struct:
		// Rule 7.
		if nested, ok := asMap(raw); ok {
			coerceStruct(field, nested)
		}
	case reflect.Pointer:
		if field.Type().Elem().Kind() == reflect.Struct {
			if nested, ok := asMap(raw); ok {
				coerceStruct(field.Elem(), nested)
			}
		} else {
			coerceField(field.Elem(), raw)
		}
	default:
		// Rule 8: left untouched.
	}
}

// assignAsIs sets a nil field from the raw section value, allocating
// pointers and coercing their element so the assignment still lands when
// the dynamic types differ.
func assignAsIs(field reflect.Value, raw any) {
	value := reflect.ValueOf(raw)
	switch field.Kind() {
	case reflect.Interface:
		if value.Type().AssignableTo(field.Type()) {
			field.Set(value)
		}
	case reflect.Pointer:
		elem := reflect.New(field.Type().Elem())
		coerceField(elem.Elem(), raw)
		field.Set(elem)
	default:
		if value.Type().AssignableTo(field.Type()) {
			field.Set(value)
		}
	}
}

func isNilable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

func asMap(raw any) (map[string]any, bool) {
	if m, ok := raw.(map[string]any); ok {
		return m, true
	}
	value := reflect.ValueOf(raw)
	if value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	}
	return nil, false
}

// Stringify renders raw in its canonical string form: booleans as
// "true"/"false", numbers via strconv, and objects through their JSON
// serialisation.
func Stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}

	value := reflect.ValueOf(raw)
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(value.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'f', -1, 64)
	}

	if encoded, err := json.Marshal(raw); err == nil {
		return string(encoded)
	}
	return fmt.Sprint(raw)
}

// Boolify coerces raw to a boolean: the strings "1", "true", and "on"
// (case-insensitive) are true and any other string is false; numbers are
// true only when equal to 1; everything else is false.
func Boolify(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "1", "true", "on":
			return true
		default:
			return false
		}
	}

	value := reflect.ValueOf(raw)
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int() == 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Uint() == 1
	case reflect.Float32, reflect.Float64:
		return value.Float() == 1
	}
	return false
}

// clampInt converts n to a signed integer of the given bit width. Values
// outside the field's range saturate at the nearest bound instead of going
// through an implementation-defined float conversion; NaN maps to 0.
func clampInt(bits int, n float64) int64 {
	max := int64(1)<<(bits-1) - 1
	min := -max - 1
	switch {
	case math.IsNaN(n):
		return 0
	case n >= float64(max):
		return max
	case n <= float64(min):
		return min
	}
	return int64(n)
}

// clampUint converts n to an unsigned integer of the given bit width with
// the same saturation rules; negative values and NaN map to 0.
func clampUint(bits int, n float64) uint64 {
	max := ^uint64(0) >> (64 - bits)
	switch {
	case math.IsNaN(n) || n <= 0:
		return 0
	case n >= float64(max):
		return max
	}
	return uint64(n)
}

// Numify coerces raw to a number, falling back to 0 when the value is not
// numerically parseable.
func Numify(raw any) float64 {
	switch v := raw.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	}

	value := reflect.ValueOf(raw)
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(value.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(value.Uint())
	case reflect.Float32, reflect.Float64:
		return value.Float()
	}
	return 0
}
