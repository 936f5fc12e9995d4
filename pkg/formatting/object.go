package formatting

import (
	"encoding/json"
	"strconv"
)

// Object is a decoded JSON object of uncertain shape.
// Every accessor is an optional lookup; absent or mistyped values yield
// the zero value and false, or the supplied default.
type Object map[string]any

// Has reports whether key is present, even with a null value.
func (o Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o[key]
	return ok
}

// Present reports whether key is present with a non-null value.
func (o Object) Present(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// Value returns the raw value at key.
func (o Object) Value(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

// Object returns the nested object at key.
func (o Object) Object(key string) (Object, bool) {
	switch v := o[key].(type) {
	case map[string]any:
		return Object(v), true
	case Object:
		return v, true
	}
	return nil, false
}

// String returns the string at key, or def when absent, empty, or not a string.
func (o Object) String(key, def string) string {
	if s, ok := o[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Float returns the numeric value at key. Numeric strings are not coerced.
func (o Object) Float(key string) (float64, bool) {
	return AsFloat(o[key])
}

// Bool returns the boolean at key.
func (o Object) Bool(key string) (bool, bool) {
	b, ok := o[key].(bool)
	return b, ok
}

// AsFloat converts decoded JSON numbers and Go numeric types to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	return 0, false
}
