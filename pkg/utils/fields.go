package utils

import (
	"encoding/json"
	"math"
)

// Record is a single decoded JSON object from an upstream provider.
// Providers disagree on shapes and types, so values are read through Field.
type Record map[string]any

// Field is a type-checked view over one value of a Record.
// The zero Field is absent.
type Field struct {
	raw     any
	present bool
}

// Field returns the named field of r. Missing keys and JSON nulls are absent.
func (r Record) Field(name string) Field {
	if r == nil {
		return Field{}
	}
	v, ok := r[name]
	if !ok || v == nil {
		return Field{}
	}
	return Field{raw: v, present: true}
}

// Extract looks up symbolKey in book and returns its fieldName field.
// It never panics: a missing symbol behaves like a missing field.
func Extract(book map[string]Record, symbolKey, fieldName string) Field {
	if book == nil {
		return Field{}
	}
	return book[symbolKey].Field(fieldName)
}

// RecordsFromJSON converts a decoded JSON value into records.
// Anything that is not a list yields nil; non-object list items are skipped.
func RecordsFromJSON(v any) []Record {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, Record(obj))
		}
	}
	return out
}

// Present reports whether the field exists and is not null.
func (f Field) Present() bool { return f.present }

// Value returns the raw value, or NA when the field is absent.
func (f Field) Value() any {
	if !f.present {
		return NA
	}
	return f.raw
}

// Float returns the field as a finite number. Strings are not coerced.
func (f Field) Float() (float64, bool) {
	if !f.present {
		return 0, false
	}
	return toFloat(f.raw)
}

// FloatPtr is Float as an optional value.
func (f Field) FloatPtr() *float64 {
	v, ok := f.Float()
	if !ok {
		return nil
	}
	return &v
}

// Text returns the field as a string, or NA when absent or not a string.
func (f Field) Text() string {
	s, ok := f.raw.(string)
	if !f.present || !ok {
		return NA
	}
	return s
}

// String returns the string value and whether the field held one.
func (f Field) String() (string, bool) {
	s, ok := f.raw.(string)
	return s, f.present && ok
}

// toFloat converts the numeric kinds produced by encoding/json and by
// hand-built models into a finite float64.
func toFloat(v any) (float64, bool) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int8:
		x = float64(n)
	case int16:
		x = float64(n)
	case int32:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint:
		x = float64(n)
	case uint32:
		x = float64(n)
	case uint64:
		x = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		x = f
	case *float64:
		if n == nil {
			return 0, false
		}
		x = *n
	case *int64:
		if n == nil {
			return 0, false
		}
		x = float64(*n)
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}
