// Package extract reads fields out of a decoded backend answer with JSONPath.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

// Lookup returns the value at expr. A missing key is an error wrapping
// domain.ErrMissingField.
func Lookup(doc any, expr string) (any, error) {
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", expr, domain.ErrMissingField, err)
	}
	return val, nil
}

// Optional returns the value at expr, or nil when it cannot be read.
func Optional(doc any, expr string) any {
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil
	}
	return val
}

// Object returns the JSON object at expr. Null or a non-object value is an
// error, matching a property read on undefined in the browser.
func Object(doc any, expr string) (map[string]any, error) {
	val, err := Lookup(doc, expr)
	if err != nil {
		return nil, err
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expected object, got %s", expr, domain.ErrMissingField, typeName(val))
	}
	return m, nil
}

// Text returns the value at expr rendered the way a template literal would:
// strings as-is, null as "null", other scalars via fmt, structures as JSON.
// A missing key renders as "undefined".
func Text(doc any, expr string) string {
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "undefined"
	}
	s, err := ToString(val)
	if err != nil {
		return "undefined"
	}
	return s
}

// OptionalString returns the string at expr, or "" when it is absent,
// null or not a string.
func OptionalString(doc any, expr string) string {
	s, _ := Optional(doc, expr).(string)
	return s
}

// ToString converts a decoded JSON value to text.
func ToString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return t, nil
	case float64, bool, int, int64, json.Number:
		return fmt.Sprint(t), nil
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// Pretty renders a decoded JSON value with two-space indentation.
// A missing value renders as "undefined".
func Pretty(v any, present bool) string {
	if !present {
		return "undefined"
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Strings returns the string elements of the array at expr. Non-string
// elements are converted with ToString.
func Strings(doc any, expr string) []string {
	arr, ok := Optional(doc, expr).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, it := range arr {
		s, err := ToString(it)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
