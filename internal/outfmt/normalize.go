package outfmt

import (
	"encoding/json"
	"reflect"
)

// normalizeJSONOutput gives bare lists a stable object shape: a slice of
// products or tickets becomes {"items": [...]}, so jq queries like
// '.items[].sku' work the same across commands. Maps, scalars, and raw JSON
// pass through untouched.
func normalizeJSONOutput(v any) any {
	switch v.(type) {
	case nil, []byte, json.RawMessage:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		items := rv.Interface()
		// A hub with no tickets yields a nil slice, which would serialize
		// as {"items": null}; coerce to [] so .items[] stays iterable.
		if rv.IsNil() {
			items = []any{}
		}
		return map[string]any{"items": items}
	default:
		return v
	}
}
