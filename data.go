package editorjs

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Data is a block's data payload as decoded from JSON. Numbers decode as
// json.Number.
type Data map[string]any

// AsData converts a nested JSON object into Data. Anything else yields nil.
func AsData(v any) Data {
	switch m := v.(type) {
	case Data:
		return m
	case map[string]any:
		return Data(m)
	}
	return nil
}

// Has reports whether key is present, even with a null value.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value of key as a string. Missing and null values are
// empty; numbers and booleans are formatted.
func (d Data) String(key string) string {
	switch v := d[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value of key as a boolean. Only true and "true" are true.
func (d Data) Bool(key string) bool {
	switch v := d[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

// Int returns the value of key as an integer. Numeric strings are accepted;
// fractional numbers are not.
func (d Data) Int(key string) (int, bool) {
	return toInt(d[key])
}

// Int64 is Int for sizes and timestamps.
func (d Data) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	}
	n, ok := toInt(d[key])
	return int64(n), ok
}

// Map returns the nested object stored under key.
func (d Data) Map(key string) Data {
	return AsData(d[key])
}

// Slice returns the array stored under key.
func (d Data) Slice(key string) ([]any, bool) {
	s, ok := d[key].([]any)
	return s, ok
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
