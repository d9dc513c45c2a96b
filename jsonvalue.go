package attrjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// JSONKind tags the shape carried by a JSONValue.
type JSONKind uint8

const (
	JSONNull JSONKind = iota
	JSONNumber
	JSONString
	JSONBool
	JSONArray
	JSONObject
)

func (k JSONKind) String() string {
	switch k {
	case JSONNull:
		return "null"
	case JSONNumber:
		return "number"
	case JSONString:
		return "string"
	case JSONBool:
		return "boolean"
	case JSONArray:
		return "array"
	case JSONObject:
		return "object"
	}
	return fmt.Sprintf("JSONKind(%d)", uint8(k))
}

// JSONValue is a value in the standard JSON model. The zero value is null.
type JSONValue struct {
	kind JSONKind
	num  json.Number
	str  string
	b    bool
	arr  []JSONValue
	obj  map[string]JSONValue
}

// NullJSON returns JSON null.
func NullJSON() JSONValue { return JSONValue{} }

// NumberJSON returns a JSON number from its text. The text is not validated;
// use JSONFrom for untrusted input.
func NumberJSON(n json.Number) JSONValue { return JSONValue{kind: JSONNumber, num: n} }

// StringJSON returns a JSON string.
func StringJSON(s string) JSONValue { return JSONValue{kind: JSONString, str: s} }

// BoolJSON returns a JSON boolean.
func BoolJSON(b bool) JSONValue { return JSONValue{kind: JSONBool, b: b} }

// ArrayJSON returns a JSON array.
func ArrayJSON(items ...JSONValue) JSONValue {
	if items == nil {
		items = []JSONValue{}
	}
	return JSONValue{kind: JSONArray, arr: items}
}

// ObjectJSON returns a JSON object.
func ObjectJSON(fields map[string]JSONValue) JSONValue {
	if fields == nil {
		fields = map[string]JSONValue{}
	}
	return JSONValue{kind: JSONObject, obj: fields}
}

// Kind returns the tag of the value.
func (j JSONValue) Kind() JSONKind { return j.kind }

// IsNull reports whether the value is JSON null.
func (j JSONValue) IsNull() bool { return j.kind == JSONNull }

// Number returns the number text.
func (j JSONValue) Number() (json.Number, bool) { return j.num, j.kind == JSONNumber }

// Text returns the string value.
func (j JSONValue) Text() (string, bool) { return j.str, j.kind == JSONString }

// Bool returns the boolean value.
func (j JSONValue) Bool() (bool, bool) { return j.b, j.kind == JSONBool }

// Array returns the array elements.
func (j JSONValue) Array() ([]JSONValue, bool) { return j.arr, j.kind == JSONArray }

// Object returns the object fields.
func (j JSONValue) Object() (map[string]JSONValue, bool) { return j.obj, j.kind == JSONObject }

// Interface lowers the value into the shapes encoding/json produces with
// UseNumber: nil, json.Number, string, bool, []any, map[string]any.
func (j JSONValue) Interface() any {
	switch j.kind {
	case JSONNull:
		return nil
	case JSONNumber:
		return j.num
	case JSONString:
		return j.str
	case JSONBool:
		return j.b
	case JSONArray:
		out := make([]any, len(j.arr))
		for i, item := range j.arr {
			out[i] = item.Interface()
		}
		return out
	case JSONObject:
		out := make(map[string]any, len(j.obj))
		for k, item := range j.obj {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// Equal reports structural equality. Numbers compare by value.
func (j JSONValue) Equal(other JSONValue) bool {
	if j.kind != other.kind {
		return false
	}
	switch j.kind {
	case JSONNull:
		return true
	case JSONNumber:
		return numbersEqual(j.num, other.num)
	case JSONString:
		return j.str == other.str
	case JSONBool:
		return j.b == other.b
	case JSONArray:
		if len(j.arr) != len(other.arr) {
			return false
		}
		for i := range j.arr {
			if !j.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case JSONObject:
		if len(j.obj) != len(other.obj) {
			return false
		}
		for k, item := range j.obj {
			o, ok := other.obj[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// JSONFrom lifts a decoded encoding/json value into a JSONValue.
// Numeric Go types are accepted alongside json.Number and float64 so callers
// may build inputs by hand.
func JSONFrom(v any) (JSONValue, error) {
	switch t := v.(type) {
	case nil:
		return NullJSON(), nil
	case JSONValue:
		return t, nil
	case json.Number:
		if !isJSONNumber(string(t)) {
			return JSONValue{}, fmt.Errorf("%w: %q is not a JSON number", ErrTypeMismatch, t)
		}
		return NumberJSON(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return JSONValue{}, fmt.Errorf("%w: %v has no JSON form", ErrTypeMismatch, t)
		}
		return NumberJSON(json.Number(strconv.FormatFloat(t, 'g', -1, 64))), nil
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return JSONValue{}, fmt.Errorf("%w: %v has no JSON form", ErrTypeMismatch, t)
		}
		return NumberJSON(json.Number(strconv.FormatFloat(f, 'g', -1, 32))), nil
	case int:
		return NumberJSON(json.Number(strconv.FormatInt(int64(t), 10))), nil
	case int8:
		return NumberJSON(json.Number(strconv.FormatInt(int64(t), 10))), nil
	case int16:
		return NumberJSON(json.Number(strconv.FormatInt(int64(t), 10))), nil
	case int32:
		return NumberJSON(json.Number(strconv.FormatInt(int64(t), 10))), nil
	case int64:
		return NumberJSON(json.Number(strconv.FormatInt(t, 10))), nil
	case uint:
		return NumberJSON(json.Number(strconv.FormatUint(uint64(t), 10))), nil
	case uint8:
		return NumberJSON(json.Number(strconv.FormatUint(uint64(t), 10))), nil
	case uint16:
		return NumberJSON(json.Number(strconv.FormatUint(uint64(t), 10))), nil
	case uint32:
		return NumberJSON(json.Number(strconv.FormatUint(uint64(t), 10))), nil
	case uint64:
		return NumberJSON(json.Number(strconv.FormatUint(t, 10))), nil
	case string:
		return StringJSON(t), nil
	case bool:
		return BoolJSON(t), nil
	case []any:
		items := make([]JSONValue, len(t))
		for i, item := range t {
			lifted, err := JSONFrom(item)
			if err != nil {
				return JSONValue{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = lifted
		}
		return ArrayJSON(items...), nil
	case map[string]any:
		fields := make(map[string]JSONValue, len(t))
		for k, item := range t {
			lifted, err := JSONFrom(item)
			if err != nil {
				return JSONValue{}, fmt.Errorf("key %q: %w", k, err)
			}
			fields[k] = lifted
		}
		return ObjectJSON(fields), nil
	}
	return JSONValue{}, fmt.Errorf("%w: %T is not a JSON value", ErrTypeMismatch, v)
}

// ParseJSON decodes a single JSON document, keeping numbers exact.
func ParseJSON(data []byte) (JSONValue, error) {
	var j JSONValue
	if err := j.UnmarshalJSON(data); err != nil {
		return JSONValue{}, err
	}
	return j, nil
}

// MarshalJSON implements json.Marshaler. Object keys are written sorted.
func (j JSONValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := j.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (j JSONValue) encode(buf *bytes.Buffer) error {
	switch j.kind {
	case JSONNull:
		buf.WriteString("null")
	case JSONNumber:
		if !isJSONNumber(string(j.num)) {
			return fmt.Errorf("%w: %q is not a JSON number", ErrTypeMismatch, j.num)
		}
		buf.WriteString(string(j.num))
	case JSONString:
		quoted, err := json.Marshal(j.str)
		if err != nil {
			return err
		}
		buf.Write(quoted)
	case JSONBool:
		buf.WriteString(strconv.FormatBool(j.b))
	case JSONArray:
		buf.WriteByte('[')
		for i, item := range j.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case JSONObject:
		keys := make([]string, 0, len(j.obj))
		for k := range j.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			quoted, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(quoted)
			buf.WriteByte(':')
			if err := j.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: unknown JSON kind %d", ErrTypeMismatch, uint8(j.kind))
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON value", ErrTypeMismatch)
	}
	lifted, err := JSONFrom(raw)
	if err != nil {
		return err
	}
	*j = lifted
	return nil
}
