package attrjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind tags the shape carried by a NativeValue.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindText
	KindTime
	KindBytes
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	case KindOpaque:
		return "opaque"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// NativeValue is an attribute value as the record store holds it.
// The zero value is null.
//
// Numbers keep their exact decimal text so decimal attributes survive
// conversion without rounding. Use the typed accessors to read them back.
type NativeValue struct {
	kind   Kind
	num    json.Number
	b      bool
	text   string
	time   time.Time
	bytes  []byte
	opaque any
}

// Null returns the absent value.
func Null() NativeValue { return NativeValue{} }

// Int returns an integer number.
func Int(i int64) NativeValue {
	return NativeValue{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// Float returns a 64-bit floating point number.
// NaN and infinities have no JSON form and are rejected on conversion.
func Float(f float64) NativeValue {
	return NativeValue{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// Float32 returns a 32-bit floating point number using the shortest
// text that round-trips at 32-bit precision.
func Float32(f float32) NativeValue {
	return NativeValue{kind: KindNumber, num: json.Number(strconv.FormatFloat(float64(f), 'g', -1, 32))}
}

// Decimal returns a number from its exact decimal text.
func Decimal(s string) (NativeValue, error) {
	if !isJSONNumber(s) {
		return NativeValue{}, fmt.Errorf("%w: %q is not a decimal number", ErrTypeMismatch, s)
	}
	return NativeValue{kind: KindNumber, num: json.Number(s)}, nil
}

// Bool returns a truth value.
func Bool(b bool) NativeValue { return NativeValue{kind: KindBool, b: b} }

// Text returns a string value.
func Text(s string) NativeValue { return NativeValue{kind: KindText, text: s} }

// Time returns a timestamp value.
func Time(t time.Time) NativeValue { return NativeValue{kind: KindTime, time: t} }

// Bytes returns a byte-sequence value. A nil slice is kept as an empty,
// non-null sequence.
func Bytes(b []byte) NativeValue {
	if b == nil {
		b = []byte{}
	}
	return NativeValue{kind: KindBytes, bytes: b}
}

// Opaque returns a value for transformable attributes. A nil v is null.
func Opaque(v any) NativeValue {
	if v == nil {
		return NativeValue{}
	}
	return NativeValue{kind: KindOpaque, opaque: v}
}

// Kind returns the tag of the value.
func (v NativeValue) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v NativeValue) IsNull() bool { return v.kind == KindNull }

// Number returns the exact decimal text of a number.
func (v NativeValue) Number() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

// Int64 returns the number as an integer. It fails for non-integral numbers.
func (v NativeValue) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, ok := integral(v.num)
	return i, ok
}

// Float64 returns the number as a 64-bit float.
func (v NativeValue) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// Bool returns the truth value.
func (v NativeValue) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Text returns the string value.
func (v NativeValue) Text() (string, bool) { return v.text, v.kind == KindText }

// Time returns the timestamp value.
func (v NativeValue) Time() (time.Time, bool) { return v.time, v.kind == KindTime }

// Bytes returns the byte sequence. The slice is shared, not copied.
func (v NativeValue) Bytes() ([]byte, bool) { return v.bytes, v.kind == KindBytes }

// Opaque returns the value held by a transformable attribute.
func (v NativeValue) Opaque() (any, bool) { return v.opaque, v.kind == KindOpaque }

// Interface returns the underlying Go value: nil, json.Number, bool, string,
// time.Time, []byte, or the opaque value.
func (v NativeValue) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindText:
		return v.text
	case KindTime:
		return v.time
	case KindBytes:
		return v.bytes
	case KindOpaque:
		return v.opaque
	}
	return nil
}

// Equal reports observational equality. Numbers compare by value, times by
// instant and offset, opaque values by deep equality.
func (v NativeValue) Equal(other NativeValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return numbersEqual(v.num, other.num)
	case KindBool:
		return v.b == other.b
	case KindText:
		return v.text == other.text
	case KindTime:
		_, a := v.time.Zone()
		_, b := other.time.Zone()
		return v.time.Equal(other.time) && a == b
	case KindBytes:
		return bytes.Equal(v.bytes, other.bytes)
	case KindOpaque:
		return reflect.DeepEqual(v.opaque, other.opaque)
	}
	return false
}

// String renders the value for diagnostics.
func (v NativeValue) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindText:
		return strconv.Quote(v.text)
	case KindTime:
		if s, err := Dates().Format(v.time); err == nil {
			return s
		}
		return v.time.String()
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(v.bytes))
	case KindOpaque:
		return fmt.Sprintf("opaque(%T)", v.opaque)
	}
	return v.kind.String()
}

// maxExponent bounds exponents examined digit by digit. Any nonzero number
// past it is either far outside int64 or far from whole.
const maxExponent = 1 << 20

// integral returns n as an int64 when it denotes a whole number in range.
// Exponent and fractional forms such as "1e3" or "2.0" are accepted. The
// decision is made on the decimal digits, never through float64.
func integral(n json.Number) (int64, bool) {
	s := string(n)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if !isJSONNumber(s) {
		return 0, false
	}

	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}

	mantissa, exp := s, 0
	if k := strings.IndexAny(s, "eE"); k >= 0 {
		mantissa = s[:k]
		e, err := strconv.Atoi(s[k+1:])
		if err != nil || e > maxExponent || e < -maxExponent {
			// Only zero survives an exponent this large.
			return 0, strings.Trim(mantissa, "0.") == ""
		}
		exp = e
	}

	digits := mantissa
	if k := strings.IndexByte(mantissa, '.'); k >= 0 {
		digits = mantissa[:k] + mantissa[k+1:]
		exp -= len(mantissa) - k - 1
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0, true
	}
	trimmed := strings.TrimRight(digits, "0")
	exp += len(digits) - len(trimmed)
	digits = trimmed

	if exp < 0 || len(digits)+exp > 19 {
		return 0, false
	}
	text := digits + strings.Repeat("0", exp)
	if neg {
		text = "-" + text
	}
	i, err := strconv.ParseInt(text, 10, 64)
	return i, err == nil
}

// numbersEqual compares exact text first, then numeric value.
func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	if ai, ok := integral(a); ok {
		if bi, ok := integral(b); ok {
			return ai == bi
		}
	}
	af, errA := a.Float64()
	bf, errB := b.Float64()
	return errA == nil && errB == nil && af == bf
}

// isJSONNumber reports whether s follows the JSON number grammar.
func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '-' {
		i++
		if i == len(s) {
			return false
		}
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}
