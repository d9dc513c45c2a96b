package attrjson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ImportPolicy decides what Import does when one attribute fails.
type ImportPolicy uint8

const (
	// AbortOnError writes nothing if any attribute fails.
	AbortOnError ImportPolicy = iota

	// SkipInvalid writes every attribute that converts and reports the rest.
	SkipInvalid
)

// Option configures a Codec.
type Option func(*Codec)

// WithRegistry resolves transformers from r instead of the process-wide registry.
func WithRegistry(r *Registry) Option {
	return func(c *Codec) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithImportPolicy sets the failure policy for Import.
func WithImportPolicy(p ImportPolicy) Option {
	return func(c *Codec) {
		c.policy = p
	}
}

// Codec converts attribute values between their native and JSON forms,
// dispatching on the declared attribute type.
//
// A Codec holds no mutable state of its own and is safe for concurrent use.
type Codec struct {
	registry *Registry
	policy   ImportPolicy
}

// NewCodec returns a codec bound to the process-wide registry unless
// WithRegistry says otherwise.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{registry: DefaultRegistry(), policy: AbortOnError}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry transformers are resolved from.
func (c *Codec) Registry() *Registry { return c.registry }

// ToJSON renders a native value as JSON according to the attribute's type.
//
// Null renders as JSON null for every convertible type. Undefined and
// ObjectReference attributes are never convertible.
func (c *Codec) ToJSON(attr AttributeDescriptor, v NativeValue) (JSONValue, error) {
	if !attr.Type.IsConvertible() {
		return JSONValue{}, newConversionError(ErrUnsupportedAttributeType, attr, nil)
	}
	if v.IsNull() {
		return NullJSON(), nil
	}

	switch attr.Type {
	case TypeInt16, TypeInt32, TypeInt64, TypeDecimal, TypeDouble, TypeFloat:
		n, ok := v.Number()
		if !ok {
			return JSONValue{}, mismatch(attr, "number", v.Kind().String())
		}
		norm, err := normalizeNumber(attr.Type, n)
		if err != nil {
			return JSONValue{}, newConversionError(ErrTypeMismatch, attr, err)
		}
		return NumberJSON(norm), nil

	case TypeBoolean:
		b, ok := v.Bool()
		if !ok {
			return JSONValue{}, mismatch(attr, "bool", v.Kind().String())
		}
		return BoolJSON(b), nil

	case TypeString:
		s, ok := v.Text()
		if !ok {
			return JSONValue{}, mismatch(attr, "text", v.Kind().String())
		}
		return StringJSON(s), nil

	case TypeDate:
		t, ok := v.Time()
		if !ok {
			return JSONValue{}, mismatch(attr, "time", v.Kind().String())
		}
		s, err := Dates().Format(t)
		if err != nil {
			return JSONValue{}, newConversionError(ErrTypeMismatch, attr, err)
		}
		return StringJSON(s), nil

	case TypeBinary:
		b, ok := v.Bytes()
		if !ok {
			return JSONValue{}, mismatch(attr, "bytes", v.Kind().String())
		}
		return StringJSON(EncodeBinary(b)), nil

	case TypeTransformable:
		t, err := c.registry.Resolve(attr.Transformer)
		if err != nil {
			return JSONValue{}, newConversionError(ErrUnknownTransformer, attr, err)
		}
		data, err := t.Forward(v.Interface())
		if err != nil {
			return JSONValue{}, newConversionError(ErrTransform, attr, err)
		}
		return StringJSON(EncodeBinary(data)), nil

	case TypeUndefined, TypeObjectReference:
	}
	return JSONValue{}, newConversionError(ErrUnsupportedAttributeType, attr, nil)
}

// FromJSON parses a JSON value into the native form of the attribute's type.
// It returns either a fully valid native value or an error, never a partial value.
func (c *Codec) FromJSON(attr AttributeDescriptor, j JSONValue) (NativeValue, error) {
	if !attr.Type.IsConvertible() {
		return NativeValue{}, newConversionError(ErrUnsupportedAttributeType, attr, nil)
	}
	if j.IsNull() {
		return Null(), nil
	}

	switch attr.Type {
	case TypeInt16, TypeInt32, TypeInt64, TypeDecimal, TypeDouble, TypeFloat:
		n, ok := j.Number()
		if !ok {
			return NativeValue{}, mismatch(attr, "number", j.Kind().String())
		}
		norm, err := normalizeNumber(attr.Type, n)
		if err != nil {
			return NativeValue{}, newConversionError(ErrTypeMismatch, attr, err)
		}
		return NativeValue{kind: KindNumber, num: norm}, nil

	case TypeBoolean:
		b, ok := j.Bool()
		if !ok {
			return NativeValue{}, mismatch(attr, "boolean", j.Kind().String())
		}
		return Bool(b), nil

	case TypeString:
		s, ok := j.Text()
		if !ok {
			return NativeValue{}, mismatch(attr, "string", j.Kind().String())
		}
		return Text(s), nil

	case TypeDate:
		s, ok := j.Text()
		if !ok {
			return NativeValue{}, mismatch(attr, "string", j.Kind().String())
		}
		t, err := Dates().Parse(s)
		if err != nil {
			return NativeValue{}, newConversionError(ErrMalformedDate, attr, err)
		}
		return Time(t), nil

	case TypeBinary:
		s, ok := j.Text()
		if !ok {
			return NativeValue{}, mismatch(attr, "string", j.Kind().String())
		}
		b, err := DecodeBinary(s)
		if err != nil {
			return NativeValue{}, newConversionError(ErrMalformedBinary, attr, err)
		}
		return Bytes(b), nil

	case TypeTransformable:
		s, ok := j.Text()
		if !ok {
			return NativeValue{}, mismatch(attr, "string", j.Kind().String())
		}
		data, err := DecodeBinary(s)
		if err != nil {
			return NativeValue{}, newConversionError(ErrMalformedBinary, attr, err)
		}
		t, err := c.registry.Resolve(attr.Transformer)
		if err != nil {
			return NativeValue{}, newConversionError(ErrUnknownTransformer, attr, err)
		}
		value, err := t.Backward(data)
		if err != nil {
			return NativeValue{}, newConversionError(ErrTransform, attr, err)
		}
		return Opaque(value), nil

	case TypeUndefined, TypeObjectReference:
	}
	return NativeValue{}, newConversionError(ErrUnsupportedAttributeType, attr, nil)
}

// Validate reports whether an already converted value may be written to an
// attribute of the declared type. Null is valid for every convertible type.
func (c *Codec) Validate(attr AttributeDescriptor, v NativeValue) bool {
	switch attr.Type {
	case TypeUndefined, TypeObjectReference:
		return false
	}
	if v.IsNull() {
		return true
	}

	switch attr.Type {
	case TypeInt16, TypeInt32, TypeInt64, TypeDecimal, TypeDouble, TypeFloat:
		n, ok := v.Number()
		if !ok {
			return false
		}
		_, err := normalizeNumber(attr.Type, n)
		return err == nil
	case TypeBoolean:
		return v.Kind() == KindBool
	case TypeString:
		return v.Kind() == KindText
	case TypeDate:
		t, ok := v.Time()
		return ok && Dates().Check(t) == nil
	case TypeBinary:
		return v.Kind() == KindBytes
	case TypeTransformable:
		t, err := c.registry.Resolve(attr.Transformer)
		if err != nil {
			return false
		}
		_, err = t.Forward(v.Interface())
		return err == nil
	case TypeUndefined, TypeObjectReference:
	}
	return false
}

// mismatch builds the error for a value whose shape does not fit the type.
func mismatch(attr AttributeDescriptor, want, got string) error {
	return newConversionError(ErrTypeMismatch, attr, fmt.Errorf("expected %s, got %s", want, got))
}

// Integer bounds per declared type.
var integerBounds = map[AttributeType][2]int64{
	TypeInt16: {math.MinInt16, math.MaxInt16},
	TypeInt32: {math.MinInt32, math.MaxInt32},
	TypeInt64: {math.MinInt64, math.MaxInt64},
}

// normalizeNumber checks n against the numeric type and returns its
// canonical text: base-10 integers, shortest round-trip floats, and the
// exact input for decimals.
func normalizeNumber(typ AttributeType, n json.Number) (json.Number, error) {
	if !isJSONNumber(string(n)) {
		return "", fmt.Errorf("%q is not a finite number", n)
	}

	switch typ {
	case TypeInt16, TypeInt32, TypeInt64:
		i, ok := integral(n)
		if !ok {
			return "", fmt.Errorf("%s is not an integer within int64", n)
		}
		bounds := integerBounds[typ]
		if i < bounds[0] || i > bounds[1] {
			return "", fmt.Errorf("%s out of range for %s", n, typ)
		}
		return json.Number(strconv.FormatInt(i, 10)), nil

	case TypeDouble:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return "", fmt.Errorf("%s out of range for %s", n, typ)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil

	case TypeFloat:
		f, err := strconv.ParseFloat(string(n), 32)
		if err != nil {
			return "", fmt.Errorf("%s out of range for %s", n, typ)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 32)), nil

	case TypeDecimal:
		return n, nil
	}
	return "", fmt.Errorf("%s is not a numeric type", typ)
}

// ToJSON converts v for an unnamed attribute of type typ using the
// process-wide registry. An empty transformer selects the default.
func ToJSON(v NativeValue, typ AttributeType, transformer string) (JSONValue, error) {
	return NewCodec().ToJSON(AttributeDescriptor{Type: typ, Transformer: transformer}, v)
}

// FromJSON converts j for an unnamed attribute of type typ using the
// process-wide registry.
func FromJSON(j JSONValue, typ AttributeType, transformer string) (NativeValue, error) {
	return NewCodec().FromJSON(AttributeDescriptor{Type: typ, Transformer: transformer}, j)
}

// Validate checks v against type typ using the process-wide registry.
func Validate(v NativeValue, typ AttributeType, transformer string) bool {
	return NewCodec().Validate(AttributeDescriptor{Type: typ, Transformer: transformer}, v)
}
