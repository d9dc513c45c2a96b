package attrjson

import (
	"fmt"
	"strings"
)

// AttributeType is the declared storage type of a record attribute.
// The set is closed; every switch over it in this package is exhaustive.
type AttributeType uint8

const (
	// TypeUndefined marks an attribute with no usable type. Never convertible.
	TypeUndefined AttributeType = iota

	// TypeObjectReference marks an object-identity attribute. Never convertible.
	TypeObjectReference

	// TypeInt16 is a 16-bit signed integer.
	TypeInt16

	// TypeInt32 is a 32-bit signed integer.
	TypeInt32

	// TypeInt64 is a 64-bit signed integer.
	TypeInt64

	// TypeDecimal is an arbitrary-precision decimal number.
	TypeDecimal

	// TypeDouble is a 64-bit floating point number.
	TypeDouble

	// TypeFloat is a 32-bit floating point number.
	TypeFloat

	// TypeBoolean is a truth value, rendered as JSON true/false.
	TypeBoolean

	// TypeString is UTF-8 text.
	TypeString

	// TypeDate is a timestamp, rendered as fixed-offset ISO-8601.
	TypeDate

	// TypeBinary is a raw byte sequence, rendered as base64.
	TypeBinary

	// TypeTransformable is an opaque value converted through a named transformer.
	TypeTransformable
)

// attributeTypeNames maps each type to its canonical text form.
var attributeTypeNames = map[AttributeType]string{
	TypeUndefined:       "undefined",
	TypeObjectReference: "objectReference",
	TypeInt16:           "int16",
	TypeInt32:           "int32",
	TypeInt64:           "int64",
	TypeDecimal:         "decimal",
	TypeDouble:          "double",
	TypeFloat:           "float",
	TypeBoolean:         "boolean",
	TypeString:          "string",
	TypeDate:            "date",
	TypeBinary:          "binary",
	TypeTransformable:   "transformable",
}

// attributeTypesByName is the case-folded reverse of attributeTypeNames.
var attributeTypesByName = func() map[string]AttributeType {
	m := make(map[string]AttributeType, len(attributeTypeNames))
	for t, name := range attributeTypeNames {
		m[strings.ToLower(name)] = t
	}
	return m
}()

// String returns the canonical name of the type.
func (t AttributeType) String() string {
	if name, ok := attributeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AttributeType(%d)", uint8(t))
}

// ParseAttributeType resolves a type name, ignoring case.
func ParseAttributeType(name string) (AttributeType, error) {
	if t, ok := attributeTypesByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return TypeUndefined, fmt.Errorf("%w: unknown attribute type %q", ErrInvalidSchema, name)
}

// MarshalText implements encoding.TextMarshaler.
func (t AttributeType) MarshalText() ([]byte, error) {
	if _, ok := attributeTypeNames[t]; !ok {
		return nil, fmt.Errorf("%w: unknown attribute type %d", ErrInvalidSchema, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AttributeType) UnmarshalText(text []byte) error {
	parsed, err := ParseAttributeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsConvertible reports whether values of this type can cross the JSON boundary.
func (t AttributeType) IsConvertible() bool {
	switch t {
	case TypeUndefined, TypeObjectReference:
		return false
	case TypeInt16, TypeInt32, TypeInt64, TypeDecimal, TypeDouble, TypeFloat,
		TypeBoolean, TypeString, TypeDate, TypeBinary, TypeTransformable:
		return true
	}
	return false
}

// IsNumeric reports whether the type is carried as a JSON number.
func (t AttributeType) IsNumeric() bool {
	switch t {
	case TypeInt16, TypeInt32, TypeInt64, TypeDecimal, TypeDouble, TypeFloat:
		return true
	}
	return false
}

// AttributeDescriptor describes a single attribute of an entity.
// Descriptors are owned by the schema and never mutated after load.
type AttributeDescriptor struct {
	// Name is unique within the owning entity.
	Name string `yaml:"name"`

	// Type is the declared storage type.
	Type AttributeType `yaml:"type"`

	// Transformer names the registered transformer for TypeTransformable.
	// Empty selects the registry default.
	Transformer string `yaml:"transformer,omitempty"`
}

// RelationshipDescriptor describes a reference from one entity to another.
type RelationshipDescriptor struct {
	Name        string `yaml:"name"`
	Destination string `yaml:"destination,omitempty"`
	ToMany      bool   `yaml:"to_many"`
	Ordered     bool   `yaml:"ordered"`
}
