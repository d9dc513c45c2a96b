package attrjson

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownAttribute indicates the attribute name is not declared on the entity.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrUnknownRelationship indicates the relationship name is not declared on the entity.
	ErrUnknownRelationship = errors.New("unknown relationship")

	// ErrUnknownEntity indicates the schema has no entity with the requested name.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNotToMany indicates a to-one relationship was asked for a sequence.
	ErrNotToMany = errors.New("relationship is not to-many")

	// ErrUnknownTransformer indicates a transformer name is not registered.
	ErrUnknownTransformer = errors.New("unknown transformer")

	// ErrInvalidTransformer indicates a registration with an empty name or nil transformer.
	ErrInvalidTransformer = errors.New("invalid transformer")

	// ErrTypeMismatch indicates a value's shape does not match the declared attribute type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMalformedDate indicates a string is not a valid ISO-8601 timestamp.
	ErrMalformedDate = errors.New("malformed date")

	// ErrMalformedBinary indicates a string is not valid base64.
	ErrMalformedBinary = errors.New("malformed binary")

	// ErrUnsupportedAttributeType indicates an Undefined or ObjectReference attribute.
	ErrUnsupportedAttributeType = errors.New("unsupported attribute type")

	// ErrTransform indicates a transformer failed in either direction.
	ErrTransform = errors.New("transform failed")

	// ErrInvalidSchema indicates a malformed entity or schema definition.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrSeal indicates sealing or opening a transformed payload failed.
	ErrSeal = errors.New("seal failed")
)

// ConversionError represents a failed conversion of a single attribute value.
// It wraps a sentinel error with the attribute and declared type involved.
type ConversionError struct {
	Err       error         // Underlying sentinel error (ErrTypeMismatch, etc.)
	Attribute string        // Attribute name, empty for type-only conversions
	Type      AttributeType // Declared attribute type
	Cause     error         // Original error from the underlying operation
}

func (e *ConversionError) Error() string {
	msg := e.Err.Error()
	if e.Attribute != "" {
		msg = fmt.Sprintf("%s for attribute %q (%s)", msg, e.Attribute, e.Type)
	} else {
		msg = fmt.Sprintf("%s (%s)", msg, e.Type)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// SchemaError represents a lookup or definition error against an entity schema.
type SchemaError struct {
	Err    error  // Underlying sentinel error (ErrUnknownAttribute, etc.)
	Entity string // Entity name
	Name   string // Attribute, relationship, or entity name that failed
}

func (e *SchemaError) Error() string {
	if e.Entity != "" && e.Name != "" {
		return fmt.Sprintf("%s %q on entity %q", e.Err.Error(), e.Name, e.Entity)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Name)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s (entity %q)", e.Err.Error(), e.Entity)
	}
	return e.Err.Error()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// newConversionError creates a ConversionError for a failed attribute conversion.
func newConversionError(sentinel error, attr AttributeDescriptor, cause error) error {
	return &ConversionError{
		Err:       sentinel,
		Attribute: attr.Name,
		Type:      attr.Type,
		Cause:     cause,
	}
}

// newSchemaError creates a SchemaError for lookup and definition failures.
func newSchemaError(sentinel error, entity, name string) error {
	return &SchemaError{
		Err:    sentinel,
		Entity: entity,
		Name:   name,
	}
}
