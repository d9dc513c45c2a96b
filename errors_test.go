package attrjson

import (
	"errors"
	"testing"
)

func TestConversionError(t *testing.T) {
	cause := errors.New("expected number, got text")
	err := newConversionError(ErrTypeMismatch, AttributeDescriptor{Name: "age", Type: TypeInt32}, cause)

	want := `type mismatch for attribute "age" (int32): expected number, got text`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("should unwrap to ErrTypeMismatch")
	}
	if errors.Is(err, cause) {
		t.Error("cause is reported, not unwrapped")
	}

	unnamed := newConversionError(ErrUnsupportedAttributeType, AttributeDescriptor{Type: TypeObjectReference}, nil)
	if unnamed.Error() != "unsupported attribute type (objectReference)" {
		t.Errorf("Error() = %q", unnamed.Error())
	}
}

func TestSchemaError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{newSchemaError(ErrUnknownAttribute, "User", "age"), `unknown attribute "age" on entity "User"`},
		{newSchemaError(ErrUnknownEntity, "", "Ledger"), `unknown entity "Ledger"`},
		{newSchemaError(ErrInvalidSchema, "User", ""), `invalid schema (entity "User")`},
		{newSchemaError(ErrInvalidSchema, "", ""), `invalid schema`},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}

	var schemaErr *SchemaError
	if !errors.As(tests[0].err, &schemaErr) || !errors.Is(schemaErr, ErrUnknownAttribute) {
		t.Error("SchemaError should unwrap to its sentinel")
	}
}
