package attrjson

import "fmt"

// Transformer converts an opaque attribute value to bytes and back.
//
// Implementations must be reversible: Backward(Forward(x)) must reproduce a
// value observationally equal to x. The registry does not check this.
type Transformer interface {
	// Forward encodes value into bytes.
	Forward(value any) ([]byte, error)

	// Backward decodes bytes produced by Forward.
	Backward(data []byte) (any, error)
}

// TransformerFuncs adapts a pair of functions to the Transformer interface.
type TransformerFuncs struct {
	ForwardFunc  func(value any) ([]byte, error)
	BackwardFunc func(data []byte) (any, error)
}

// Forward calls ForwardFunc.
func (f TransformerFuncs) Forward(value any) ([]byte, error) {
	return f.ForwardFunc(value)
}

// Backward calls BackwardFunc.
func (f TransformerFuncs) Backward(data []byte) (any, error) {
	return f.BackwardFunc(data)
}

// OpaqueAs asserts that an opaque value holds a T or a non-nil *T.
// Typed transformers use it to accept either form from callers.
func OpaqueAs[T any](value any) (T, error) {
	switch v := value.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, value, zero)
}
