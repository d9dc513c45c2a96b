// Package json provides a JSON transformer for transformable attributes.
package json

import (
	"encoding/json"

	"github.com/zoobzio/attrjson"
)

// Name is the conventional registry name for this transformer.
const Name = "json"

// jsonTransformer implements attrjson.Transformer for JSON.
type jsonTransformer[T any] struct{}

// New returns a JSON transformer that decodes into T.
// Forward accepts a T or a non-nil *T.
func New[T any]() attrjson.Transformer {
	return jsonTransformer[T]{}
}

// Forward encodes the value as JSON.
func (t jsonTransformer[T]) Forward(value any) ([]byte, error) {
	v, err := attrjson.OpaqueAs[T](value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Backward decodes JSON data into a T.
func (t jsonTransformer[T]) Backward(data []byte) (any, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
