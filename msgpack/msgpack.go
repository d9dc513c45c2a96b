// Package msgpack provides a MessagePack transformer for transformable attributes.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/attrjson"
)

// Name is the conventional registry name for this transformer.
const Name = "msgpack"

// msgpackTransformer implements attrjson.Transformer for MessagePack.
type msgpackTransformer[T any] struct{}

// New returns a MessagePack transformer that decodes into T.
// Forward accepts a T or a non-nil *T.
//
// MessagePack is compact and fast; be mindful of struct tag differences vs JSON.
// Use `msgpack:"fieldName"` tags if you need explicit control.
func New[T any]() attrjson.Transformer {
	return msgpackTransformer[T]{}
}

// Forward encodes the value as MessagePack.
func (t msgpackTransformer[T]) Forward(value any) ([]byte, error) {
	v, err := attrjson.OpaqueAs[T](value)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(v)
}

// Backward decodes MessagePack data into a T.
func (t msgpackTransformer[T]) Backward(data []byte) (any, error) {
	var out T
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
