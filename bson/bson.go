// Package bson provides a BSON transformer for transformable attributes.
package bson

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zoobzio/attrjson"
)

// Name is the conventional registry name for this transformer.
const Name = "bson"

// bsonTransformer implements attrjson.Transformer for BSON.
type bsonTransformer[T any] struct{}

// New returns a BSON transformer that decodes into T.
// Forward accepts a T or a non-nil *T.
//
// BSON encodes documents only: T must be a struct or a map with string keys.
func New[T any]() attrjson.Transformer {
	return bsonTransformer[T]{}
}

// Forward encodes the value as BSON.
func (t bsonTransformer[T]) Forward(value any) ([]byte, error) {
	v, err := attrjson.OpaqueAs[T](value)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(v)
}

// Backward decodes BSON data into a T.
func (t bsonTransformer[T]) Backward(data []byte) (any, error) {
	var out T
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
