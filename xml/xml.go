// Package xml provides an XML transformer for transformable attributes.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/attrjson"
)

// Name is the conventional registry name for this transformer.
const Name = "xml"

// xmlTransformer implements attrjson.Transformer for XML.
type xmlTransformer[T any] struct{}

// New returns an XML transformer that decodes into T.
// Forward accepts a T or a non-nil *T.
//
// XML needs a named element, so T should be a struct.
func New[T any]() attrjson.Transformer {
	return xmlTransformer[T]{}
}

// Forward encodes the value as XML.
func (t xmlTransformer[T]) Forward(value any) ([]byte, error) {
	v, err := attrjson.OpaqueAs[T](value)
	if err != nil {
		return nil, err
	}
	return xml.Marshal(v)
}

// Backward decodes XML data into a T.
func (t xmlTransformer[T]) Backward(data []byte) (any, error) {
	var out T
	if err := xml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
