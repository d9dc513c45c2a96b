// Package yaml provides a YAML transformer for transformable attributes.
package yaml

import (
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/attrjson"
)

// Name is the conventional registry name for this transformer.
const Name = "yaml"

// yamlTransformer implements attrjson.Transformer for YAML.
type yamlTransformer[T any] struct{}

// New returns a YAML transformer that decodes into T.
// Forward accepts a T or a non-nil *T.
func New[T any]() attrjson.Transformer {
	return yamlTransformer[T]{}
}

// Forward encodes the value as YAML.
func (t yamlTransformer[T]) Forward(value any) ([]byte, error) {
	v, err := attrjson.OpaqueAs[T](value)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

// Backward decodes YAML data into a T.
func (t yamlTransformer[T]) Backward(data []byte) (any, error) {
	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
