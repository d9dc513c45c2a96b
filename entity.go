package attrjson

import (
	"context"
	"sort"
)

// EntityDescriptor describes the attributes and relationships of one entity.
// It is immutable after NewEntity returns; codecs hold it by reference only.
type EntityDescriptor struct {
	Name          string
	Attributes    map[string]AttributeDescriptor
	Relationships map[string]RelationshipDescriptor
}

// NewEntity builds a descriptor, rejecting duplicate or empty names and
// transformer names on non-transformable attributes.
func NewEntity(name string, attrs []AttributeDescriptor, rels []RelationshipDescriptor) (*EntityDescriptor, error) {
	if name == "" {
		return nil, newSchemaError(ErrInvalidSchema, "", "")
	}

	e := &EntityDescriptor{
		Name:          name,
		Attributes:    make(map[string]AttributeDescriptor, len(attrs)),
		Relationships: make(map[string]RelationshipDescriptor, len(rels)),
	}

	for _, attr := range attrs {
		if attr.Name == "" {
			return nil, newSchemaError(ErrInvalidSchema, name, attr.Name)
		}
		if _, dup := e.Attributes[attr.Name]; dup {
			return nil, newSchemaError(ErrInvalidSchema, name, attr.Name)
		}
		if attr.Transformer != "" && attr.Type != TypeTransformable {
			return nil, newSchemaError(ErrInvalidSchema, name, attr.Name)
		}
		e.Attributes[attr.Name] = attr
	}

	for _, rel := range rels {
		if rel.Name == "" {
			return nil, newSchemaError(ErrInvalidSchema, name, rel.Name)
		}
		_, dupRel := e.Relationships[rel.Name]
		_, dupAttr := e.Attributes[rel.Name]
		if dupRel || dupAttr {
			return nil, newSchemaError(ErrInvalidSchema, name, rel.Name)
		}
		if rel.Ordered && !rel.ToMany {
			return nil, newSchemaError(ErrInvalidSchema, name, rel.Name)
		}
		e.Relationships[rel.Name] = rel
	}

	return e, nil
}

// Attribute looks up an attribute descriptor by name.
func (e *EntityDescriptor) Attribute(name string) (AttributeDescriptor, error) {
	attr, ok := e.Attributes[name]
	if !ok {
		return AttributeDescriptor{}, newSchemaError(ErrUnknownAttribute, e.Name, name)
	}
	return attr, nil
}

// Relationship looks up a relationship descriptor by name.
func (e *EntityDescriptor) Relationship(name string) (RelationshipDescriptor, error) {
	rel, ok := e.Relationships[name]
	if !ok {
		return RelationshipDescriptor{}, newSchemaError(ErrUnknownRelationship, e.Name, name)
	}
	return rel, nil
}

// AttributeNames returns the attribute names in sorted order.
func (e *EntityDescriptor) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for name := range e.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RelationshipNames returns the relationship names in sorted order.
func (e *EntityDescriptor) RelationshipNames() []string {
	names := make([]string, 0, len(e.Relationships))
	for name := range e.Relationships {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityToJSON converts the value of a named attribute of entity.
func (c *Codec) EntityToJSON(entity *EntityDescriptor, name string, v NativeValue) (JSONValue, error) {
	attr, err := entity.Attribute(name)
	if err != nil {
		emitConversionFailed(context.Background(), entity.Name, name, DirectionToJSON, err)
		return JSONValue{}, err
	}
	j, err := c.ToJSON(attr, v)
	if err != nil {
		emitConversionFailed(context.Background(), entity.Name, name, DirectionToJSON, err)
		return JSONValue{}, err
	}
	return j, nil
}

// EntityFromJSON parses a JSON value for a named attribute of entity. The
// result is ready to be written into the record's attribute slot.
func (c *Codec) EntityFromJSON(entity *EntityDescriptor, name string, j JSONValue) (NativeValue, error) {
	attr, err := entity.Attribute(name)
	if err != nil {
		emitConversionFailed(context.Background(), entity.Name, name, DirectionFromJSON, err)
		return NativeValue{}, err
	}
	v, err := c.FromJSON(attr, j)
	if err != nil {
		emitConversionFailed(context.Background(), entity.Name, name, DirectionFromJSON, err)
		return NativeValue{}, err
	}
	return v, nil
}

// EntityValidate reports whether v may be written to the named attribute.
// Unknown attributes never validate.
func (c *Codec) EntityValidate(entity *EntityDescriptor, name string, v NativeValue) bool {
	attr, err := entity.Attribute(name)
	if err != nil {
		return false
	}
	return c.Validate(attr, v)
}
