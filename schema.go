package attrjson

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/sentinel"
	"gopkg.in/yaml.v3"
)

func init() {
	// Register entity tags with sentinel
	sentinel.Tag("attr")
	sentinel.Tag("rel")
}

// Schema is an immutable set of entity descriptors keyed by name.
type Schema struct {
	entities map[string]*EntityDescriptor
}

// NewSchema builds a schema from entity descriptors. Entity names must be unique.
func NewSchema(entities ...*EntityDescriptor) (*Schema, error) {
	s := &Schema{entities: make(map[string]*EntityDescriptor, len(entities))}
	for _, e := range entities {
		if e == nil {
			return nil, newSchemaError(ErrInvalidSchema, "", "")
		}
		if _, dup := s.entities[e.Name]; dup {
			return nil, newSchemaError(ErrInvalidSchema, e.Name, "")
		}
		s.entities[e.Name] = e
	}
	return s, nil
}

// Entity returns the descriptor for name.
func (s *Schema) Entity(name string) (*EntityDescriptor, error) {
	e, ok := s.entities[name]
	if !ok {
		return nil, newSchemaError(ErrUnknownEntity, "", name)
	}
	return e, nil
}

// EntityNames returns the entity names in sorted order.
func (s *Schema) EntityNames() []string {
	names := make([]string, 0, len(s.entities))
	for name := range s.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// schemaDocument is the YAML form of a schema:
//
//	entities:
//	  - name: User
//	    attributes:
//	      - {name: age, type: int32}
//	      - {name: prefs, type: transformable, transformer: msgpack}
//	    relationships:
//	      - {name: tags, to_many: true, ordered: true}
type schemaDocument struct {
	Entities []entityDocument `yaml:"entities"`
}

type entityDocument struct {
	Name          string                   `yaml:"name"`
	Attributes    []AttributeDescriptor    `yaml:"attributes"`
	Relationships []RelationshipDescriptor `yaml:"relationships"`
}

// LoadSchema parses a YAML schema document.
func LoadSchema(data []byte) (*Schema, error) {
	var doc schemaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	entities := make([]*EntityDescriptor, 0, len(doc.Entities))
	for _, ed := range doc.Entities {
		e, err := NewEntity(ed.Name, ed.Attributes, ed.Relationships)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return NewSchema(entities...)
}

// EntityFor builds a descriptor from the struct tags of T. The entity is
// named after the type. Fields declare attributes and relationships with:
//
//	Age   int32    `attr:"age,int32"`
//	Prefs Settings `attr:"prefs,transformable,msgpack"`
//	Tags  []Tag    `rel:"tags,to-many,ordered"`
//	Owner *User    `rel:"owner,to-one"`
//
// Untagged fields are ignored.
func EntityFor[T any]() (*EntityDescriptor, error) {
	spec := sentinel.Scan[T]()

	var attrs []AttributeDescriptor
	var rels []RelationshipDescriptor

	for _, field := range spec.Fields {
		if tag, ok := field.Tags["attr"]; ok {
			attr, err := parseAttrTag(tag)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			attrs = append(attrs, attr)
		}
		if tag, ok := field.Tags["rel"]; ok {
			rel, err := parseRelTag(tag)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			rels = append(rels, rel)
		}
	}

	return NewEntity(spec.TypeName, attrs, rels)
}

// parseAttrTag reads "name,type[,transformer]".
func parseAttrTag(tag string) (AttributeDescriptor, error) {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return AttributeDescriptor{}, fmt.Errorf("%w: attr tag %q", ErrInvalidSchema, tag)
	}
	typ, err := ParseAttributeType(parts[1])
	if err != nil {
		return AttributeDescriptor{}, err
	}
	attr := AttributeDescriptor{Name: parts[0], Type: typ}
	if len(parts) == 3 {
		attr.Transformer = parts[2]
	}
	return attr, nil
}

// parseRelTag reads "name,to-one|to-many[,ordered]".
func parseRelTag(tag string) (RelationshipDescriptor, error) {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 || parts[0] == "" {
		return RelationshipDescriptor{}, fmt.Errorf("%w: rel tag %q", ErrInvalidSchema, tag)
	}
	rel := RelationshipDescriptor{Name: parts[0]}
	switch parts[1] {
	case "to-many":
		rel.ToMany = true
	case "to-one":
	default:
		return RelationshipDescriptor{}, fmt.Errorf("%w: rel tag %q: cardinality %q", ErrInvalidSchema, tag, parts[1])
	}
	for _, opt := range parts[2:] {
		switch opt {
		case "ordered":
			rel.Ordered = true
		default:
			return RelationshipDescriptor{}, fmt.Errorf("%w: rel tag %q: option %q", ErrInvalidSchema, tag, opt)
		}
	}
	return rel, nil
}
