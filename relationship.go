package attrjson

import "sort"

// Sequence materializes a to-many relationship of record as a slice.
//
// Ordered relationships keep their declared order. Unordered relationships
// are returned sorted by record ID so repeated calls agree. A relationship
// with no value yields nil. The returned slice is always a fresh copy.
func Sequence(entity *EntityDescriptor, record Record, name string) ([]Record, error) {
	rel, err := entity.Relationship(name)
	if err != nil {
		return nil, err
	}
	if !rel.ToMany {
		return nil, newSchemaError(ErrNotToMany, entity.Name, name)
	}

	members := record.Relationship(name)
	if members == nil {
		return nil, nil
	}

	out := make([]Record, len(members))
	copy(out, members)
	if !rel.Ordered {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ID() < out[j].ID()
		})
	}
	return out, nil
}
