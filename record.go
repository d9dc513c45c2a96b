package attrjson

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Record is the accessor the codec uses to read and write a stored record.
// The persistence layer owns the implementation.
type Record interface {
	// ID returns the record's stable identity.
	ID() string

	// Attribute returns the stored value of an attribute, or null.
	Attribute(name string) NativeValue

	// SetAttribute replaces the stored value of an attribute.
	SetAttribute(name string, v NativeValue)

	// Relationship returns the related records in storage order, or nil when
	// the relationship holds no value. To-one relationships hold at most one.
	Relationship(name string) []Record
}

// MapRecord is an in-memory Record safe for concurrent use.
type MapRecord struct {
	id string

	mu    sync.RWMutex
	attrs map[string]NativeValue
	rels  map[string][]Record
}

var _ Record = (*MapRecord)(nil)

// NewMapRecord returns an empty record with the given identity.
func NewMapRecord(id string) *MapRecord {
	return &MapRecord{
		id:    id,
		attrs: make(map[string]NativeValue),
		rels:  make(map[string][]Record),
	}
}

// ID implements Record.
func (r *MapRecord) ID() string { return r.id }

// Attribute implements Record.
func (r *MapRecord) Attribute(name string) NativeValue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attrs[name]
}

// SetAttribute implements Record.
func (r *MapRecord) SetAttribute(name string, v NativeValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs[name] = v
}

// Relationship implements Record.
func (r *MapRecord) Relationship(name string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rels[name]
}

// SetRelationship replaces the members of a relationship, keeping their order.
func (r *MapRecord) SetRelationship(name string, members ...Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if members == nil {
		delete(r.rels, name)
		return
	}
	r.rels[name] = append(make([]Record, 0, len(members)), members...)
}

// Export renders every convertible attribute of record as JSON, along with
// relationships as record IDs: to-one as a string or null, to-many as an
// array in Sequence order. Undefined and ObjectReference attributes are skipped.
func (c *Codec) Export(ctx context.Context, entity *EntityDescriptor, record Record) (map[string]JSONValue, error) {
	start := time.Now()
	out := make(map[string]JSONValue, len(entity.Attributes)+len(entity.Relationships))

	var retErr error
	defer func() {
		emitRecordExported(ctx, entity.Name, record.ID(), len(out), time.Since(start), retErr)
	}()

	for _, name := range entity.AttributeNames() {
		attr := entity.Attributes[name]
		if !attr.Type.IsConvertible() {
			continue
		}
		j, err := c.ToJSON(attr, record.Attribute(name))
		if err != nil {
			emitConversionFailed(ctx, entity.Name, name, DirectionToJSON, err)
			retErr = err
			return nil, retErr
		}
		out[name] = j
	}

	for _, name := range entity.RelationshipNames() {
		rel := entity.Relationships[name]
		if !rel.ToMany {
			members := record.Relationship(name)
			if len(members) == 0 {
				out[name] = NullJSON()
			} else {
				out[name] = StringJSON(members[0].ID())
			}
			continue
		}

		members, err := Sequence(entity, record, name)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		if members == nil {
			out[name] = NullJSON()
			continue
		}
		ids := make([]JSONValue, len(members))
		for i, m := range members {
			ids[i] = StringJSON(m.ID())
		}
		out[name] = ArrayJSON(ids...)
	}

	return out, nil
}

// Import converts and validates every attribute in values, then writes them
// into record according to the codec's ImportPolicy. Keys naming
// relationships are left for the caller to resolve.
//
// Under AbortOnError nothing is written unless every attribute succeeds.
// Under SkipInvalid the valid attributes are written and the failures are
// returned joined.
func (c *Codec) Import(ctx context.Context, entity *EntityDescriptor, record Record, values map[string]JSONValue) error {
	start := time.Now()
	converted := make(map[string]NativeValue, len(values))
	var errs []error

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		j := values[name]
		if _, isRel := entity.Relationships[name]; isRel {
			continue
		}
		v, err := c.EntityFromJSON(entity, name, j)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !c.EntityValidate(entity, name, v) {
			attr := entity.Attributes[name]
			err := newConversionError(ErrTypeMismatch, attr, errors.New("converted value failed validation"))
			emitConversionFailed(ctx, entity.Name, name, DirectionFromJSON, err)
			errs = append(errs, err)
			continue
		}
		converted[name] = v
	}

	retErr := errors.Join(errs...)
	written := 0
	if retErr == nil || c.policy == SkipInvalid {
		for _, name := range names {
			if v, ok := converted[name]; ok {
				record.SetAttribute(name, v)
				written++
			}
		}
	}

	emitRecordImported(ctx, entity.Name, record.ID(), written, len(errs), time.Since(start), retErr)
	return retErr
}
