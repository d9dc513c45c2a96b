// Package attrjson converts persistent-record attribute values to and from
// JSON, driven by per-attribute runtime type metadata.
//
// A generic persistence layer describes its entities with EntityDescriptor
// values and hands native attribute values to a Codec. The codec decides how
// each value crosses the JSON boundary from the attribute's declared type
// alone, so no per-entity serialization code is needed.
//
// # Attribute Types
//
// The AttributeType set is closed:
//
//	int16, int32, int64     - JSON number, integral and range-checked
//	decimal, double, float  - JSON number (decimal keeps its exact text)
//	boolean                 - JSON true/false
//	string                  - JSON string
//	date                    - "2006-01-02T15:04:05-0700" string
//	binary                  - standard base64 string
//	transformable           - base64 of the named transformer's bytes
//	undefined, objectReference - never convertible
//
// Null converts to JSON null and back for every convertible type.
//
// # Basic Usage
//
//	user, _ := attrjson.NewEntity("User", []attrjson.AttributeDescriptor{
//	    {Name: "age", Type: attrjson.TypeInt32},
//	    {Name: "createdAt", Type: attrjson.TypeDate},
//	    {Name: "avatar", Type: attrjson.TypeBinary},
//	}, nil)
//
//	codec := attrjson.NewCodec()
//
//	j, _ := codec.EntityToJSON(user, "age", attrjson.Int(30))      // 30
//	v, _ := codec.EntityFromJSON(user, "avatar", attrjson.StringJSON("AQID"))
//
//	// Whole records
//	fields, _ := codec.Export(ctx, user, record)
//	err := codec.Import(ctx, user, record, fields)
//
// # Transformers
//
// Transformable attributes name a Transformer registered in a Registry.
// Every registry starts with the CBOR archiver under DefaultTransformerName,
// which is used when an attribute names no transformer. Register more at
// startup:
//
//	attrjson.Register("prefs", msgpack.New[Prefs]())
//
// The following transformer implementations are available as subpackages:
//
//   - json - JSON encoding
//   - msgpack - MessagePack encoding
//   - yaml - YAML encoding
//   - bson - BSON encoding (documents only)
//   - xml - XML encoding (structs only)
//
// Sealed wraps any transformer with an Encryptor: AES-GCM, XChaCha20-Poly1305,
// or envelope encryption keyed by an AES master key (Envelope) or an RSA key
// pair (RSA).
//
// # Schemas
//
// Descriptors may be built directly with NewEntity, loaded from YAML with
// LoadSchema, or derived from struct tags with EntityFor.
//
// # Errors
//
// Conversions return *ConversionError and lookups *SchemaError; both unwrap
// to a sentinel (ErrTypeMismatch, ErrMalformedDate, ErrMalformedBinary,
// ErrUnknownTransformer, ErrUnknownAttribute, ...) for use with errors.Is.
// Validate reports a bool instead.
package attrjson
