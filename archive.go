package attrjson

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// DefaultTransformerName names the archiver every registry starts with.
const DefaultTransformerName = "cbor"

// archiveEncMode uses Core Deterministic Encoding (RFC 8949 §4.2) so equal
// values always archive to identical bytes.
var archiveEncMode cbor.EncMode

// archiveDecMode decodes untyped maps as map[string]any so archived objects
// come back in the same shapes encoding/json would produce.
var archiveDecMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	archiveEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("attrjson: CBOR encoder initialization failed: " + err.Error())
	}

	archiveDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("attrjson: CBOR decoder initialization failed: " + err.Error())
	}
}

// archiver is a CBOR transformer decoding into T.
type archiver[T any] struct{}

// Archiver returns the generic object archiver used as the default
// transformer. Values decode into untyped Go shapes: maps become
// map[string]any, arrays []any, integers int64 or uint64.
func Archiver() Transformer {
	return archiver[any]{}
}

// TypedArchiver returns a CBOR transformer that decodes into T, preserving
// the concrete type across a round trip.
func TypedArchiver[T any]() Transformer {
	return archiver[T]{}
}

func (archiver[T]) Forward(value any) ([]byte, error) {
	if _, untyped := any((*T)(nil)).(*any); untyped {
		return archiveEncMode.Marshal(value)
	}
	v, err := OpaqueAs[T](value)
	if err != nil {
		return nil, err
	}
	return archiveEncMode.Marshal(v)
}

func (archiver[T]) Backward(data []byte) (any, error) {
	var v T
	if err := archiveDecMode.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
