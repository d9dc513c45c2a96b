package attrjson

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Direction names which way a conversion was running.
type Direction string

const (
	DirectionToJSON   Direction = "to_json"
	DirectionFromJSON Direction = "from_json"
)

// Signals for codec events.
var (
	SignalTransformerRegistered = capitan.NewSignal("attrjson.transformer.registered", "Transformer added to a registry")
	SignalConversionFailed      = capitan.NewSignal("attrjson.conversion.failed", "Attribute conversion rejected")
	SignalRecordExported        = capitan.NewSignal("attrjson.record.exported", "Record rendered as JSON")
	SignalRecordImported        = capitan.NewSignal("attrjson.record.imported", "JSON written into a record")
)

// Keys for typed event data.
var (
	KeyTransformer = capitan.NewStringKey("transformer")
	KeyRegistered  = capitan.NewIntKey("registered_count")
	KeyEntity      = capitan.NewStringKey("entity")
	KeyAttribute   = capitan.NewStringKey("attribute")
	KeyDirection   = capitan.NewStringKey("direction")
	KeyRecordID    = capitan.NewStringKey("record_id")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyFailedCount = capitan.NewIntKey("failed_count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitTransformerRegistered emits an event when a transformer is registered.
func emitTransformerRegistered(ctx context.Context, name string, registered int) {
	capitan.Emit(ctx, SignalTransformerRegistered,
		KeyTransformer.Field(name),
		KeyRegistered.Field(registered),
	)
}

// emitConversionFailed emits an error event when an attribute fails to convert.
func emitConversionFailed(ctx context.Context, entity, attribute string, dir Direction, err error) {
	capitan.Error(ctx, SignalConversionFailed,
		KeyEntity.Field(entity),
		KeyAttribute.Field(attribute),
		KeyDirection.Field(string(dir)),
		KeyError.Field(err),
	)
}

// emitRecordExported emits an event when a record export finishes.
func emitRecordExported(ctx context.Context, entity, id string, fields int, duration time.Duration, err error) {
	out := []capitan.Field{
		KeyEntity.Field(entity),
		KeyRecordID.Field(id),
		KeyFieldCount.Field(fields),
		KeyDuration.Field(duration),
	}
	if err != nil {
		out = append(out, KeyError.Field(err))
		capitan.Error(ctx, SignalRecordExported, out...)
	} else {
		capitan.Emit(ctx, SignalRecordExported, out...)
	}
}

// emitRecordImported emits an event when a record import finishes.
func emitRecordImported(ctx context.Context, entity, id string, written, failed int, duration time.Duration, err error) {
	out := []capitan.Field{
		KeyEntity.Field(entity),
		KeyRecordID.Field(id),
		KeyFieldCount.Field(written),
		KeyFailedCount.Field(failed),
		KeyDuration.Field(duration),
	}
	if err != nil {
		out = append(out, KeyError.Field(err))
		capitan.Error(ctx, SignalRecordImported, out...)
	} else {
		capitan.Emit(ctx, SignalRecordImported, out...)
	}
}
