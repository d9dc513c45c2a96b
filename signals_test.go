package attrjson

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitTransformerRegistered(_ *testing.T) {
	// Should not panic
	emitTransformerRegistered(context.Background(), "cbor", 1)
}

func TestEmitConversionFailed(_ *testing.T) {
	emitConversionFailed(context.Background(), "User", "age", DirectionFromJSON, errors.New("test error"))
}

func TestEmitRecordExported_Success(_ *testing.T) {
	emitRecordExported(context.Background(), "User", "u1", 5, 100*time.Millisecond, nil)
}

func TestEmitRecordExported_Error(_ *testing.T) {
	emitRecordExported(context.Background(), "User", "u1", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitRecordImported_Success(_ *testing.T) {
	emitRecordImported(context.Background(), "User", "u1", 3, 0, 100*time.Millisecond, nil)
}

func TestEmitRecordImported_Error(_ *testing.T) {
	emitRecordImported(context.Background(), "User", "u1", 1, 2, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalTransformerRegistered", SignalTransformerRegistered},
		{"SignalConversionFailed", SignalConversionFailed},
		{"SignalRecordExported", SignalRecordExported},
		{"SignalRecordImported", SignalRecordImported},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}
