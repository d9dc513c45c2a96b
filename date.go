package attrjson

import (
	"fmt"
	"sync"
	"time"
)

// DateLayout is the fixed-offset ISO-8601 form used for date attributes:
// seconds precision, numeric offset, no fractional seconds.
const DateLayout = "2006-01-02T15:04:05-0700"

// DateCodec formats and parses date attribute values.
// It is immutable after construction and safe for concurrent use.
type DateCodec struct {
	layout string
}

var (
	dateOnce  sync.Once
	dateCodec *DateCodec
)

// Dates returns the process-wide date codec, constructing it on first use.
func Dates() *DateCodec {
	dateOnce.Do(func() {
		dateCodec = &DateCodec{layout: DateLayout}
	})
	return dateCodec
}

// Layout returns the time layout the codec formats with.
func (d *DateCodec) Layout() string { return d.layout }

// Check reports whether t has an exact form in the layout: a four-digit
// year and an offset in whole minutes of at most 24 hours, which is all
// Parse accepts back.
func (d *DateCodec) Check(t time.Time) error {
	if y := t.Year(); y < 0 || y > 9999 {
		return fmt.Errorf("%w: year %d outside 0000-9999", ErrMalformedDate, y)
	}
	_, offset := t.Zone()
	if offset%60 != 0 {
		return fmt.Errorf("%w: offset %ds is not a whole minute", ErrMalformedDate, offset)
	}
	if offset < -24*3600 || offset > 24*3600 {
		return fmt.Errorf("%w: offset %ds exceeds 24 hours", ErrMalformedDate, offset)
	}
	return nil
}

// Format renders t in its own offset. Sub-second precision is dropped.
// Times that fail Check are rejected.
func (d *DateCodec) Format(t time.Time) (string, error) {
	if err := d.Check(t); err != nil {
		return "", err
	}
	return t.Format(d.layout), nil
}

// Parse reads a timestamp in the fixed layout, keeping its offset.
func (d *DateCodec) Parse(s string) (time.Time, error) {
	// time.Parse tolerates fractional seconds the layout does not name.
	if len(s) != len(d.layout) {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s", ErrMalformedDate, s, d.layout)
	}
	t, err := time.Parse(d.layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedDate, err)
	}
	return t, nil
}
