package attrjson

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMapRecord(t *testing.T) {
	r := NewMapRecord("u1")

	if r.ID() != "u1" {
		t.Errorf("ID() = %q, want u1", r.ID())
	}
	if !r.Attribute("name").IsNull() {
		t.Error("unset attribute should be null")
	}

	r.SetAttribute("name", Text("alice"))
	if s, _ := r.Attribute("name").Text(); s != "alice" {
		t.Errorf("Attribute(name) = %q, want alice", s)
	}

	r.SetRelationship("tags", NewMapRecord("a"))
	if got := r.Relationship("tags"); len(got) != 1 {
		t.Errorf("Relationship(tags) len = %d, want 1", len(got))
	}
	r.SetRelationship("tags")
	if got := r.Relationship("tags"); got != nil {
		t.Errorf("Relationship(tags) after clear = %v, want nil", got)
	}
}

func TestMapRecord_Concurrent(t *testing.T) {
	r := NewMapRecord("u1")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.SetAttribute("n", Int(int64(i)))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Attribute("n")
		}()
	}
	wg.Wait()
}

func TestCodec_Export(t *testing.T) {
	codec := NewCodec(WithRegistry(NewRegistry()))
	e := userEntity(t)
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	r := NewMapRecord("u1")
	r.SetAttribute("age", Int(30))
	r.SetAttribute("name", Text("alice"))
	r.SetAttribute("createdAt", Time(created))
	r.SetAttribute("owner", Text("ignored"))
	r.SetRelationship("manager", NewMapRecord("boss"))
	r.SetRelationship("tags", NewMapRecord("C"), NewMapRecord("A"), NewMapRecord("B"))

	out, err := codec.Export(context.Background(), e, r)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	got := make(map[string]any, len(out))
	for k, v := range out {
		got[k] = v.Interface()
	}
	want := map[string]any{
		"age":       json.Number("30"),
		"name":      "alice",
		"createdAt": "2024-01-15T10:30:00+0000",
		"avatar":    nil,
		"manager":   "boss",
		"tags":      []any{"C", "A", "B"},
		"friends":   nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_Export_Error(t *testing.T) {
	codec := NewCodec(WithRegistry(NewRegistry()))
	e := userEntity(t)
	r := NewMapRecord("u1")
	r.SetAttribute("age", Text("thirty"))

	if _, err := codec.Export(context.Background(), e, r); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Export() error = %v, want ErrTypeMismatch", err)
	}
}

func TestCodec_Import(t *testing.T) {
	codec := NewCodec(WithRegistry(NewRegistry()))
	e := userEntity(t)
	r := NewMapRecord("u1")

	err := codec.Import(context.Background(), e, r, map[string]JSONValue{
		"age":       NumberJSON("30"),
		"name":      StringJSON("alice"),
		"createdAt": StringJSON("2024-01-15T10:30:00+0000"),
		"avatar":    NullJSON(),
		"tags":      ArrayJSON(StringJSON("ignored")),
	})
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	if i, _ := r.Attribute("age").Int64(); i != 30 {
		t.Errorf("age = %v, want 30", r.Attribute("age"))
	}
	if s, _ := r.Attribute("name").Text(); s != "alice" {
		t.Errorf("name = %v, want alice", r.Attribute("name"))
	}
	if !r.Attribute("avatar").IsNull() {
		t.Errorf("avatar = %v, want null", r.Attribute("avatar"))
	}
	if r.Relationship("tags") != nil {
		t.Error("Import should not touch relationships")
	}
}

func TestCodec_Import_AbortOnError(t *testing.T) {
	codec := NewCodec(WithRegistry(NewRegistry()))
	e := userEntity(t)
	r := NewMapRecord("u1")
	r.SetAttribute("name", Text("before"))

	err := codec.Import(context.Background(), e, r, map[string]JSONValue{
		"name":   StringJSON("after"),
		"age":    StringJSON("30"),
		"avatar": StringJSON("not-base64!!"),
	})
	if !errors.Is(err, ErrTypeMismatch) || !errors.Is(err, ErrMalformedBinary) {
		t.Fatalf("Import() error = %v, want both failures joined", err)
	}

	if s, _ := r.Attribute("name").Text(); s != "before" {
		t.Errorf("name = %q, want untouched", s)
	}
	if !r.Attribute("age").IsNull() || !r.Attribute("avatar").IsNull() {
		t.Error("failed attributes should not be written")
	}
}

func TestCodec_Import_SkipInvalid(t *testing.T) {
	codec := NewCodec(WithRegistry(NewRegistry()), WithImportPolicy(SkipInvalid))
	e := userEntity(t)
	r := NewMapRecord("u1")

	err := codec.Import(context.Background(), e, r, map[string]JSONValue{
		"name":    StringJSON("alice"),
		"age":     StringJSON("30"),
		"unknown": StringJSON("x"),
	})
	if !errors.Is(err, ErrTypeMismatch) || !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("Import() error = %v, want mismatch and unknown attribute", err)
	}

	if s, _ := r.Attribute("name").Text(); s != "alice" {
		t.Errorf("name = %q, want alice", s)
	}
	if !r.Attribute("age").IsNull() {
		t.Error("age should not be written")
	}
}

func TestCodec_Import_ErrorOrder(t *testing.T) {
	codec := NewCodec(WithRegistry(NewRegistry()), WithImportPolicy(SkipInvalid))
	e := userEntity(t)
	values := map[string]JSONValue{
		"name":      NumberJSON("1"),
		"age":       StringJSON("30"),
		"createdAt": StringJSON("yesterday"),
		"avatar":    StringJSON("not-base64!!"),
		"zzz":       StringJSON("x"),
	}

	first := codec.Import(context.Background(), e, NewMapRecord("u1"), values)
	if first == nil {
		t.Fatal("Import() should fail")
	}
	for i := 0; i < 20; i++ {
		again := codec.Import(context.Background(), e, NewMapRecord("u1"), values)
		if again.Error() != first.Error() {
			t.Fatalf("error text differs between runs:\n%s\n---\n%s", first, again)
		}
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(first, &joined) {
		t.Fatalf("Import() error %T is not a joined error", first)
	}
	var got []string
	for _, err := range joined.Unwrap() {
		switch {
		case errors.Is(err, ErrUnknownAttribute):
			got = append(got, "zzz")
		default:
			var convErr *ConversionError
			if errors.As(err, &convErr) {
				got = append(got, convErr.Attribute)
			}
		}
	}
	if diff := cmp.Diff([]string{"age", "avatar", "createdAt", "name", "zzz"}, got); diff != "" {
		t.Errorf("failure order mismatch (-want +got):\n%s", diff)
	}
}
