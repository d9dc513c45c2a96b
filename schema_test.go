package attrjson

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const accountSchema = `
entities:
  - name: Account
    attributes:
      - {name: balance, type: decimal}
      - {name: opened, type: date}
      - {name: settings, type: transformable, transformer: msgpack}
    relationships:
      - {name: owner, destination: User}
      - {name: entries, destination: Entry, to_many: true, ordered: true}
  - name: Entry
    attributes:
      - {name: amount, type: Decimal}
`

type Account struct {
	Balance  string         `attr:"balance,decimal"`
	Opened   string         `attr:"opened,date"`
	Settings map[string]any `attr:"settings,transformable,msgpack"`
	Owner    string         `rel:"owner,to-one"`
	Entries  []string       `rel:"entries,to-many,ordered"`
	Cache    string
}

func TestLoadSchema(t *testing.T) {
	s, err := LoadSchema([]byte(accountSchema))
	if err != nil {
		t.Fatalf("LoadSchema() error: %v", err)
	}

	if diff := cmp.Diff([]string{"Account", "Entry"}, s.EntityNames()); diff != "" {
		t.Errorf("EntityNames() mismatch (-want +got):\n%s", diff)
	}

	account, err := s.Entity("Account")
	if err != nil {
		t.Fatalf("Entity(Account) error: %v", err)
	}
	settings, _ := account.Attribute("settings")
	if settings.Type != TypeTransformable || settings.Transformer != "msgpack" {
		t.Errorf("settings = %+v", settings)
	}
	entries, _ := account.Relationship("entries")
	if !entries.ToMany || !entries.Ordered || entries.Destination != "Entry" {
		t.Errorf("entries = %+v", entries)
	}

	entry, _ := s.Entity("Entry")
	amount, _ := entry.Attribute("amount")
	if amount.Type != TypeDecimal {
		t.Errorf("amount.Type = %v, want decimal", amount.Type)
	}

	if _, err := s.Entity("Ledger"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Entity(Ledger) error = %v, want ErrUnknownEntity", err)
	}
}

func TestLoadSchema_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "entities: [unclosed"},
		{"unknown type", "entities:\n  - name: A\n    attributes:\n      - {name: x, type: uuid}\n"},
		{"duplicate entity", "entities:\n  - name: A\n  - name: A\n"},
		{"transformer on int", "entities:\n  - name: A\n    attributes:\n      - {name: x, type: int32, transformer: cbor}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSchema([]byte(tt.doc)); !errors.Is(err, ErrInvalidSchema) {
				t.Errorf("LoadSchema() error = %v, want ErrInvalidSchema", err)
			}
		})
	}
}

func TestEntityFor(t *testing.T) {
	fromTags, err := EntityFor[Account]()
	if err != nil {
		t.Fatalf("EntityFor() error: %v", err)
	}
	if fromTags.Name != "Account" {
		t.Errorf("Name = %q, want Account", fromTags.Name)
	}

	s, err := LoadSchema([]byte(accountSchema))
	if err != nil {
		t.Fatalf("LoadSchema() error: %v", err)
	}
	fromYAML, _ := s.Entity("Account")

	if diff := cmp.Diff(fromYAML.Attributes, fromTags.Attributes); diff != "" {
		t.Errorf("attributes differ (-yaml +tags):\n%s", diff)
	}
	for name, rel := range fromTags.Relationships {
		want := fromYAML.Relationships[name]
		want.Destination = ""
		if rel != want {
			t.Errorf("relationship %q = %+v, want %+v", name, rel, want)
		}
	}
	if _, err := fromTags.Attribute("Cache"); !errors.Is(err, ErrUnknownAttribute) {
		t.Error("untagged fields should be ignored")
	}
}

func TestParseTags(t *testing.T) {
	if _, err := parseAttrTag("age"); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("parseAttrTag(age) error = %v, want ErrInvalidSchema", err)
	}
	if _, err := parseAttrTag("age,int32,x,y"); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("parseAttrTag(too many) error = %v, want ErrInvalidSchema", err)
	}
	if _, err := parseRelTag("tags,several"); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("parseRelTag(bad cardinality) error = %v, want ErrInvalidSchema", err)
	}
	if _, err := parseRelTag("tags,to-many,sorted"); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("parseRelTag(bad option) error = %v, want ErrInvalidSchema", err)
	}

	rel, err := parseRelTag("tags,to-many,ordered")
	if err != nil || !rel.ToMany || !rel.Ordered {
		t.Errorf("parseRelTag() = %+v, %v", rel, err)
	}
}

func TestNewSchema_Duplicate(t *testing.T) {
	a, _ := NewEntity("A", nil, nil)
	b, _ := NewEntity("A", nil, nil)
	if _, err := NewSchema(a, b); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("NewSchema(dup) error = %v, want ErrInvalidSchema", err)
	}
	if _, err := NewSchema(nil); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("NewSchema(nil) error = %v, want ErrInvalidSchema", err)
	}
}
