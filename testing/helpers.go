// Package testing provides test utilities for attrjson.
package testing

import (
	"testing"
	"time"

	"github.com/zoobzio/attrjson"
)

// TestKey returns a valid 32-byte key usable with AES-256 and XChaCha20.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) attrjson.Encryptor {
	tb.Helper()
	enc, err := attrjson.AES(TestKey())
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// Prefs is a transformable payload with stable field tags for every
// transformer subpackage.
type Prefs struct {
	Theme   string   `json:"theme" msgpack:"theme" yaml:"theme" bson:"theme" xml:"theme"`
	Volume  int      `json:"volume" msgpack:"volume" yaml:"volume" bson:"volume" xml:"volume"`
	Plugins []string `json:"plugins" msgpack:"plugins" yaml:"plugins" bson:"plugins" xml:"plugin"`
}

// SamplePrefs returns a populated Prefs value.
func SamplePrefs() Prefs {
	return Prefs{Theme: "dark", Volume: 7, Plugins: []string{"git", "lint"}}
}

// User is a tagged entity covering every convertible attribute type.
type User struct {
	Age      int32     `attr:"age,int32"`
	Visits   int64     `attr:"visits,int64"`
	Rank     int16     `attr:"rank,int16"`
	Balance  string    `attr:"balance,decimal"`
	Score    float64   `attr:"score,double"`
	Ratio    float32   `attr:"ratio,float"`
	Active   bool      `attr:"active,boolean"`
	Name     string    `attr:"name,string"`
	Created  time.Time `attr:"createdAt,date"`
	Avatar   []byte    `attr:"avatar,binary"`
	Prefs    Prefs     `attr:"prefs,transformable,prefs"`
	Extra    any       `attr:"extra,transformable"`
	Manager  string    `rel:"manager,to-one"`
	Tags     []string  `rel:"tags,to-many,ordered"`
	Friends  []string  `rel:"friends,to-many"`
	Internal string
}

// UserSchemaYAML declares the same entity as User in schema document form.
const UserSchemaYAML = `
entities:
  - name: User
    attributes:
      - {name: age, type: int32}
      - {name: visits, type: int64}
      - {name: rank, type: int16}
      - {name: balance, type: decimal}
      - {name: score, type: double}
      - {name: ratio, type: float}
      - {name: active, type: boolean}
      - {name: name, type: string}
      - {name: createdAt, type: date}
      - {name: avatar, type: binary}
      - {name: prefs, type: transformable, transformer: prefs}
      - {name: extra, type: transformable}
    relationships:
      - {name: manager}
      - {name: tags, to_many: true, ordered: true}
      - {name: friends, to_many: true}
`

// UserEntity returns the descriptor for User.
func UserEntity(tb testing.TB) *attrjson.EntityDescriptor {
	tb.Helper()
	e, err := attrjson.EntityFor[User]()
	if err != nil {
		tb.Fatalf("EntityFor[User]() error: %v", err)
	}
	return e
}

// SampleCreated is the creation time used by SampleRecord.
func SampleCreated() time.Time {
	return time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("", 2*60*60))
}

// SampleRecord returns a record with every attribute of User populated.
// The prefs attribute holds a Prefs value and extra a string slice.
func SampleRecord(tb testing.TB) *attrjson.MapRecord {
	tb.Helper()
	balance, err := attrjson.Decimal("1234.5600")
	if err != nil {
		tb.Fatalf("Decimal() error: %v", err)
	}

	r := attrjson.NewMapRecord("user-1")
	r.SetAttribute("age", attrjson.Int(30))
	r.SetAttribute("visits", attrjson.Int(1<<40))
	r.SetAttribute("rank", attrjson.Int(-12))
	r.SetAttribute("balance", balance)
	r.SetAttribute("score", attrjson.Float(98.25))
	r.SetAttribute("ratio", attrjson.Float32(0.5))
	r.SetAttribute("active", attrjson.Bool(true))
	r.SetAttribute("name", attrjson.Text("Alice"))
	r.SetAttribute("createdAt", attrjson.Time(SampleCreated()))
	r.SetAttribute("avatar", attrjson.Bytes([]byte{1, 2, 3}))
	r.SetAttribute("prefs", attrjson.Opaque(SamplePrefs()))
	r.SetAttribute("extra", attrjson.Opaque([]any{"a", "b"}))

	r.SetRelationship("manager", attrjson.NewMapRecord("user-0"))
	r.SetRelationship("tags",
		attrjson.NewMapRecord("tag-c"),
		attrjson.NewMapRecord("tag-a"),
		attrjson.NewMapRecord("tag-b"),
	)
	r.SetRelationship("friends",
		attrjson.NewMapRecord("user-3"),
		attrjson.NewMapRecord("user-2"),
	)
	return r
}
