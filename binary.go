package attrjson

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// binaryEncoding is standard padded base64 that also rejects non-zero
// trailing bits.
var binaryEncoding = base64.StdEncoding.Strict()

// EncodeBinary renders b as standard padded base64 without line breaks.
func EncodeBinary(b []byte) string {
	return binaryEncoding.EncodeToString(b)
}

// DecodeBinary parses standard padded base64. Any character outside the
// alphabet, including CR and LF which the stdlib decoder skips, is rejected.
func DecodeBinary(s string) ([]byte, error) {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return nil, fmt.Errorf("%w: illegal line break at offset %d", ErrMalformedBinary, i)
	}
	b, err := binaryEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBinary, err)
	}
	return b, nil
}
