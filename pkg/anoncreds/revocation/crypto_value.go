package revocation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CryptoValue is an opaque value produced by the accumulator library
// (accumulator state, delta, public or private key). It is carried as a
// single JSON blob and never inspected here.
type CryptoValue struct {
	raw []byte
}

// NewCryptoValue serializes a crypto library value into an opaque blob
func NewCryptoValue(v interface{}) (CryptoValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return CryptoValue{}, fmt.Errorf("failed to serialize crypto value: %w", err)
	}
	return CryptoValueFromJSON(data)
}

// CryptoValueFromJSON wraps already serialized JSON. The input is compacted so
// that encoding is stable across round trips.
func CryptoValueFromJSON(data []byte) (CryptoValue, error) {
	if !json.Valid(data) {
		return CryptoValue{}, fmt.Errorf("crypto value is not valid JSON")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return CryptoValue{}, fmt.Errorf("failed to compact crypto value: %w", err)
	}
	return CryptoValue{raw: buf.Bytes()}, nil
}

// MustCryptoValue is CryptoValueFromJSON for literals known to be valid
func MustCryptoValue(data string) CryptoValue {
	v, err := CryptoValueFromJSON([]byte(data))
	if err != nil {
		panic(err)
	}
	return v
}

// Decode hands the blob back to the crypto library's own type
func (c CryptoValue) Decode(v interface{}) error {
	if c.IsEmpty() {
		return fmt.Errorf("crypto value is empty")
	}
	return json.Unmarshal(c.raw, v)
}

// Bytes returns a copy of the serialized blob
func (c CryptoValue) Bytes() []byte {
	return append([]byte(nil), c.raw...)
}

// IsEmpty reports whether no value has been set
func (c CryptoValue) IsEmpty() bool {
	return len(c.raw) == 0 || bytes.Equal(c.raw, []byte("null"))
}

// Equal compares two blobs byte for byte
func (c CryptoValue) Equal(other CryptoValue) bool {
	return bytes.Equal(c.raw, other.raw)
}

func (c CryptoValue) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

func (c *CryptoValue) UnmarshalJSON(data []byte) error {
	v, err := CryptoValueFromJSON(data)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
