package revocation

import (
	"bytes"
	"encoding/json"
	"fmt"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
)

// Version1 is the only envelope version tag understood by this package
const Version1 = "1.0"

const versionField = "ver"

// marshalTagged serializes payload, which must encode to a JSON object, and
// adds the "ver" discriminator as its first member.
func marshalTagged(ver string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("versioned payload must encode to a JSON object")
	}

	tag, err := json.Marshal(ver)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"` + versionField + `":`)
	buf.Write(tag)
	if !bytes.Equal(body, []byte("{}")) {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// readEnvelope decodes the top level object, returns its version tag and
// checks that the required members are present.
func readEnvelope(kind string, data []byte, required ...string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", anonerrors.NewDecodeError(kind, "payload is not a JSON object", err)
	}

	rawVer, ok := fields[versionField]
	if !ok {
		return "", anonerrors.UnknownVersion(kind, "")
	}
	var ver string
	if err := json.Unmarshal(rawVer, &ver); err != nil {
		return "", anonerrors.NewDecodeError(kind, "version tag `ver` must be a string", err)
	}
	if ver != Version1 {
		return ver, anonerrors.UnknownVersion(kind, ver)
	}

	return ver, requireFields(kind, fields, required...)
}

// requireObjectFields is requireFields for an undecoded object
func requireObjectFields(kind string, data []byte, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return anonerrors.NewDecodeError(kind, "payload is not a JSON object", err)
	}
	return requireFields(kind, fields, required...)
}

func requireFields(kind string, fields map[string]json.RawMessage, required ...string) error {
	for _, name := range required {
		raw, ok := fields[name]
		if !ok || bytes.Equal(raw, []byte("null")) {
			return anonerrors.NewDecodeError(kind, fmt.Sprintf("missing field `%s`", name), nil)
		}
	}
	return nil
}

// decodePayload unmarshals a variant payload, keeping DecodeErrors raised by
// nested types as they are.
func decodePayload(kind string, data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		if anonerrors.IsDecodeError(err) {
			return err
		}
		return anonerrors.NewDecodeError(kind, "invalid payload", err)
	}
	return nil
}

func errEmptyEnvelope(kind string) error {
	return fmt.Errorf("%s has no version variant", kind)
}
