package identifiers

import (
	"regexp"
	"strings"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
)

const (
	SchemaPrefix = "schema"
	SchemaMarker = "2"
)

var seqNoRegex = regexp.MustCompile(`^\d+$`)

// SchemaId identifies a schema: <did>:2:<name>:<version>, or a ledger
// sequence number for legacy references.
type SchemaId string

// NewSchemaId builds a schema id, qualified when did is qualified
func NewSchemaId(did DidValue, name, version string) SchemaId {
	id := strings.Join([]string{string(did), SchemaMarker, name, version}, delimiter)
	if method := did.Method(); method != "" {
		return SchemaId(qualify(SchemaPrefix, method, id))
	}
	return SchemaId(id)
}

func (s SchemaId) String() string { return string(s) }

// IsSeqNo reports whether the schema is referenced by ledger sequence number
func (s SchemaId) IsSeqNo() bool {
	return seqNoRegex.MatchString(string(s))
}

// IsFullyQualified reports whether the id carries the schema:<method>: prefix
func (s SchemaId) IsFullyQualified() bool {
	_, _, ok := splitQualified(SchemaPrefix, string(s))
	return ok
}

// Method returns the qualifying method or ""
func (s SchemaId) Method() string {
	method, _, _ := splitQualified(SchemaPrefix, string(s))
	return method
}

// Parts splits the id into issuer DID, name and version. ok is false for
// sequence numbers and malformed ids.
func (s SchemaId) Parts() (did DidValue, name, version string, ok bool) {
	_, rest, _ := splitQualified(SchemaPrefix, string(s))
	before, after, found := splitMarker(rest, SchemaMarker)
	if !found {
		return "", "", "", false
	}
	segs := strings.Split(after, delimiter)
	if len(segs) != 2 || segs[0] == "" || segs[1] == "" || hasEmptySegment(before) {
		return "", "", "", false
	}
	return DidValue(before), segs[0], segs[1], true
}

// ToUnqualified returns the legacy form of the id
func (s SchemaId) ToUnqualified() SchemaId {
	did, name, version, ok := s.Parts()
	if !ok {
		return s
	}
	return NewSchemaId(did.ToUnqualified(), name, version)
}

// ToQualified qualifies the id and its issuer DID with method
func (s SchemaId) ToQualified(method string) SchemaId {
	if s.IsFullyQualified() {
		return s
	}
	did, name, version, ok := s.Parts()
	if !ok {
		return s
	}
	return NewSchemaId(did.ToQualified(method), name, version)
}

// Validate checks the id is a sequence number or matches the schema pattern
func (s SchemaId) Validate() error {
	if s.IsSeqNo() {
		return nil
	}
	if _, _, _, ok := s.Parts(); !ok {
		return anonerrors.Invalid("SchemaId validation failed: %q, doesn't match pattern", string(s))
	}
	return nil
}
