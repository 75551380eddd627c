package identifiers

import (
	"strings"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
)

const (
	CredentialDefinitionPrefix = "creddef"
	CredentialDefinitionMarker = "3"
	SignatureTypeCL            = "CL"
)

// CredentialDefinitionId identifies a credential definition:
// <did>:3:<signature type>:<schema id or seq no>[:<tag>]
type CredentialDefinitionId string

// CredentialDefinitionIdParts is the parsed form of a CredentialDefinitionId
type CredentialDefinitionIdParts struct {
	IssuerDid     DidValue
	SignatureType string
	SchemaId      SchemaId
	Tag           string
}

// NewCredentialDefinitionId builds a credential definition id, qualified when
// did is qualified. An empty tag produces the legacy tag-less form.
func NewCredentialDefinitionId(did DidValue, schemaId SchemaId, signatureType, tag string) CredentialDefinitionId {
	segs := []string{string(did), CredentialDefinitionMarker, signatureType, string(schemaId)}
	if tag != "" {
		segs = append(segs, tag)
	}
	id := strings.Join(segs, delimiter)
	if method := did.Method(); method != "" {
		return CredentialDefinitionId(qualify(CredentialDefinitionPrefix, method, id))
	}
	return CredentialDefinitionId(id)
}

func (c CredentialDefinitionId) String() string { return string(c) }

// IsFullyQualified reports whether the id carries the creddef:<method>: prefix
func (c CredentialDefinitionId) IsFullyQualified() bool {
	_, _, ok := splitQualified(CredentialDefinitionPrefix, string(c))
	return ok
}

// Method returns the qualifying method or ""
func (c CredentialDefinitionId) Method() string {
	method, _, _ := splitQualified(CredentialDefinitionPrefix, string(c))
	return method
}

// Parts parses the id. ok is false when the id does not match the pattern.
func (c CredentialDefinitionId) Parts() (CredentialDefinitionIdParts, bool) {
	_, rest, _ := splitQualified(CredentialDefinitionPrefix, string(c))
	did, after, found := splitMarker(rest, CredentialDefinitionMarker)
	if !found || hasEmptySegment(did) {
		return CredentialDefinitionIdParts{}, false
	}

	sigType, schemaRef, found := strings.Cut(after, delimiter)
	if !found || sigType == "" || schemaRef == "" {
		return CredentialDefinitionIdParts{}, false
	}

	parts := CredentialDefinitionIdParts{IssuerDid: DidValue(did), SignatureType: sigType}

	// seq no reference, optionally tagged
	head, tail, _ := strings.Cut(schemaRef, delimiter)
	if seqNoRegex.MatchString(head) {
		parts.SchemaId = SchemaId(head)
		parts.Tag = tail
		if strings.Contains(schemaRef, delimiter) && tail == "" {
			return CredentialDefinitionIdParts{}, false
		}
		return parts, true
	}

	// full schema id: <did>:2:<name>:<version>[:<tag>]
	schemaDid, schemaRest, found := splitMarker(schemaRef, SchemaMarker)
	if !found {
		return CredentialDefinitionIdParts{}, false
	}
	segs := strings.SplitN(schemaRest, delimiter, 3)
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return CredentialDefinitionIdParts{}, false
	}
	parts.SchemaId = SchemaId(strings.Join([]string{schemaDid, SchemaMarker, segs[0], segs[1]}, delimiter))
	if _, _, _, ok := parts.SchemaId.Parts(); !ok {
		return CredentialDefinitionIdParts{}, false
	}
	if len(segs) == 3 {
		if segs[2] == "" {
			return CredentialDefinitionIdParts{}, false
		}
		parts.Tag = segs[2]
	}
	return parts, true
}

// ToUnqualified returns the legacy form, unqualifying the issuer DID and the
// embedded schema id. Unqualified or malformed ids are returned unchanged.
func (c CredentialDefinitionId) ToUnqualified() CredentialDefinitionId {
	p, ok := c.Parts()
	if !ok {
		return c
	}
	return NewCredentialDefinitionId(p.IssuerDid.ToUnqualified(), p.SchemaId.ToUnqualified(), p.SignatureType, p.Tag)
}

// ToQualified qualifies the id, its issuer DID and the embedded schema id
func (c CredentialDefinitionId) ToQualified(method string) CredentialDefinitionId {
	if c.IsFullyQualified() {
		return c
	}
	p, ok := c.Parts()
	if !ok {
		return c
	}
	return NewCredentialDefinitionId(p.IssuerDid.ToQualified(method), p.SchemaId.ToQualified(method), p.SignatureType, p.Tag)
}

// Validate checks the id against the credential definition pattern
func (c CredentialDefinitionId) Validate() error {
	if _, ok := c.Parts(); !ok {
		return anonerrors.Invalid("Credential Definition Id validation failed: %q, doesn't match pattern", string(c))
	}
	return nil
}
