package identifiers

import (
	"strings"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
)

const (
	RevocationRegistryPrefix = "revreg"
	RevocationRegistryMarker = "4"
)

// RevocationRegistryId identifies a revocation registry:
// <did>:4:<cred def id>:<registry type>:<tag>
type RevocationRegistryId string

// RevocationRegistryIdParts is the parsed form of a RevocationRegistryId
type RevocationRegistryIdParts struct {
	IssuerDid              DidValue
	CredentialDefinitionId CredentialDefinitionId
	RegistryType           string
	Tag                    string
}

// NewRevocationRegistryId builds a registry id, qualified when did is qualified
func NewRevocationRegistryId(did DidValue, credDefId CredentialDefinitionId, registryType, tag string) RevocationRegistryId {
	id := strings.Join([]string{string(did), RevocationRegistryMarker, string(credDefId), registryType, tag}, delimiter)
	if method := did.Method(); method != "" {
		return RevocationRegistryId(qualify(RevocationRegistryPrefix, method, id))
	}
	return RevocationRegistryId(id)
}

func (r RevocationRegistryId) String() string { return string(r) }

// IsFullyQualified reports whether the id carries the revreg:<method>: prefix
func (r RevocationRegistryId) IsFullyQualified() bool {
	_, _, ok := splitQualified(RevocationRegistryPrefix, string(r))
	return ok
}

// Method returns the qualifying method or ""
func (r RevocationRegistryId) Method() string {
	method, _, _ := splitQualified(RevocationRegistryPrefix, string(r))
	return method
}

// Parts parses the id. The registry type and tag are the last two segments,
// so tags cannot contain ':'.
func (r RevocationRegistryId) Parts() (RevocationRegistryIdParts, bool) {
	_, rest, _ := splitQualified(RevocationRegistryPrefix, string(r))
	did, after, found := splitMarker(rest, RevocationRegistryMarker)
	if !found || hasEmptySegment(did) {
		return RevocationRegistryIdParts{}, false
	}

	lastSep := strings.LastIndex(after, delimiter)
	if lastSep <= 0 || lastSep == len(after)-1 {
		return RevocationRegistryIdParts{}, false
	}
	tag := after[lastSep+1:]
	head := after[:lastSep]

	typeSep := strings.LastIndex(head, delimiter)
	if typeSep <= 0 || typeSep == len(head)-1 {
		return RevocationRegistryIdParts{}, false
	}
	registryType := head[typeSep+1:]
	credDefId := CredentialDefinitionId(head[:typeSep])
	if _, ok := credDefId.Parts(); !ok {
		return RevocationRegistryIdParts{}, false
	}

	return RevocationRegistryIdParts{
		IssuerDid:              DidValue(did),
		CredentialDefinitionId: credDefId,
		RegistryType:           registryType,
		Tag:                    tag,
	}, true
}

// ToUnqualified returns the legacy form, unqualifying the issuer DID and the
// embedded credential definition id. Unqualified or malformed ids are
// returned unchanged, so the operation is idempotent.
func (r RevocationRegistryId) ToUnqualified() RevocationRegistryId {
	p, ok := r.Parts()
	if !ok {
		return r
	}
	return NewRevocationRegistryId(p.IssuerDid.ToUnqualified(), p.CredentialDefinitionId.ToUnqualified(), p.RegistryType, p.Tag)
}

// ToQualified qualifies the id and every identifier embedded in it
func (r RevocationRegistryId) ToQualified(method string) RevocationRegistryId {
	if r.IsFullyQualified() {
		return r
	}
	p, ok := r.Parts()
	if !ok {
		return r
	}
	return NewRevocationRegistryId(p.IssuerDid.ToQualified(method), p.CredentialDefinitionId.ToQualified(method), p.RegistryType, p.Tag)
}

// Validate checks the id against the revocation registry pattern
func (r RevocationRegistryId) Validate() error {
	if _, ok := r.Parts(); !ok {
		return anonerrors.Invalid("Revocation Registry Id validation failed: %q, doesn't match pattern", string(r))
	}
	return nil
}
