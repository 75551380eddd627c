package identifiers

import (
	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/encoding"
)

// DidValue is an issuer DID, either qualified (did:sov:<id>) or a bare Indy DID
type DidValue string

// NewDidValue builds a DID for the given method. An empty method yields the
// unqualified form.
func NewDidValue(did, method string) DidValue {
	return DidValue(did).ToQualified(method)
}

func (d DidValue) String() string { return string(d) }

// IsFullyQualified reports whether the DID carries a did:<method>: prefix
func (d DidValue) IsFullyQualified() bool {
	return didRegex.MatchString(string(d))
}

// Method returns the DID method, or "" for an unqualified DID
func (d DidValue) Method() string {
	if m := didRegex.FindStringSubmatch(string(d)); m != nil {
		return m[1]
	}
	return ""
}

// ToUnqualified strips the did:<method>: prefix
func (d DidValue) ToUnqualified() DidValue {
	if m := didRegex.FindStringSubmatch(string(d)); m != nil {
		return DidValue(m[2])
	}
	return d
}

// ToQualified adds a did:<method>: prefix unless one is already present
func (d DidValue) ToQualified(method string) DidValue {
	if method == "" || d.IsFullyQualified() {
		return d
	}
	return DidValue("did" + delimiter + method + delimiter + string(d))
}

// Validate checks that an Indy DID decodes to a 16 or 32 byte value.
// Qualified DIDs of other methods only need to be well formed.
func (d DidValue) Validate() error {
	if d == "" {
		return anonerrors.Invalid("Invalid DID: empty value")
	}
	if d.IsFullyQualified() && d.Method() != "sov" {
		return nil
	}
	raw := string(d.ToUnqualified())
	decoded, err := encoding.DecodeBase58(raw)
	if err != nil {
		return anonerrors.Invalid("Invalid DID %q: %v", string(d), err)
	}
	if len(decoded) != 16 && len(decoded) != 32 {
		return anonerrors.Invalid(
			"Trying to use DID with unexpected length: %d. The 16- or 32-byte number upon which a DID is based should be 22/23 or 44/45 bytes when encoded as base58.",
			len(decoded))
	}
	return nil
}
