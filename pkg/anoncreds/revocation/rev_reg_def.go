package revocation

import (
	"encoding/json"
	"fmt"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
)

const (
	kindRevocationRegistryDefinition = "RevocationRegistryDefinition"
	kindIssuanceType                 = "IssuanceType"
	kindRegistryType                 = "RegistryType"
)

// CLAccum is the wire name of the CL accumulator registry type
const CLAccum = "CL_ACCUM"

// IssuanceType is the issuance policy of a registry
type IssuanceType string

const (
	// IssuanceByDefault treats every index as issued when the registry is created
	IssuanceByDefault IssuanceType = "ISSUANCE_BY_DEFAULT"
	// IssuanceOnDemand issues each index explicitly
	IssuanceOnDemand IssuanceType = "ISSUANCE_ON_DEMAND"
)

// ParseIssuanceType parses a wire value. Unknown values are a DecodeError.
func ParseIssuanceType(s string) (IssuanceType, error) {
	switch IssuanceType(s) {
	case IssuanceByDefault, IssuanceOnDemand:
		return IssuanceType(s), nil
	default:
		return "", anonerrors.NewDecodeError(kindIssuanceType, fmt.Sprintf("unknown variant %q", s), nil)
	}
}

// ToBool is true exactly for ISSUANCE_BY_DEFAULT
func (t IssuanceType) ToBool() bool {
	return t == IssuanceByDefault
}

func (t IssuanceType) String() string { return string(t) }

func (t IssuanceType) MarshalJSON() ([]byte, error) {
	if _, err := ParseIssuanceType(string(t)); err != nil {
		return nil, err
	}
	return json.Marshal(string(t))
}

func (t *IssuanceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return anonerrors.NewDecodeError(kindIssuanceType, "expected a string", err)
	}
	parsed, err := ParseIssuanceType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RegistryType is the accumulator algorithm of a registry
type RegistryType string

// RegistryTypeCLAccum is the only supported registry type
const RegistryTypeCLAccum RegistryType = CLAccum

// ParseRegistryType parses a wire value. Unknown values are a DecodeError.
func ParseRegistryType(s string) (RegistryType, error) {
	switch RegistryType(s) {
	case RegistryTypeCLAccum:
		return RegistryTypeCLAccum, nil
	default:
		return "", anonerrors.NewDecodeError(kindRegistryType, fmt.Sprintf("unknown variant %q", s), nil)
	}
}

// ToStr returns the canonical wire string
func (t RegistryType) ToStr() string {
	switch t {
	case RegistryTypeCLAccum:
		return CLAccum
	default:
		return string(t)
	}
}

func (t RegistryType) String() string { return t.ToStr() }

func (t RegistryType) MarshalJSON() ([]byte, error) {
	if _, err := ParseRegistryType(string(t)); err != nil {
		return nil, err
	}
	return json.Marshal(t.ToStr())
}

func (t *RegistryType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return anonerrors.NewDecodeError(kindRegistryType, "expected a string", err)
	}
	parsed, err := ParseRegistryType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RevocationRegistryDefinitionValuePublicKeys holds the accumulator public key
type RevocationRegistryDefinitionValuePublicKeys struct {
	AccumKey CryptoValue `json:"accumKey"`
}

func (k *RevocationRegistryDefinitionValuePublicKeys) UnmarshalJSON(data []byte) error {
	if err := requireObjectFields("RevocationRegistryDefinitionValuePublicKeys", data, "accumKey"); err != nil {
		return err
	}
	type plain RevocationRegistryDefinitionValuePublicKeys
	return json.Unmarshal(data, (*plain)(k))
}

// RevocationRegistryDefinitionValue is the issuance and key configuration of a registry
type RevocationRegistryDefinitionValue struct {
	IssuanceType  IssuanceType                                `json:"issuanceType"`
	MaxCredNum    uint32                                      `json:"maxCredNum"`
	PublicKeys    RevocationRegistryDefinitionValuePublicKeys `json:"publicKeys"`
	TailsHash     string                                      `json:"tailsHash"`
	TailsLocation string                                      `json:"tailsLocation"`
}

func (v *RevocationRegistryDefinitionValue) UnmarshalJSON(data []byte) error {
	err := requireObjectFields("RevocationRegistryDefinitionValue", data,
		"issuanceType", "maxCredNum", "publicKeys", "tailsHash", "tailsLocation")
	if err != nil {
		return err
	}
	type plain RevocationRegistryDefinitionValue
	return json.Unmarshal(data, (*plain)(v))
}

// RevocationRegistryDefinitionVariant is the closed set of definition versions
type RevocationRegistryDefinitionVariant interface {
	revocationRegistryDefinitionVersion() string
}

// RevocationRegistryDefinitionV1 is the "1.0" public registry definition
type RevocationRegistryDefinitionV1 struct {
	Id           identifiers.RevocationRegistryId   `json:"id"`
	RevocDefType RegistryType                       `json:"revocDefType"`
	Tag          string                             `json:"tag"`
	CredDefId    identifiers.CredentialDefinitionId `json:"credDefId"`
	Value        RevocationRegistryDefinitionValue  `json:"value"`
}

func (RevocationRegistryDefinitionV1) revocationRegistryDefinitionVersion() string { return Version1 }

// RevocationRegistryDefinition is the public definition of a registry
type RevocationRegistryDefinition struct {
	variant RevocationRegistryDefinitionVariant
}

// NewRevocationRegistryDefinition wraps a V1 definition in its envelope
func NewRevocationRegistryDefinition(v1 RevocationRegistryDefinitionV1) RevocationRegistryDefinition {
	return RevocationRegistryDefinition{variant: v1}
}

// Version returns the envelope tag, or "" for the zero value
func (d RevocationRegistryDefinition) Version() string {
	if d.variant == nil {
		return ""
	}
	return d.variant.revocationRegistryDefinitionVersion()
}

// Variant returns the wrapped version variant
func (d RevocationRegistryDefinition) Variant() RevocationRegistryDefinitionVariant {
	return d.variant
}

// V1 returns the "1.0" variant
func (d RevocationRegistryDefinition) V1() (RevocationRegistryDefinitionV1, bool) {
	v, ok := d.variant.(RevocationRegistryDefinitionV1)
	return v, ok
}

// ID returns the registry id
func (d RevocationRegistryDefinition) ID() identifiers.RevocationRegistryId {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return v.Id
	default:
		return ""
	}
}

// CredDefID returns the credential definition the registry revokes against
func (d RevocationRegistryDefinition) CredDefID() identifiers.CredentialDefinitionId {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return v.CredDefId
	default:
		return ""
	}
}

// Tag returns the registry tag
func (d RevocationRegistryDefinition) Tag() string {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return v.Tag
	default:
		return ""
	}
}

// RevocDefType returns the accumulator type
func (d RevocationRegistryDefinition) RevocDefType() RegistryType {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return v.RevocDefType
	default:
		return ""
	}
}

// Value returns the issuance and key configuration
func (d RevocationRegistryDefinition) Value() RevocationRegistryDefinitionValue {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return v.Value
	default:
		return RevocationRegistryDefinitionValue{}
	}
}

// ToUnqualified returns a new definition whose id and credDefId are in the
// legacy unqualified form. All other fields are carried over untouched.
func (d RevocationRegistryDefinition) ToUnqualified() RevocationRegistryDefinition {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return NewRevocationRegistryDefinition(RevocationRegistryDefinitionV1{
			Id:           v.Id.ToUnqualified(),
			RevocDefType: v.RevocDefType,
			Tag:          v.Tag,
			CredDefId:    v.CredDefId.ToUnqualified(),
			Value:        v.Value,
		})
	default:
		return d
	}
}

// Validate checks the registry id format only. Credential definition
// resolution, key material and tails files need external lookups.
func (d RevocationRegistryDefinition) Validate() error {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return v.Id.Validate()
	default:
		return anonerrors.Invalid("%s validation failed: missing version variant", kindRevocationRegistryDefinition)
	}
}

func (d RevocationRegistryDefinition) MarshalJSON() ([]byte, error) {
	switch v := d.variant.(type) {
	case RevocationRegistryDefinitionV1:
		return marshalTagged(Version1, v)
	default:
		return nil, errEmptyEnvelope(kindRevocationRegistryDefinition)
	}
}

func (d *RevocationRegistryDefinition) UnmarshalJSON(data []byte) error {
	_, err := readEnvelope(kindRevocationRegistryDefinition, data, "id", "revocDefType", "tag", "credDefId", "value")
	if err != nil {
		return err
	}
	var v1 RevocationRegistryDefinitionV1
	if err := decodePayload(kindRevocationRegistryDefinition, data, &v1); err != nil {
		return err
	}
	d.variant = v1
	return nil
}

// DecodeRevocationRegistryDefinition decodes a versioned registry definition
func DecodeRevocationRegistryDefinition(data []byte) (RevocationRegistryDefinition, error) {
	var d RevocationRegistryDefinition
	if err := decodePayload(kindRevocationRegistryDefinition, data, &d); err != nil {
		return RevocationRegistryDefinition{}, err
	}
	return d, nil
}

// RevocationRegistryDefinitionPrivate is the private key paired with a
// definition. It has no version tag and must stay off public channels.
type RevocationRegistryDefinitionPrivate struct {
	Value CryptoValue `json:"value"`
}

func (p *RevocationRegistryDefinitionPrivate) UnmarshalJSON(data []byte) error {
	if err := requireObjectFields("RevocationRegistryDefinitionPrivate", data, "value"); err != nil {
		return err
	}
	type plain RevocationRegistryDefinitionPrivate
	return json.Unmarshal(data, (*plain)(p))
}
