package revocation

import (
	"encoding/json"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
)

// ErrMaxCredNumZero is the message returned for a zero-capacity config
const ErrMaxCredNumZero = "RevocationRegistryConfig validation failed: `max_cred_num` must be greater than 0"

// RevocationRegistryConfig is an issuer's request to create a registry.
// Absent fields are filled from module defaults by the caller.
type RevocationRegistryConfig struct {
	IssuanceType *IssuanceType `json:"issuance_type"`
	MaxCredNum   *uint32       `json:"max_cred_num"`
}

// Validate rejects a present max_cred_num of zero. Nothing else is checked.
func (c RevocationRegistryConfig) Validate() error {
	if c.MaxCredNum != nil && *c.MaxCredNum == 0 {
		return anonerrors.Invalid(ErrMaxCredNumZero)
	}
	return nil
}

// WithDefaults returns a copy with absent fields set to the given defaults
func (c RevocationRegistryConfig) WithDefaults(issuanceType IssuanceType, maxCredNum uint32) RevocationRegistryConfig {
	out := RevocationRegistryConfig{IssuanceType: c.IssuanceType, MaxCredNum: c.MaxCredNum}
	if out.IssuanceType == nil {
		out.IssuanceType = &issuanceType
	}
	if out.MaxCredNum == nil {
		out.MaxCredNum = &maxCredNum
	}
	return out
}

// DecodeRevocationRegistryConfig decodes and validates a config
func DecodeRevocationRegistryConfig(data []byte) (RevocationRegistryConfig, error) {
	var c RevocationRegistryConfig
	if err := json.Unmarshal(data, &c); err != nil {
		if anonerrors.IsDecodeError(err) {
			return RevocationRegistryConfig{}, err
		}
		return RevocationRegistryConfig{}, anonerrors.NewDecodeError("RevocationRegistryConfig", "invalid payload", err)
	}
	if err := c.Validate(); err != nil {
		return RevocationRegistryConfig{}, err
	}
	return c, nil
}
