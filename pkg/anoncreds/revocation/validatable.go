// Package revocation holds the versioned revocation registry records: the
// accumulator state and its deltas, the public registry definition with its
// private counterpart, and the config an issuer submits to create one.
package revocation

// Validatable is implemented by every record with structural checks,
// including those whose checks are currently empty.
type Validatable interface {
	Validate() error
}

var (
	_ Validatable = RevocationRegistryConfig{}
	_ Validatable = RevocationRegistryDefinition{}
	_ Validatable = RevocationRegistryDelta{}
)

// ValidateAll runs each validation in order and returns the first failure
func ValidateAll(items ...Validatable) error {
	for _, item := range items {
		if item == nil {
			continue
		}
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
