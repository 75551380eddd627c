package revocation

const (
	kindRevocationRegistry      = "RevocationRegistry"
	kindRevocationRegistryDelta = "RevocationRegistryDelta"
)

// RevocationRegistryVariant is the closed set of RevocationRegistry versions
type RevocationRegistryVariant interface {
	revocationRegistryVersion() string
}

// RevocationRegistryV1 is the "1.0" accumulator state
type RevocationRegistryV1 struct {
	Value CryptoValue `json:"value"`
}

func (RevocationRegistryV1) revocationRegistryVersion() string { return Version1 }

// RevocationRegistry is the current accumulator state of a registry. It is
// never mutated: applying a delta yields a new RevocationRegistry.
type RevocationRegistry struct {
	variant RevocationRegistryVariant
}

// NewRevocationRegistry wraps a V1 state in its envelope
func NewRevocationRegistry(v1 RevocationRegistryV1) RevocationRegistry {
	return RevocationRegistry{variant: v1}
}

// Version returns the envelope tag, or "" for the zero value
func (r RevocationRegistry) Version() string {
	if r.variant == nil {
		return ""
	}
	return r.variant.revocationRegistryVersion()
}

// Variant returns the wrapped version variant
func (r RevocationRegistry) Variant() RevocationRegistryVariant { return r.variant }

// V1 returns the "1.0" variant
func (r RevocationRegistry) V1() (RevocationRegistryV1, bool) {
	v, ok := r.variant.(RevocationRegistryV1)
	return v, ok
}

// Value returns the accumulator blob of whichever variant is wrapped
func (r RevocationRegistry) Value() CryptoValue {
	switch v := r.variant.(type) {
	case RevocationRegistryV1:
		return v.Value
	default:
		return CryptoValue{}
	}
}

func (r RevocationRegistry) MarshalJSON() ([]byte, error) {
	switch v := r.variant.(type) {
	case RevocationRegistryV1:
		return marshalTagged(Version1, v)
	default:
		return nil, errEmptyEnvelope(kindRevocationRegistry)
	}
}

func (r *RevocationRegistry) UnmarshalJSON(data []byte) error {
	if _, err := readEnvelope(kindRevocationRegistry, data, "value"); err != nil {
		return err
	}
	var v1 RevocationRegistryV1
	if err := decodePayload(kindRevocationRegistry, data, &v1); err != nil {
		return err
	}
	r.variant = v1
	return nil
}

// RevocationRegistryDeltaVariant is the closed set of RevocationRegistryDelta versions
type RevocationRegistryDeltaVariant interface {
	revocationRegistryDeltaVersion() string
}

// RevocationRegistryDeltaV1 is the "1.0" accumulator delta
type RevocationRegistryDeltaV1 struct {
	Value CryptoValue `json:"value"`
}

func (RevocationRegistryDeltaV1) revocationRegistryDeltaVersion() string { return Version1 }

// RevocationRegistryDelta is an incremental change to a registry accumulator
type RevocationRegistryDelta struct {
	variant RevocationRegistryDeltaVariant
}

// NewRevocationRegistryDelta wraps a V1 delta in its envelope
func NewRevocationRegistryDelta(v1 RevocationRegistryDeltaV1) RevocationRegistryDelta {
	return RevocationRegistryDelta{variant: v1}
}

// Version returns the envelope tag, or "" for the zero value
func (d RevocationRegistryDelta) Version() string {
	if d.variant == nil {
		return ""
	}
	return d.variant.revocationRegistryDeltaVersion()
}

// Variant returns the wrapped version variant
func (d RevocationRegistryDelta) Variant() RevocationRegistryDeltaVariant { return d.variant }

// V1 returns the "1.0" variant
func (d RevocationRegistryDelta) V1() (RevocationRegistryDeltaV1, bool) {
	v, ok := d.variant.(RevocationRegistryDeltaV1)
	return v, ok
}

// Value returns the delta blob of whichever variant is wrapped
func (d RevocationRegistryDelta) Value() CryptoValue {
	switch v := d.variant.(type) {
	case RevocationRegistryDeltaV1:
		return v.Value
	default:
		return CryptoValue{}
	}
}

// Validate accepts every delta. Structural checks (monotonicity,
// applicability to a registry generation) belong here once defined.
func (d RevocationRegistryDelta) Validate() error {
	return nil
}

func (d RevocationRegistryDelta) MarshalJSON() ([]byte, error) {
	switch v := d.variant.(type) {
	case RevocationRegistryDeltaV1:
		return marshalTagged(Version1, v)
	default:
		return nil, errEmptyEnvelope(kindRevocationRegistryDelta)
	}
}

func (d *RevocationRegistryDelta) UnmarshalJSON(data []byte) error {
	if _, err := readEnvelope(kindRevocationRegistryDelta, data, "value"); err != nil {
		return err
	}
	var v1 RevocationRegistryDeltaV1
	if err := decodePayload(kindRevocationRegistryDelta, data, &v1); err != nil {
		return err
	}
	d.variant = v1
	return nil
}

// DecodeRevocationRegistry decodes a versioned registry state
func DecodeRevocationRegistry(data []byte) (RevocationRegistry, error) {
	var r RevocationRegistry
	if err := decodePayload(kindRevocationRegistry, data, &r); err != nil {
		return RevocationRegistry{}, err
	}
	return r, nil
}

// DecodeRevocationRegistryDelta decodes a versioned registry delta
func DecodeRevocationRegistryDelta(data []byte) (RevocationRegistryDelta, error) {
	var d RevocationRegistryDelta
	if err := decodePayload(kindRevocationRegistryDelta, data, &d); err != nil {
		return RevocationRegistryDelta{}, err
	}
	return d, nil
}
