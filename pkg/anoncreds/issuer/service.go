// Package issuer creates revocation registries and applies deltas to them,
// keeping the stored records and an optional ledger registry in sync.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/metrics"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry"
	"github.com/ajna-inc/revreg/pkg/anoncreds/repository"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/events"
	"github.com/ajna-inc/revreg/pkg/core/logger"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// Defaults fill the fields a RevocationRegistryConfig leaves absent
type Defaults struct {
	IssuanceType revocation.IssuanceType
	MaxCredNum   uint32
	TailsDirPath string
}

// Options configures a Service. Registry, Events, Metrics and Logger are optional.
type Options struct {
	Storage  storage.StorageService
	Provider CryptoProvider
	Registry registry.Registry
	Events   events.Bus
	Metrics  *metrics.Metrics
	Logger   logger.Logger
	Defaults Defaults
}

// Service runs the issuer side of the revocation registry lifecycle
type Service struct {
	provider CryptoProvider
	registry registry.Registry
	events   events.Bus
	metrics  *metrics.Metrics
	log      logger.Logger
	defaults Defaults

	definitions *repository.RevocationRegistryDefinitionRepository
	privates    *repository.RevocationRegistryDefinitionPrivateRepository
	states      *repository.RevocationRegistryRepository
	deltas      *repository.RevocationRegistryDeltaRepository

	// serializes delta application so sequences stay gapless
	mu sync.Mutex

	// registry ids with a create in flight
	pendingMu sync.Mutex
	pending   map[string]struct{}
}

// NewService creates an issuer service
func NewService(opts Options) (*Service, error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("issuer: storage service is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("issuer: crypto provider is required")
	}
	if opts.Defaults.IssuanceType == "" {
		opts.Defaults.IssuanceType = revocation.IssuanceByDefault
	}
	if opts.Defaults.MaxCredNum == 0 {
		return nil, fmt.Errorf("issuer: default maxCredNum must be greater than 0")
	}
	return &Service{
		provider:    opts.Provider,
		registry:    opts.Registry,
		events:      opts.Events,
		metrics:     opts.Metrics,
		log:         logger.OrDefault(opts.Logger),
		defaults:    opts.Defaults,
		definitions: repository.NewRevocationRegistryDefinitionRepository(opts.Storage),
		privates:    repository.NewRevocationRegistryDefinitionPrivateRepository(opts.Storage),
		states:      repository.NewRevocationRegistryRepository(opts.Storage),
		deltas:      repository.NewRevocationRegistryDeltaRepository(opts.Storage),
		pending:     make(map[string]struct{}),
	}, nil
}

// CreateOptions requests a new registry for a credential definition
type CreateOptions struct {
	IssuerDid              identifiers.DidValue
	CredentialDefinitionId identifiers.CredentialDefinitionId
	Tag                    string
	Config                 revocation.RevocationRegistryConfig
	MethodName             string
}

// CreateResult is a created, persisted and optionally published registry
type CreateResult struct {
	Definition revocation.RevocationRegistryDefinition
	Registry   revocation.RevocationRegistry
	RecordId   string
	Timestamp  int64
}

// CreateRevocationRegistry validates the request, generates the registry with
// the crypto provider and persists the definition, its private part and the
// initial accumulator. Invalid configs never reach the provider. A create that
// fails after the first record is saved removes what it saved, so the same
// registry can be created again.
func (s *Service) CreateRevocationRegistry(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	start := time.Now()
	log := s.log.WithFields(map[string]interface{}{
		"credentialDefinitionId": opts.CredentialDefinitionId.String(),
		"tag":                    opts.Tag,
	})

	if err := opts.Config.Validate(); err != nil {
		s.metrics.IncrementRejection(metrics.ReasonInvalidConfig)
		log.WithError(err).Warn("rejected revocation registry config")
		return nil, err
	}
	cfg := opts.Config.WithDefaults(s.defaults.IssuanceType, s.defaults.MaxCredNum)

	id, err := s.buildId(opts)
	if err != nil {
		s.metrics.IncrementRejection(metrics.ReasonInvalidDefinition)
		log.WithError(err).Warn("rejected revocation registry identifiers")
		return nil, err
	}
	log = log.WithField("revocationRegistryDefinitionId", id.String())

	if !s.reserve(id.String()) {
		s.metrics.IncrementRejection(metrics.ReasonDuplicate)
		return nil, anonerrors.Duplicate(repository.RevocationRegistryDefinitionRecordType, id.String(), nil)
	}
	defer s.release(id.String())

	existing, err := s.definitions.FindByRevocationRegistryDefinitionId(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("look up revocation registry %s: %w", id, err)
	}
	if existing != nil {
		s.metrics.IncrementRejection(metrics.ReasonDuplicate)
		return nil, anonerrors.Duplicate(repository.RevocationRegistryDefinitionRecordType, id.String(), nil)
	}

	created, err := s.provider.CreateRevocationRegistry(ctx, CreateRevocationRegistryRequest{
		IssuerDid:              opts.IssuerDid,
		CredentialDefinitionId: opts.CredentialDefinitionId,
		RevocationRegistryId:   id,
		Tag:                    opts.Tag,
		IssuanceType:           *cfg.IssuanceType,
		MaxCredNum:             *cfg.MaxCredNum,
		TailsDirPath:           s.defaults.TailsDirPath,
	})
	if err != nil {
		s.metrics.IncrementRejection(metrics.ReasonProvider)
		log.WithError(err).Error("crypto provider failed to create revocation registry")
		return nil, fmt.Errorf("create revocation registry %s: %w", id, err)
	}
	if created == nil {
		s.metrics.IncrementRejection(metrics.ReasonProvider)
		return nil, fmt.Errorf("create revocation registry %s: crypto provider returned nothing", id)
	}
	if created.Value.IssuanceType != *cfg.IssuanceType || created.Value.MaxCredNum != *cfg.MaxCredNum {
		s.metrics.IncrementRejection(metrics.ReasonProvider)
		return nil, fmt.Errorf("crypto provider returned %s/%d for requested %s/%d",
			created.Value.IssuanceType, created.Value.MaxCredNum, *cfg.IssuanceType, *cfg.MaxCredNum)
	}

	definition := revocation.NewRevocationRegistryDefinition(revocation.RevocationRegistryDefinitionV1{
		Id:           id,
		RevocDefType: revocation.RegistryTypeCLAccum,
		Tag:          opts.Tag,
		CredDefId:    opts.CredentialDefinitionId,
		Value:        created.Value,
	})
	if err := definition.Validate(); err != nil {
		s.metrics.IncrementRejection(metrics.ReasonInvalidDefinition)
		return nil, err
	}

	var undo []func(context.Context) error
	fail := func(reason string, err error) (*CreateResult, error) {
		s.metrics.IncrementRejection(reason)
		s.rollback(ctx, log, undo)
		return nil, err
	}

	defRecord := repository.NewRevocationRegistryDefinitionRecord(definition, opts.MethodName)
	if err := s.definitions.Save(ctx, defRecord); err != nil {
		if errors.Is(err, anonerrors.ErrRecordDuplicate) {
			return fail(metrics.ReasonDuplicate, err)
		}
		return fail(metrics.ReasonStorage, fmt.Errorf("save revocation registry definition %s: %w", id, err))
	}
	undo = append(undo, func(ctx context.Context) error { return s.definitions.Delete(ctx, defRecord) })

	privRecord := repository.NewRevocationRegistryDefinitionPrivateRecord(id, created.Private)
	if err := s.privates.Save(ctx, privRecord); err != nil {
		return fail(metrics.ReasonStorage, fmt.Errorf("save revocation registry private definition %s: %w", id, err))
	}
	undo = append(undo, func(ctx context.Context) error { return s.privates.Delete(ctx, privRecord) })

	stateRecord := repository.NewRevocationRegistryRecord(id, created.Registry)
	if err := s.states.Save(ctx, stateRecord); err != nil {
		return fail(metrics.ReasonStorage, fmt.Errorf("save revocation registry %s: %w", id, err))
	}
	undo = append(undo, func(ctx context.Context) error { return s.states.Delete(ctx, stateRecord) })

	result := &CreateResult{
		Definition: definition,
		Registry:   created.Registry,
		RecordId:   defRecord.GetId(),
	}

	if s.registry != nil {
		ts, err := s.publish(ctx, definition, created.Registry)
		if err != nil {
			log.WithError(err).Error("failed to publish revocation registry")
			return fail(metrics.ReasonLedger, err)
		}
		// the ledger now holds the registry; local failures from here on are
		// reported without removing the records it refers to
		privRecord.SetState(repository.RevocationRegistryStateActive)
		if err := s.privates.Update(ctx, privRecord); err != nil {
			return nil, fmt.Errorf("activate revocation registry %s: %w", id, err)
		}
		s.emit(events.RevocationRegistryPublished, id.String(), RevocationRegistryPublishedEvent{Definition: definition, Timestamp: ts})
		s.emit(events.RevocationRegistryStateChanged, id.String(), RevocationRegistryStateChangedEvent{
			PreviousState: repository.RevocationRegistryStateCreated,
			State:         repository.RevocationRegistryStateActive,
		})
		stateRecord.Timestamp = ts
		if err := s.states.Update(ctx, stateRecord); err != nil {
			return nil, fmt.Errorf("update revocation registry %s: %w", id, err)
		}
		result.Timestamp = ts
	}

	s.metrics.IncrementRegistriesCreated()
	s.metrics.ObserveCreateRegistry(start)
	log.WithFields(map[string]interface{}{
		"issuanceType": cfg.IssuanceType.String(),
		"maxCredNum":   *cfg.MaxCredNum,
	}).Info("created revocation registry")
	s.emit(events.RevocationRegistryCreated, id.String(), RevocationRegistryCreatedEvent{Definition: definition, RecordId: result.RecordId})

	return result, nil
}

func (s *Service) reserve(id string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if _, busy := s.pending[id]; busy {
		return false
	}
	s.pending[id] = struct{}{}
	return true
}

func (s *Service) release(id string) {
	s.pendingMu.Lock()
	delete(s.pending, id)
	s.pendingMu.Unlock()
}

// rollback runs undo steps newest first. It runs even when ctx is cancelled.
func (s *Service) rollback(ctx context.Context, log logger.Logger, undo []func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i](ctx); err != nil {
			log.WithError(err).Error("failed to roll back revocation registry records")
		}
	}
}

func (s *Service) buildId(opts CreateOptions) (identifiers.RevocationRegistryId, error) {
	if err := opts.IssuerDid.Validate(); err != nil {
		return "", err
	}
	if err := opts.CredentialDefinitionId.Validate(); err != nil {
		return "", err
	}
	if opts.Tag == "" || strings.Contains(opts.Tag, ":") {
		return "", anonerrors.Invalid("Revocation Registry tag must be non-empty and must not contain ':', got %q", opts.Tag)
	}
	id := identifiers.NewRevocationRegistryId(opts.IssuerDid, opts.CredentialDefinitionId, revocation.RegistryTypeCLAccum.ToStr(), opts.Tag)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// publish registers the definition and its first entry. The first entry's
// delta carries the initial accumulator.
func (s *Service) publish(ctx context.Context, definition revocation.RevocationRegistryDefinition, initial revocation.RevocationRegistry) (int64, error) {
	defResult, err := s.registry.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{
		RevocationRegistryDefinition: definition,
	})
	if err != nil {
		return 0, fmt.Errorf("register revocation registry definition: %w", err)
	}
	if defResult.State != registry.StateFinished {
		return 0, fmt.Errorf("register revocation registry definition failed: %s", defResult.Reason)
	}

	entry, err := s.registry.RegisterRevocationRegistryEntry(ctx, registry.RegisterRevocationRegistryEntryOptions{
		RevocationRegistryDefinitionId: definition.ID(),
		RevocationRegistry:             initial,
		Delta:                          revocation.NewRevocationRegistryDelta(revocation.RevocationRegistryDeltaV1{Value: initial.Value()}),
	})
	if err != nil {
		return 0, fmt.Errorf("register revocation registry entry: %w", err)
	}
	if entry.State != registry.StateFinished {
		return 0, fmt.Errorf("register revocation registry entry failed: %s", entry.Reason)
	}
	return entry.Timestamp, nil
}

// ApplyDeltaResult is the outcome of ApplyDelta
type ApplyDeltaResult struct {
	Registry  revocation.RevocationRegistry
	Delta     revocation.RevocationRegistryDelta
	Sequence  uint64
	Timestamp int64
}

// ApplyDelta marks credential indices issued or revoked. Indices are 1-based
// and must not exceed the registry's maxCredNum; an index may not appear in
// both lists, and a revoked index cannot be revoked again.
func (s *Service) ApplyDelta(ctx context.Context, revRegDefId string, issued, revoked []uint32) (*ApplyDeltaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defRecord, err := s.definitions.GetByRevocationRegistryDefinitionId(ctx, revRegDefId)
	if err != nil {
		return nil, fmt.Errorf("load revocation registry definition %s: %w", revRegDefId, err)
	}
	definition := defRecord.RevocationRegistryDefinition
	log := s.log.WithField("revocationRegistryDefinitionId", definition.ID().String())

	state, err := s.states.GetByRevocationRegistryDefinitionId(ctx, revRegDefId)
	if err != nil {
		return nil, fmt.Errorf("load revocation registry %s: %w", revRegDefId, err)
	}

	issued, revoked = normalize(issued), normalize(revoked)
	if err := checkIndices(definition.Value().MaxCredNum, state, issued, revoked); err != nil {
		s.metrics.IncrementRejection(metrics.ReasonInvalidIndex)
		log.WithError(err).Warn("rejected registry delta")
		return nil, err
	}

	next, delta, err := s.provider.UpdateRevocationRegistry(ctx, definition, state.RevocationRegistry, issued, revoked)
	if err != nil {
		s.metrics.IncrementRejection(metrics.ReasonProvider)
		return nil, fmt.Errorf("update revocation registry %s: %w", definition.ID(), err)
	}
	if next == nil || delta == nil {
		s.metrics.IncrementRejection(metrics.ReasonProvider)
		return nil, fmt.Errorf("update revocation registry %s: crypto provider returned no state", definition.ID())
	}
	if err := revocation.ValidateAll(*delta); err != nil {
		return nil, err
	}

	// persist locally first; the ledger write is last so a failure anywhere
	// before it leaves neither side changed
	previous := state.Clone().(*repository.RevocationRegistryRecord)
	sequence := state.Sequence + 1
	deltaRecord := repository.NewRevocationRegistryDeltaRecord(definition.ID(), sequence, *delta, issued, revoked)
	if err := s.deltas.Save(ctx, deltaRecord); err != nil {
		s.metrics.IncrementRejection(metrics.ReasonStorage)
		return nil, fmt.Errorf("save revocation registry delta %s#%d: %w", definition.ID(), sequence, err)
	}
	undo := []func(context.Context) error{
		func(ctx context.Context) error { return s.deltas.Delete(ctx, deltaRecord) },
	}

	applyIndices(state, issued, revoked)
	state.RevocationRegistry = *next
	state.Sequence = sequence
	state.Timestamp = deltaRecord.Timestamp
	if err := s.states.Update(ctx, state); err != nil {
		s.metrics.IncrementRejection(metrics.ReasonStorage)
		s.rollback(ctx, log, undo)
		return nil, fmt.Errorf("update revocation registry %s: %w", definition.ID(), err)
	}
	undo = append(undo, func(ctx context.Context) error { return s.states.Update(ctx, previous) })

	if s.registry != nil {
		entry, err := s.registry.RegisterRevocationRegistryEntry(ctx, registry.RegisterRevocationRegistryEntryOptions{
			RevocationRegistryDefinitionId: definition.ID(),
			RevocationRegistry:             *next,
			Delta:                          *delta,
		})
		if err == nil && entry.State != registry.StateFinished {
			err = fmt.Errorf("ledger refused entry: %s", entry.Reason)
		}
		if err != nil {
			s.metrics.IncrementRejection(metrics.ReasonLedger)
			s.rollback(ctx, log, undo)
			log.WithError(err).Error("failed to publish registry delta")
			return nil, fmt.Errorf("register revocation registry entry %s#%d: %w", definition.ID(), sequence, err)
		}

		// the entry is on the ledger; timestamp sync failures are logged, not
		// returned, so a caller does not apply the same delta twice
		deltaRecord.Timestamp = entry.Timestamp
		state.Timestamp = entry.Timestamp
		if err := s.deltas.Update(ctx, deltaRecord); err != nil {
			log.WithError(err).Error("failed to store ledger timestamp of registry delta")
		}
		if err := s.states.Update(ctx, state); err != nil {
			log.WithError(err).Error("failed to store ledger timestamp of revocation registry")
		}
	}

	if err := s.markFullIfExhausted(ctx, revRegDefId, definition, state); err != nil {
		log.WithError(err).Error("failed to update revocation registry state")
	}

	s.metrics.RecordDelta(len(issued), len(revoked))
	log.WithFields(map[string]interface{}{
		"sequence": sequence,
		"issued":   len(issued),
		"revoked":  len(revoked),
	}).Info("applied registry delta")
	s.emit(events.RevocationRegistryDeltaApplied, definition.ID().String(), RevocationRegistryDeltaAppliedEvent{
		Sequence:  sequence,
		Issued:    issued,
		Revoked:   revoked,
		Timestamp: deltaRecord.Timestamp,
	})

	return &ApplyDeltaResult{Registry: *next, Delta: *delta, Sequence: sequence, Timestamp: deltaRecord.Timestamp}, nil
}

func (s *Service) markFullIfExhausted(ctx context.Context, revRegDefId string, definition revocation.RevocationRegistryDefinition, state *repository.RevocationRegistryRecord) error {
	value := definition.Value()
	if value.IssuanceType != revocation.IssuanceOnDemand || uint32(len(state.Issued)+len(state.Revoked)) < value.MaxCredNum {
		return nil
	}
	priv, err := s.privates.GetByRevocationRegistryDefinitionId(ctx, revRegDefId)
	if err != nil {
		return fmt.Errorf("load revocation registry private definition %s: %w", revRegDefId, err)
	}
	if priv.State == repository.RevocationRegistryStateFull {
		return nil
	}
	previous := priv.State
	priv.SetState(repository.RevocationRegistryStateFull)
	if err := s.privates.Update(ctx, priv); err != nil {
		return fmt.Errorf("mark revocation registry %s full: %w", revRegDefId, err)
	}
	s.log.WithField("revocationRegistryDefinitionId", definition.ID().String()).Info("revocation registry is full")
	s.emit(events.RevocationRegistryStateChanged, definition.ID().String(), RevocationRegistryStateChangedEvent{
		PreviousState: previous,
		State:         repository.RevocationRegistryStateFull,
	})
	return nil
}

// RevocationRegistryDeltas returns the stored delta log with from < sequence <= to
func (s *Service) RevocationRegistryDeltas(ctx context.Context, revRegDefId string, from, to uint64) ([]*repository.RevocationRegistryDeltaRecord, error) {
	return s.deltas.FindInRange(ctx, revRegDefId, from, to)
}

func (s *Service) emit(name, revRegDefId string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.PublishWithMetadata(name, payload, events.EventMetadata{RevocationRegistryDefinitionId: revRegDefId})
}

func normalize(indices []uint32) []uint32 {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}

func checkIndices(maxCredNum uint32, state *repository.RevocationRegistryRecord, issued, revoked []uint32) error {
	if len(issued) == 0 && len(revoked) == 0 {
		return anonerrors.Invalid("Revocation Registry delta must issue or revoke at least one index")
	}
	for _, list := range [][]uint32{issued, revoked} {
		for _, idx := range list {
			if idx == 0 || idx > maxCredNum {
				return anonerrors.Invalid("Revocation Registry index %d out of range 1..%d", idx, maxCredNum)
			}
		}
	}
	for _, idx := range revoked {
		if _, found := slices.BinarySearch(issued, idx); found {
			return anonerrors.Invalid("Revocation Registry index %d is both issued and revoked", idx)
		}
		if slices.Contains(state.Revoked, idx) {
			return anonerrors.Invalid("Revocation Registry index %d is already revoked", idx)
		}
	}
	return nil
}

func applyIndices(state *repository.RevocationRegistryRecord, issued, revoked []uint32) {
	for _, idx := range issued {
		state.Revoked = slices.DeleteFunc(state.Revoked, func(v uint32) bool { return v == idx })
		if !slices.Contains(state.Issued, idx) {
			state.Issued = append(state.Issued, idx)
		}
	}
	for _, idx := range revoked {
		state.Issued = slices.DeleteFunc(state.Issued, func(v uint32) bool { return v == idx })
		state.Revoked = append(state.Revoked, idx)
	}
	slices.Sort(state.Issued)
	slices.Sort(state.Revoked)
}
