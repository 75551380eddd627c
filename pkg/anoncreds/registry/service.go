package registry

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/logger"
)

// Service routes registry calls to the first registered Registry whose
// SupportedIdentifier matches the provided identifier.
type Service struct {
	mu         sync.RWMutex
	registries []Registry
	log        logger.Logger
}

var _ Registry = (*Service)(nil)

// NewService creates a new registry router.
func NewService(log logger.Logger) *Service {
	return &Service{registries: make([]Registry, 0, 4), log: logger.OrDefault(log)}
}

// Register adds a registry implementation to the router.
func (s *Service) Register(r Registry) {
	s.mu.Lock()
	s.registries = append(s.registries, r)
	count := len(s.registries)
	s.mu.Unlock()
	s.log.WithField("method", r.MethodName()).Debugf("registered registry, total count: %d", count)
}

// GetRegistries returns the registered registries in routing order
func (s *Service) GetRegistries() []Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Registry(nil), s.registries...)
}

func (s *Service) MethodName() string { return "router" }

// SupportedIdentifier is nil; the router delegates matching to its registries.
func (s *Service) SupportedIdentifier() *regexp.Regexp { return nil }

// find returns the first registry that supports the given identifier.
func (s *Service) find(identifier string) (Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var patterns []string
	for _, r := range s.registries {
		rx := r.SupportedIdentifier()
		if rx == nil {
			continue
		}
		if rx.MatchString(identifier) {
			return r, nil
		}
		patterns = append(patterns, rx.String())
	}
	return nil, fmt.Errorf("no anoncreds registry found for identifier: %s (available patterns: %v)", identifier, patterns)
}

func (s *Service) GetRevocationRegistryDefinition(ctx context.Context, revRegDefId string) (revocation.RevocationRegistryDefinition, error) {
	r, err := s.find(revRegDefId)
	if err != nil {
		return revocation.RevocationRegistryDefinition{}, err
	}
	return r.GetRevocationRegistryDefinition(ctx, revRegDefId)
}

func (s *Service) GetRevocationRegistry(ctx context.Context, revRegDefId string, timestamp int64) (revocation.RevocationRegistry, int64, error) {
	r, err := s.find(revRegDefId)
	if err != nil {
		return revocation.RevocationRegistry{}, 0, err
	}
	return r.GetRevocationRegistry(ctx, revRegDefId, timestamp)
}

func (s *Service) GetRevocationRegistryDelta(ctx context.Context, revRegDefId string, from, to int64) ([]RevocationRegistryEntry, error) {
	if to != 0 && to < from {
		return nil, anonerrors.Invalid("invalid delta interval: from %d is after to %d", from, to)
	}
	r, err := s.find(revRegDefId)
	if err != nil {
		return nil, err
	}
	return r.GetRevocationRegistryDelta(ctx, revRegDefId, from, to)
}

// RegisterRevocationRegistryDefinition validates the definition and routes it
// by its registry id. Routing and validation failures come back as a failed
// result rather than an error.
func (s *Service) RegisterRevocationRegistryDefinition(ctx context.Context, opts RegisterRevocationRegistryDefinitionOptions) (RegisterRevocationRegistryDefinitionResult, error) {
	def := opts.RevocationRegistryDefinition
	failed := func(reason string) RegisterRevocationRegistryDefinitionResult {
		return RegisterRevocationRegistryDefinitionResult{
			State:                          StateFailed,
			RevocationRegistryDefinition:   def,
			RevocationRegistryDefinitionId: def.ID(),
			Reason:                         reason,
		}
	}

	if err := def.Validate(); err != nil {
		return failed(err.Error()), nil
	}
	r, err := s.find(def.ID().String())
	if err != nil {
		return failed(err.Error()), nil
	}
	return r.RegisterRevocationRegistryDefinition(ctx, opts)
}

func (s *Service) RegisterRevocationRegistryEntry(ctx context.Context, opts RegisterRevocationRegistryEntryOptions) (RegisterRevocationRegistryEntryResult, error) {
	if err := opts.Delta.Validate(); err != nil {
		return RegisterRevocationRegistryEntryResult{State: StateFailed, Reason: err.Error()}, nil
	}
	r, err := s.find(opts.RevocationRegistryDefinitionId.String())
	if err != nil {
		return RegisterRevocationRegistryEntryResult{State: StateFailed, Reason: err.Error()}, nil
	}
	return r.RegisterRevocationRegistryEntry(ctx, opts)
}
