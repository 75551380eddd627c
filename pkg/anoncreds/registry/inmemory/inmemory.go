package inmemory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

// Clock returns the current time
type Clock func() time.Time

// Option configures a MemoryRegistry
type Option func(*MemoryRegistry)

// WithClock sets the clock used to timestamp entries
func WithClock(clock Clock) Option {
	return func(m *MemoryRegistry) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// MemoryRegistry is an in-memory ledger of revocation registries intended for
// development and testing.
type MemoryRegistry struct {
	mu          sync.RWMutex
	defsById    map[string]revocation.RevocationRegistryDefinition
	entriesById map[string][]registry.RevocationRegistryEntry
	rx          *regexp.Regexp
	clock       Clock
}

// NewMemoryRegistry creates a new in-memory registry. Identifiers matching the
// provided regex are handled by this registry; nil defaults to the "mem" method.
func NewMemoryRegistry(rx *regexp.Regexp, opts ...Option) *MemoryRegistry {
	if rx == nil {
		rx = regexp.MustCompile(`^(revreg:mem:|did:mem:)`)
	}
	m := &MemoryRegistry{
		defsById:    make(map[string]revocation.RevocationRegistryDefinition),
		entriesById: make(map[string][]registry.RevocationRegistryEntry),
		rx:          rx,
		clock:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *MemoryRegistry) MethodName() string                  { return "memory" }
func (m *MemoryRegistry) SupportedIdentifier() *regexp.Regexp { return m.rx }

func (m *MemoryRegistry) GetRevocationRegistryDefinition(ctx context.Context, revRegDefId string) (revocation.RevocationRegistryDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.defsById[revRegDefId]
	if !ok {
		return revocation.RevocationRegistryDefinition{}, fmt.Errorf("revocation registry definition not found: %s", revRegDefId)
	}
	return def, nil
}

func (m *MemoryRegistry) GetRevocationRegistry(ctx context.Context, revRegDefId string, timestamp int64) (revocation.RevocationRegistry, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.entriesById[revRegDefId]
	for i := len(entries) - 1; i >= 0; i-- {
		if timestamp == 0 || entries[i].Timestamp <= timestamp {
			return entries[i].RevocationRegistry, entries[i].Timestamp, nil
		}
	}
	return revocation.RevocationRegistry{}, 0, fmt.Errorf("no revocation registry entry for %s at %d", revRegDefId, timestamp)
}

func (m *MemoryRegistry) GetRevocationRegistryDelta(ctx context.Context, revRegDefId string, from, to int64) ([]registry.RevocationRegistryEntry, error) {
	if to != 0 && to < from {
		return nil, anonerrors.Invalid("invalid delta interval: from %d is after to %d", from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.defsById[revRegDefId]; !ok {
		return nil, fmt.Errorf("revocation registry definition not found: %s", revRegDefId)
	}
	var out []registry.RevocationRegistryEntry
	for _, entry := range m.entriesById[revRegDefId] {
		if entry.Timestamp <= from {
			continue
		}
		if to != 0 && entry.Timestamp > to {
			break
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *MemoryRegistry) RegisterRevocationRegistryDefinition(ctx context.Context, opts registry.RegisterRevocationRegistryDefinitionOptions) (registry.RegisterRevocationRegistryDefinitionResult, error) {
	def := opts.RevocationRegistryDefinition
	id := def.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.defsById[id.String()]; exists {
		return registry.RegisterRevocationRegistryDefinitionResult{
			State:                          registry.StateFailed,
			RevocationRegistryDefinition:   def,
			RevocationRegistryDefinitionId: id,
			Reason:                         anonerrors.Duplicate("RevocationRegistryDefinition", id.String(), nil).Error(),
		}, nil
	}
	m.defsById[id.String()] = def
	return registry.RegisterRevocationRegistryDefinitionResult{
		State:                          registry.StateFinished,
		RevocationRegistryDefinition:   def,
		RevocationRegistryDefinitionId: id,
	}, nil
}

// RegisterRevocationRegistryEntry appends an entry. Timestamps are strictly
// increasing per registry; a clock that does not advance is bumped by one second.
func (m *MemoryRegistry) RegisterRevocationRegistryEntry(ctx context.Context, opts registry.RegisterRevocationRegistryEntryOptions) (registry.RegisterRevocationRegistryEntryResult, error) {
	id := opts.RevocationRegistryDefinitionId.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.defsById[id]; !ok {
		return registry.RegisterRevocationRegistryEntryResult{
			State:  registry.StateFailed,
			Reason: fmt.Sprintf("revocation registry definition not found: %s", id),
		}, nil
	}

	entries := m.entriesById[id]
	ts := m.clock().Unix()
	if n := len(entries); n > 0 && ts <= entries[n-1].Timestamp {
		ts = entries[n-1].Timestamp + 1
	}
	m.entriesById[id] = append(entries, registry.RevocationRegistryEntry{
		Timestamp:          ts,
		RevocationRegistry: opts.RevocationRegistry,
		Delta:              opts.Delta,
	})
	return registry.RegisterRevocationRegistryEntryResult{State: registry.StateFinished, Timestamp: ts}, nil
}

// RevocationRegistryDefinitionIds lists the registered definitions, sorted
func (m *MemoryRegistry) RevocationRegistryDefinitionIds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.defsById))
	for id := range m.defsById {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
