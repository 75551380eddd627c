// Package anoncreds wires the revocation registry components together:
// storage, the ledger registry router, the issuer service and metrics.
package anoncreds

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajna-inc/revreg/pkg/anoncreds/issuer"
	"github.com/ajna-inc/revreg/pkg/anoncreds/metrics"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry"
	"github.com/ajna-inc/revreg/pkg/anoncreds/resolve"
	"github.com/ajna-inc/revreg/pkg/core/events"
	"github.com/ajna-inc/revreg/pkg/core/logger"
	"github.com/ajna-inc/revreg/pkg/core/storage"
	"github.com/ajna-inc/revreg/pkg/core/storage/postgres"
)

// ModuleOption customizes NewModule
type ModuleOption func(*moduleOptions)

type moduleOptions struct {
	registries []registry.Registry
	registerer prometheus.Registerer
	logger     logger.Logger
	storage    storage.StorageService
}

// WithRegistry adds a ledger registry to the router, in routing order
func WithRegistry(r registry.Registry) ModuleOption {
	return func(o *moduleOptions) { o.registries = append(o.registries, r) }
}

// WithPrometheusRegisterer registers module metrics on reg instead of the default registerer
func WithPrometheusRegisterer(reg prometheus.Registerer) ModuleOption {
	return func(o *moduleOptions) { o.registerer = reg }
}

// WithLogger overrides the logger built from the config
func WithLogger(l logger.Logger) ModuleOption {
	return func(o *moduleOptions) { o.logger = l }
}

// WithStorage overrides the storage backend named in the config
func WithStorage(s storage.StorageService) ModuleOption {
	return func(o *moduleOptions) { o.storage = s }
}

// Module holds the wired components
type Module struct {
	Config     ModuleConfig
	Logger     logger.Logger
	Storage    storage.StorageService
	Registries *registry.Service
	Resolver   *resolve.RegistryResolver
	Issuer     *issuer.Service
	Events     *events.SimpleBus
	Metrics    *metrics.Metrics

	close func() error
}

// NewModule builds a Module. The crypto provider is the accumulator library
// binding; everything else comes from cfg and opts.
func NewModule(ctx context.Context, cfg ModuleConfig, provider issuer.CryptoProvider, opts ...ModuleOption) (*Module, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid module config: %w", err)
	}

	o := &moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	log := o.logger
	if log == nil {
		log = logger.New(logger.Options{Level: logger.ParseLogLevel(cfg.LogLevel), Format: cfg.LogFormat})
	}

	m := &Module{Config: cfg, Logger: log, close: func() error { return nil }}

	switch {
	case o.storage != nil:
		m.Storage = o.storage
	case cfg.Storage.Type == StoragePostgres:
		dsn, err := cfg.Storage.Postgres.ConnectionString()
		if err != nil {
			return nil, err
		}
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		m.Storage = store
		m.close = store.Close
	default:
		m.Storage = storage.NewMemoryStorageService()
	}

	m.Registries = registry.NewService(log)
	for _, r := range o.registries {
		m.Registries.Register(r)
	}
	m.Resolver = resolve.NewRegistryResolver(m.Registries)
	m.Metrics = metrics.New(o.registerer)
	m.Events = events.NewSimpleBus()

	var ledger registry.Registry
	if len(o.registries) > 0 {
		ledger = m.Registries
	}
	svc, err := issuer.NewService(issuer.Options{
		Storage:  m.Storage,
		Provider: provider,
		Registry: ledger,
		Events:   m.Events,
		Metrics:  m.Metrics,
		Logger:   log,
		Defaults: issuer.Defaults{
			IssuanceType: cfg.Revocation.IssuanceType,
			MaxCredNum:   cfg.Revocation.MaxCredNum,
			TailsDirPath: cfg.Revocation.TailsDirPath,
		},
	})
	if err != nil {
		_ = m.close()
		return nil, err
	}
	m.Issuer = svc

	log.WithFields(map[string]interface{}{
		"storage":    cfg.Storage.Type,
		"registries": len(o.registries),
	}).Info("revocation registry module initialized")
	return m, nil
}

// Close releases the storage backend
func (m *Module) Close() error {
	return m.close()
}
