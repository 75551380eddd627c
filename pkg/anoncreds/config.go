package anoncreds

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/logger"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// DefaultMaxCredNum is the registry capacity used when a config omits max_cred_num
const DefaultMaxCredNum uint32 = 1000

// ModuleConfig holds configuration for the revocation registry module
type ModuleConfig struct {
	LogLevel   string             `json:"logLevel,omitempty"`
	LogFormat  string             `json:"logFormat,omitempty"`
	Revocation RevocationDefaults `json:"revocation"`
	Storage    *StorageConfig     `json:"storage,omitempty"`
}

// RevocationDefaults fill the fields a RevocationRegistryConfig leaves absent
type RevocationDefaults struct {
	IssuanceType revocation.IssuanceType `json:"issuanceType,omitempty"`
	MaxCredNum   uint32                  `json:"maxCredNum,omitempty"`
	TailsDirPath string                  `json:"tailsDirPath,omitempty"`
}

// StorageConfig selects the record storage backend
type StorageConfig struct {
	Type     string          `json:"type"` // "memory" or "postgres"
	Postgres *PostgresConfig `json:"postgres,omitempty"`
}

// PostgresConfig represents PostgreSQL-specific configuration
type PostgresConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port,omitempty"`
	User         string `json:"user"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	SSLMode      string `json:"sslMode,omitempty"`
}

// ConnectionString returns a lib/pq connection URL
func (c *PostgresConfig) ConnectionString() (string, error) {
	if c.Host == "" || c.User == "" || c.DatabaseName == "" {
		return "", fmt.Errorf("postgres host, user, and database name are required")
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(port),
		Path:     "/" + c.DatabaseName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String(), nil
}

// SetDefaults sets default values for the configuration
func (c *ModuleConfig) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = logger.InfoLevel.String()
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.Revocation.IssuanceType == "" {
		c.Revocation.IssuanceType = revocation.IssuanceByDefault
	}
	if c.Revocation.MaxCredNum == 0 {
		c.Revocation.MaxCredNum = DefaultMaxCredNum
	}
	if c.Revocation.TailsDirPath == "" {
		c.Revocation.TailsDirPath = filepath.Join(os.TempDir(), "revreg", "tails")
	}
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StorageMemory
	}
}

// Validate validates the configuration
func (c *ModuleConfig) Validate() error {
	if _, err := revocation.ParseIssuanceType(string(c.Revocation.IssuanceType)); err != nil {
		return fmt.Errorf("invalid default issuance type: %w", err)
	}
	if c.Revocation.MaxCredNum == 0 {
		return fmt.Errorf("default maxCredNum must be greater than 0")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	if c.Storage == nil {
		return fmt.Errorf("storage configuration is required")
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.Postgres == nil {
			return fmt.Errorf("postgres storage requires a postgres section")
		}
		if _, err := c.Storage.Postgres.ConnectionString(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	return nil
}

// LoadModuleConfig reads a JSON config file, applies defaults and validates it
func LoadModuleConfig(path string) (*ModuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &ModuleConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
