package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StorageService defines the interface for storage operations
type StorageService interface {
	Save(ctx context.Context, record Record) error
	Update(ctx context.Context, record Record) error
	Delete(ctx context.Context, record Record) error
	DeleteById(ctx context.Context, recordClass string, id string) error
	GetById(ctx context.Context, recordClass string, id string) (Record, error)
	GetAll(ctx context.Context, recordClass string) ([]Record, error)
	FindByQuery(ctx context.Context, recordClass string, query Query) ([]Record, error)
}

// Record represents a base record interface
type Record interface {
	GetId() string
	SetId(id string)
	GetType() string
	GetTags() map[string]string
	SetTags(tags map[string]string)
	GetTag(key string) (string, bool)
	SetTag(key, value string)
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	SetUpdatedAt(time time.Time)
	Clone() Record
	ToJSON() ([]byte, error)
	FromJSON(data []byte) error
}

// BaseRecord provides a base implementation of Record
type BaseRecord struct {
	ID        string            `json:"id"`
	Type      string            `json:"_type"`
	Tags      map[string]string `json:"_tags,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewBaseRecord creates a new BaseRecord
func NewBaseRecord(recordType string) *BaseRecord {
	now := time.Now().UTC()
	return &BaseRecord{
		ID:        uuid.New().String(),
		Type:      recordType,
		Tags:      make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *BaseRecord) GetId() string            { return r.ID }
func (r *BaseRecord) SetId(id string)          { r.ID = id }
func (r *BaseRecord) GetType() string          { return r.Type }
func (r *BaseRecord) GetCreatedAt() time.Time  { return r.CreatedAt }
func (r *BaseRecord) GetUpdatedAt() time.Time  { return r.UpdatedAt }
func (r *BaseRecord) SetUpdatedAt(t time.Time) { r.UpdatedAt = t }

func (r *BaseRecord) GetTags() map[string]string {
	if r.Tags == nil {
		r.Tags = make(map[string]string)
	}
	return r.Tags
}

func (r *BaseRecord) SetTags(tags map[string]string) {
	r.Tags = tags
}

func (r *BaseRecord) GetTag(key string) (string, bool) {
	if r.Tags == nil {
		return "", false
	}
	value, exists := r.Tags[key]
	return value, exists
}

func (r *BaseRecord) SetTag(key, value string) {
	if r.Tags == nil {
		r.Tags = make(map[string]string)
	}
	r.Tags[key] = value
}

// CloneBase copies the base fields, including a fresh tag map
func (r *BaseRecord) CloneBase() *BaseRecord {
	clone := &BaseRecord{
		ID:        r.ID,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Tags != nil {
		clone.Tags = make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			clone.Tags[k] = v
		}
	}
	return clone
}

func (r *BaseRecord) Clone() Record {
	return r.CloneBase()
}

func (r *BaseRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

func (r *BaseRecord) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// Query matches records by tag. Equal conditions are ANDed; a record matching
// any of the Or sub-queries also matches.
type Query struct {
	Equal map[string]string `json:"equal,omitempty"`
	Or    []Query           `json:"or,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// NewQuery creates a new empty query
func NewQuery() *Query {
	return &Query{Equal: make(map[string]string)}
}

// WithTag adds a tag equality condition to the query
func (q *Query) WithTag(key, value string) *Query {
	if q.Equal == nil {
		q.Equal = make(map[string]string)
	}
	q.Equal[key] = value
	return q
}

// WithOr adds alternative sub-queries
func (q *Query) WithOr(alternatives ...Query) *Query {
	q.Or = append(q.Or, alternatives...)
	return q
}

// WithLimit sets the query limit
func (q *Query) WithLimit(limit int) *Query {
	q.Limit = limit
	return q
}

// WithOffset sets the query offset
func (q *Query) WithOffset(offset int) *Query {
	q.Offset = offset
	return q
}

// Matches evaluates the query against a tag set
func (q Query) Matches(tags map[string]string) bool {
	for k, v := range q.Equal {
		if tags[k] != v {
			return false
		}
	}
	if len(q.Or) == 0 {
		return true
	}
	for _, alt := range q.Or {
		if alt.Matches(tags) {
			return true
		}
	}
	return false
}

// Page applies Offset and Limit to an already filtered result set
func Page[T any](q Query, items []T) []T {
	if q.Offset > 0 {
		if q.Offset >= len(items) {
			return items[:0]
		}
		items = items[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(items) {
		items = items[:q.Limit]
	}
	return items
}
