// Package postgres implements storage.StorageService on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

const uniqueViolation = "23505"

const schema = `
	CREATE TABLE IF NOT EXISTS records (
		seq      BIGSERIAL,
		category TEXT  NOT NULL,
		id       TEXT  NOT NULL,
		value    JSONB NOT NULL,
		tags     JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (category, id)
	);
	CREATE INDEX IF NOT EXISTS records_tags_idx ON records USING GIN (tags);
`

// Store persists records in a single `records` table keyed by category and id.
// Tags live in a JSONB column and are matched with containment. JSON is bound
// as text since lib/pq sends []byte parameters as bytea.
type Store struct {
	db *sql.DB
}

var _ storage.StorageService = (*Store)(nil)

// Open connects to PostgreSQL using lib/pq and verifies the connection
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// New wraps an existing connection pool
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the records table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate records table: %w", err)
	}
	return nil
}

// Close closes the underlying pool
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(record storage.Record) (value []byte, tags []byte, err error) {
	if record == nil {
		return nil, nil, fmt.Errorf("record is nil")
	}
	value, err = record.ToJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("serialize record %s: %w", record.GetId(), err)
	}
	tagSet := record.GetTags()
	if tagSet == nil {
		tagSet = map[string]string{}
	}
	tags, err = json.Marshal(tagSet)
	if err != nil {
		return nil, nil, fmt.Errorf("serialize tags of %s: %w", record.GetId(), err)
	}
	return value, tags, nil
}

// Save stores a new record
func (s *Store) Save(ctx context.Context, record storage.Record) error {
	value, tags, err := encode(record)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (category, id, value, tags) VALUES ($1, $2, $3, $4)`,
		record.GetType(), record.GetId(), string(value), string(tags))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return anonerrors.Duplicate(record.GetType(), record.GetId(), err)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update replaces an existing record
func (s *Store) Update(ctx context.Context, record storage.Record) error {
	record.SetUpdatedAt(time.Now().UTC())
	value, tags, err := encode(record)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET value = $3, tags = $4 WHERE category = $1 AND id = $2`,
		record.GetType(), record.GetId(), string(value), string(tags))
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return expectRow(res, record.GetType(), record.GetId())
}

// Delete removes a record
func (s *Store) Delete(ctx context.Context, record storage.Record) error {
	return s.DeleteById(ctx, record.GetType(), record.GetId())
}

// DeleteById removes a record by category and id
func (s *Store) DeleteById(ctx context.Context, recordClass string, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE category = $1 AND id = $2`, recordClass, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return expectRow(res, recordClass, id)
}

func expectRow(res sql.Result, category, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return anonerrors.NotFound(category, id)
	}
	return nil
}

// GetById loads a record by category and id
func (s *Store) GetById(ctx context.Context, recordClass string, id string) (storage.Record, error) {
	var value, tags []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value, tags FROM records WHERE category = $1 AND id = $2`, recordClass, id).Scan(&value, &tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, anonerrors.NotFound(recordClass, id)
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	return decode(recordClass, value, tags)
}

// GetAll returns every record of a category in insertion order
func (s *Store) GetAll(ctx context.Context, recordClass string) ([]storage.Record, error) {
	return s.FindByQuery(ctx, recordClass, storage.Query{})
}

// FindByQuery returns the records of a category whose tags match the query
func (s *Store) FindByQuery(ctx context.Context, recordClass string, query storage.Query) ([]storage.Record, error) {
	args := []interface{}{recordClass}
	where, args, err := buildCondition(query, args)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT value, tags FROM records WHERE category = $1`)
	if where != "" {
		sb.WriteString(" AND ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY seq")
	if query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if query.Offset > 0 {
		args = append(args, query.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var results []storage.Record
	for rows.Next() {
		var value, tags []byte
		if err := rows.Scan(&value, &tags); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		record, err := decode(recordClass, value, tags)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return results, nil
}

// buildCondition renders a query as SQL. Equal becomes a single JSONB
// containment test; Or alternatives are rendered recursively.
func buildCondition(query storage.Query, args []interface{}) (string, []interface{}, error) {
	var parts []string
	if len(query.Equal) > 0 {
		encoded, err := json.Marshal(query.Equal)
		if err != nil {
			return "", nil, fmt.Errorf("encode tag query: %w", err)
		}
		args = append(args, string(encoded))
		parts = append(parts, fmt.Sprintf("tags @> $%d::jsonb", len(args)))
	}
	if len(query.Or) > 0 {
		alternatives := make([]string, 0, len(query.Or))
		for _, alt := range query.Or {
			var cond string
			var err error
			cond, args, err = buildCondition(alt, args)
			if err != nil {
				return "", nil, err
			}
			if cond == "" {
				cond = "TRUE"
			}
			alternatives = append(alternatives, cond)
		}
		parts = append(parts, "("+strings.Join(alternatives, " OR ")+")")
	}
	return strings.Join(parts, " AND "), args, nil
}

func decode(category string, value, tags []byte) (storage.Record, error) {
	var tagSet map[string]string
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &tagSet); err != nil {
			return nil, fmt.Errorf("decode tags of %s record: %w", category, err)
		}
	}
	record, err := storage.DecodeRecord(category, value, tagSet)
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", category, err)
	}
	return record, nil
}
