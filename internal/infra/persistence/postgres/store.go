// Package postgres provides the PostgreSQL-backed sample store. It holds a
// pooled database handle opened once at startup; each operation acquires a
// dedicated connection from the pool and releases it on every exit path.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"plantcore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.SampleStore = (*Store)(nil)

const driverName = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

const createTableDDL = `CREATE TABLE IF NOT EXISTS plant_sample (
	sample_id BIGSERIAL PRIMARY KEY,
	date_of_sampling DATE NOT NULL,
	plant_sample_detail JSONB NOT NULL,
	sampling_location JSONB NOT NULL,
	environmental_conditions JSONB NOT NULL,
	location_id BIGINT NOT NULL,
	researcher_id BIGINT NOT NULL
)`

// Store persists samples in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore parses the connection URL, opens the pooled handle, verifies
// connectivity, and ensures the sample table exists. Descriptor and connect
// failures surface as domain.ConnectionError.
func NewStore(rawURL string) (*Store, error) {
	desc, err := ParseDescriptor(rawURL)
	if err != nil {
		return nil, domain.ConnectionError{Cause: err}
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, desc.DSN())
	openMu.Unlock()
	if err != nil {
		return nil, domain.ConnectionError{Cause: err}
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ConnectionError{Cause: err}
	}
	if _, err := db.ExecContext(ctx, createTableDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sample table: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the pooled handle.
func (s *Store) Close() error { return s.db.Close() }

// acquire takes a dedicated connection from the pool. Failure is the
// per-request connection error of the contract, never fatal to the process.
func (s *Store) acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, domain.ConnectionError{Cause: err}
	}
	return conn, nil
}

// ListSamples returns every sample ordered by id.
func (s *Store) ListSamples(ctx context.Context) ([]domain.PlantSample, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	query := fmt.Sprintf("SELECT sample_id, %s FROM plant_sample ORDER BY sample_id", strings.Join(domain.Columns(), ", "))
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.PlantSample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return out, nil
}

// CreateSample inserts a row and returns the generated id. The insert and
// the id retrieval are a single RETURNING statement.
func (s *Store) CreateSample(ctx context.Context, input domain.SampleInput) (int64, error) {
	assigns, err := input.Assignments()
	if err != nil {
		return 0, err
	}
	conn, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = conn.Close() }()

	columns := make([]string, len(assigns))
	placeholders := make([]string, len(assigns))
	args := make([]any, len(assigns))
	for i, a := range assigns {
		columns[i] = a.Column
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = a.Value
	}
	query := fmt.Sprintf("INSERT INTO plant_sample (%s) VALUES (%s) RETURNING sample_id",
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	var id int64
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert sample: %w", err)
	}
	return id, nil
}

// GetSample returns the sample with the given id.
func (s *Store) GetSample(ctx context.Context, id int64) (domain.PlantSample, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return domain.PlantSample{}, err
	}
	defer func() { _ = conn.Close() }()

	query := fmt.Sprintf("SELECT sample_id, %s FROM plant_sample WHERE sample_id = $1", strings.Join(domain.Columns(), ", "))
	rows, err := conn.QueryContext(ctx, query, id)
	if err != nil {
		return domain.PlantSample{}, fmt.Errorf("select sample: %w", err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.PlantSample{}, fmt.Errorf("select sample: %w", err)
		}
		return domain.PlantSample{}, domain.ErrNotFound{ID: id}
	}
	return scanSample(rows)
}

// UpdateSample builds an update statement covering exactly the supplied
// columns in canonical order; the id is always the final positional value.
func (s *Store) UpdateSample(ctx context.Context, id int64, patch domain.SamplePatch) error {
	assigns, err := patch.Assignments()
	if err != nil {
		return err
	}
	if len(assigns) == 0 {
		return domain.ValidationError{Reason: "No fields to update"}
	}
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	set := make([]string, len(assigns))
	args := make([]any, 0, len(assigns)+1)
	for i, a := range assigns {
		set[i] = fmt.Sprintf("%s = $%d", a.Column, i+1)
		args = append(args, a.Value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE plant_sample SET %s WHERE sample_id = $%d", strings.Join(set, ", "), len(args))

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sample: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sample: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound{ID: id}
	}
	return nil
}

// DeleteSample removes the row with the given id. A zero affected-row count
// means nothing was committed for that id.
func (s *Store) DeleteSample(ctx context.Context, id int64) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	res, err := conn.ExecContext(ctx, "DELETE FROM plant_sample WHERE sample_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound{ID: id}
	}
	return nil
}

func scanSample(rows *sql.Rows) (domain.PlantSample, error) {
	var (
		sample domain.PlantSample
		date   time.Time
		detail []byte
		loc    []byte
		env    []byte
	)
	if err := rows.Scan(&sample.SampleID, &date, &detail, &loc, &env, &sample.LocationID, &sample.ResearcherID); err != nil {
		return domain.PlantSample{}, fmt.Errorf("scan sample: %w", err)
	}
	sample.DateOfSampling = date.Format("2006-01-02")
	sample.PlantSampleDetail = json.RawMessage(detail)
	sample.SamplingLocation = json.RawMessage(loc)
	sample.EnvironmentalConditions = json.RawMessage(env)
	return sample, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
