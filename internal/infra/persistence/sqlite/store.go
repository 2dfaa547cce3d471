// Package sqlite provides an embedded file-backed sample store using the
// pure Go sqlite driver. It serves local development and tests; the SQL
// surface matches the postgres backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"plantcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.SampleStore = (*Store)(nil)

const defaultPath = "plantcore.db"

const createTableDDL = `CREATE TABLE IF NOT EXISTS plant_sample (
	sample_id INTEGER PRIMARY KEY AUTOINCREMENT,
	date_of_sampling TEXT NOT NULL,
	plant_sample_detail TEXT NOT NULL,
	sampling_location TEXT NOT NULL,
	environmental_conditions TEXT NOT NULL,
	location_id INTEGER NOT NULL,
	researcher_id INTEGER NOT NULL
)`

// Store persists samples to a single sqlite table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating when absent) the sqlite file and ensures the
// sample table exists.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(createTableDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sample table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// ListSamples returns every sample ordered by id.
func (s *Store) ListSamples(ctx context.Context) ([]domain.PlantSample, error) {
	query := fmt.Sprintf("SELECT sample_id, %s FROM plant_sample ORDER BY sample_id", strings.Join(domain.Columns(), ", "))
	rows, err := s.db.QueryContext(ctx, query)
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

// CreateSample inserts a row and returns the generated id.
func (s *Store) CreateSample(ctx context.Context, input domain.SampleInput) (int64, error) {
	assigns, err := input.Assignments()
	if err != nil {
		return 0, err
	}
	columns := make([]string, len(assigns))
	placeholders := make([]string, len(assigns))
	args := make([]any, len(assigns))
	for i, a := range assigns {
		columns[i] = a.Column
		placeholders[i] = "?"
		args[i] = a.Value
	}
	query := fmt.Sprintf("INSERT INTO plant_sample (%s) VALUES (%s)",
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert sample: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fetch inserted id: %w", err)
	}
	return id, nil
}

// GetSample returns the sample with the given id.
func (s *Store) GetSample(ctx context.Context, id int64) (domain.PlantSample, error) {
	query := fmt.Sprintf("SELECT sample_id, %s FROM plant_sample WHERE sample_id = ?", strings.Join(domain.Columns(), ", "))
	rows, err := s.db.QueryContext(ctx, query, id)
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
// columns, with the id as the final positional value.
func (s *Store) UpdateSample(ctx context.Context, id int64, patch domain.SamplePatch) error {
	assigns, err := patch.Assignments()
	if err != nil {
		return err
	}
	if len(assigns) == 0 {
		return domain.ValidationError{Reason: "No fields to update"}
	}
	set := make([]string, len(assigns))
	args := make([]any, 0, len(assigns)+1)
	for i, a := range assigns {
		set[i] = a.Column + " = ?"
		args = append(args, a.Value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE plant_sample SET %s WHERE sample_id = ?", strings.Join(set, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
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

// DeleteSample removes the row with the given id.
func (s *Store) DeleteSample(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM plant_sample WHERE sample_id = ?", id)
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
		detail string
		loc    string
		env    string
	)
	if err := rows.Scan(&sample.SampleID, &sample.DateOfSampling, &detail, &loc, &env, &sample.LocationID, &sample.ResearcherID); err != nil {
		return domain.PlantSample{}, fmt.Errorf("scan sample: %w", err)
	}
	sample.PlantSampleDetail = json.RawMessage(detail)
	sample.SamplingLocation = json.RawMessage(loc)
	sample.EnvironmentalConditions = json.RawMessage(env)
	return sample, nil
}
