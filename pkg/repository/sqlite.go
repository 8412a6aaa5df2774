package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	idx  INTEGER PRIMARY KEY,
	data TEXT NOT NULL
);
`

// SQLite implements Repository interface with a local SQLite database. Each
// record is stored as its JSON object so the column order survives.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (and if needed creates) the database at path
func NewSQLite(ctx context.Context, path string) (interfaces.Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect to sqlite database",
			goerr.V("path", path),
			goerr.T(model.ErrTagFileAccess))
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create records table", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("SQLite repository initialized successfully", "path", path)

	return &SQLite{db: db, path: path}, nil
}

// PutRecords replaces all rows in a single transaction
func (s *SQLite) PutRecords(ctx context.Context, records []model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return goerr.Wrap(err, "failed to clear records")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (idx, data) VALUES (?, ?)`)
	if err != nil {
		return goerr.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return goerr.Wrap(err, "failed to encode record", goerr.V("index", i))
		}
		if _, err := stmt.ExecContext(ctx, i, string(data)); err != nil {
			return goerr.Wrap(err, "failed to insert record", goerr.V("index", i))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit records")
	}
	return nil
}

// ListRecords returns all rows ordered by index
func (s *SQLite) ListRecords(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT idx, data FROM records ORDER BY idx`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query records",
			goerr.V("path", s.path),
			goerr.T(model.ErrTagDatasetLoad))
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		var (
			idx  int
			data string
		)
		if err := rows.Scan(&idx, &data); err != nil {
			return nil, goerr.Wrap(err, "failed to scan record", goerr.T(model.ErrTagDatasetLoad))
		}

		var r model.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, goerr.Wrap(err, "failed to decode record",
				goerr.V("index", idx),
				goerr.T(model.ErrTagDatasetLoad))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read records", goerr.T(model.ErrTagDatasetLoad))
	}

	return records, nil
}

// Name returns the store name
func (s *SQLite) Name() string {
	return "sqlite:" + s.path
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
