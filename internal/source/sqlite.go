package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// SQLite reads the raw tables from a SQLite database file, one table per
// logical table name.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens an existing database file. A missing file is reported as
// a missing root; the file is never created.
func OpenSQLite(path string) (*SQLite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &core.DataSourceMissingError{Path: path, Cause: core.CauseMissingRoot, Err: err}
	}
	if info.IsDir() {
		return nil, &core.DataSourceMissingError{Path: path, Cause: core.CauseMissingRoot, Err: errors.New("is a directory")}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Location returns the database file path.
func (s *SQLite) Location() string { return s.path }

// Check verifies the table (or view) exists.
func (s *SQLite) Check(ctx context.Context, spec core.TableSpec) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`,
		spec.Name).Scan(&n)
	if err != nil {
		return &core.DataSourceMissingError{Path: s.tablePath(spec), Cause: core.CauseUnreadable, Err: err}
	}
	if n == 0 {
		return &core.DataSourceMissingError{Path: s.tablePath(spec), Cause: core.CauseMissingFile}
	}
	return nil
}

// ReadTable selects every row ordered by the first column.
func (s *SQLite) ReadTable(ctx context.Context, spec core.TableSpec) (*core.RawTable, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteIdentifier(spec.Name)+" ORDER BY 1")
	if err != nil {
		return nil, &core.DataSourceMissingError{Path: s.tablePath(spec), Cause: core.CauseUnreadable, Err: err}
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", spec.Name, err)
	}

	t := newTable(spec, header)
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", spec.Name, err)
		}
		appendRow(t, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", spec.Name, err)
	}
	return t, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) tablePath(spec core.TableSpec) string {
	return s.path + "#" + spec.Name
}
