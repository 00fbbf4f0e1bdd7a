package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// Postgres reads the raw tables from a PostgreSQL database. Each logical
// table name (food, menu, nutrition, food_menu) is a database table whose
// columns follow the same order as the TSV layout.
type Postgres struct {
	pool     *pgxpool.Pool
	location string
}

// OpenPostgres connects a pool and pings the server. An unreachable server
// is reported as a missing root.
func OpenPostgres(ctx context.Context, url string, maxConns int) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	cc := poolConfig.ConnConfig
	location := "postgres://" + cc.Host + ":" + strconv.Itoa(int(cc.Port)) + "/" + cc.Database

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, &core.DataSourceMissingError{Path: location, Cause: core.CauseMissingRoot, Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &core.DataSourceMissingError{Path: location, Cause: core.CauseMissingRoot, Err: err}
	}
	return &Postgres{pool: pool, location: location}, nil
}

// Location returns the server and database, without credentials.
func (p *Postgres) Location() string { return p.location }

// Check verifies the table exists.
func (p *Postgres) Check(ctx context.Context, spec core.TableSpec) error {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	)`, spec.Name).Scan(&exists)
	if err != nil {
		return &core.DataSourceMissingError{Path: p.tablePath(spec), Cause: core.CauseUnreadable, Err: err}
	}
	if !exists {
		return &core.DataSourceMissingError{Path: p.tablePath(spec), Cause: core.CauseMissingFile}
	}
	return nil
}

// ReadTable selects every row ordered by the first column.
func (p *Postgres) ReadTable(ctx context.Context, spec core.TableSpec) (*core.RawTable, error) {
	rows, err := p.pool.Query(ctx, "SELECT * FROM "+quoteIdentifier(spec.Name)+" ORDER BY 1")
	if err != nil {
		return nil, &core.DataSourceMissingError{Path: p.tablePath(spec), Cause: core.CauseUnreadable, Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	t := newTable(spec, header)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", spec.Name, err)
		}
		appendRow(t, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", spec.Name, err)
	}
	return t, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) tablePath(spec core.TableSpec) string {
	return p.location + "#" + spec.Name
}
