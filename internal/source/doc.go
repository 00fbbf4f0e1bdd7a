// Package source provides the storage backends the catalog loader reads from.
//
// Blob stores (Dir, S3Store) hold one tab-separated file per table and are
// adapted to core.Source with core.NewBlobSource. SQL sources (Postgres,
// SQLite) implement core.Source directly and read one database table per
// logical table name. Open selects a backend from configuration.
package source
