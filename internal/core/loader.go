package core

import (
	"context"
	"fmt"
)

// Load reads every table in specs from src.
//
// All tables are checked before any is read, so a missing file is reported
// without partially loading the rest. Errors from the source are returned
// unmodified; a *DataSourceMissingError carries the offending path.
func Load(ctx context.Context, src Source, specs []TableSpec) (Tables, error) {
	for _, spec := range specs {
		if err := src.Check(ctx, spec); err != nil {
			return nil, err
		}
	}

	tables := make(Tables, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled before %s: %w", spec.Name, err)
		}
		t, err := src.ReadTable(ctx, spec)
		if err != nil {
			return nil, err
		}
		tables[spec.Name] = t
	}
	return tables, nil
}

// BlobSource adapts a BlobStore of tab-separated files to Source.
type BlobSource struct {
	store BlobStore
}

// NewBlobSource wraps a blob store. Each TableSpec.Path is used as the key.
func NewBlobSource(store BlobStore) *BlobSource {
	return &BlobSource{store: store}
}

// Location describes the underlying store.
func (b *BlobSource) Location() string { return b.store.Location() }

// Check verifies the table's object exists and is readable.
func (b *BlobSource) Check(ctx context.Context, spec TableSpec) error {
	return b.store.Stat(ctx, spec.Path)
}

// ReadTable opens and parses the table's object.
func (b *BlobSource) ReadTable(ctx context.Context, spec TableSpec) (*RawTable, error) {
	rc, err := b.store.Open(ctx, spec.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := ParseTSV(rc, spec)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", spec.Path, err)
	}
	return t, nil
}
