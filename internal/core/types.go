package core

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// FieldType represents the expected data type for a raw table column.
type FieldType int

const (
	FieldText    FieldType = iota // nullable text
	FieldID                       // required integer key
	FieldNumeric                  // nullable float
)

// String returns the lowercase name of the field type.
func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldID:
		return "id"
	case FieldNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// ColumnSpec describes one positional column of a raw table.
type ColumnSpec struct {
	Name string    // Canonical column name
	Type FieldType // Expected data type
}

// TableSpec describes a raw table: where it lives and its column order.
type TableSpec struct {
	Name    string       // Logical name: "food", "menu", "nutrition", "food_menu"
	Path    string       // Path relative to the source root: "food.tsv"
	Columns []ColumnSpec // Columns in source order
}

// ColumnNames returns the canonical column names in order.
func (s TableSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// RawTable is a table as read from a source, before any conversion.
type RawTable struct {
	Spec   TableSpec
	Header []string   // Header cells exactly as read
	Rows   [][]string // Data rows in source order
	Lines  []int      // Source line number of each row (1-indexed)
}

// Line returns the source line of row i, or 0 if unknown.
func (t *RawTable) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return 0
}

// Tables maps logical table names to loaded raw tables.
type Tables map[string]*RawTable

// Source provides raw tables from a storage location.
//
// Check must be cheap and side-effect free; Load calls it for every table
// before reading any of them. Both methods report absent or unreadable data
// with a *DataSourceMissingError.
type Source interface {
	Location() string
	Check(ctx context.Context, spec TableSpec) error
	ReadTable(ctx context.Context, spec TableSpec) (*RawTable, error)
}

// BlobStore is a flat key/object store holding tab-separated files.
// Satisfied by the directory and S3 stores in package source.
type BlobStore interface {
	Location() string
	Stat(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// FoodRecord is one row of the canonical food table.
//
// Records that come only from the nutrition or association tables keep
// their FoodID but have every food field invalid.
type FoodRecord struct {
	FoodID      int64
	FoodName    pgtype.Text
	Description pgtype.Text
	Price       pgtype.Float8
	ImageRef    pgtype.Text
	ImportName  pgtype.Text
	VitaminD    pgtype.Float8
	VitaminC    pgtype.Float8
	Calcium     pgtype.Float8
	MenuCount   int
}

// MenuRecord is one row of the menu table.
type MenuRecord struct {
	MenuID   int64
	MenuName pgtype.Text
}

// NutritionRecord is one row of the nutrition table.
type NutritionRecord struct {
	NutritionID int64
	FoodID      int64
	VitaminD    pgtype.Float8
	VitaminC    pgtype.Float8
	Calcium     pgtype.Float8
}

// FoodMenuAssociation is one edge of the food/menu many-to-many table.
type FoodMenuAssociation struct {
	FoodMenuID int64
	FoodID     int64
	MenuID     int64
}

// Catalog is an immutable snapshot of the canonical food table.
type Catalog struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Source   string
	Reduced  bool // Built without the food_menu association table

	Foods []FoodRecord // Ordered by FoodID ascending
	Menus []MenuRecord // Source order
}

// Stats summarizes a catalog for health checks and logs.
type Stats struct {
	SnapshotID string    `json:"snapshotId"`
	LoadedAt   time.Time `json:"loadedAt"`
	Source     string    `json:"source"`
	Reduced    bool      `json:"reduced"`
	Foods      int       `json:"foods"`
	Menus      int       `json:"menus"`
	Orphans    int       `json:"orphans"`
}

// Stats returns summary counts for the catalog.
func (c *Catalog) Stats() Stats {
	orphans := 0
	for i := range c.Foods {
		if !c.Foods[i].FoodName.Valid {
			orphans++
		}
	}
	return Stats{
		SnapshotID: c.ID.String(),
		LoadedAt:   c.LoadedAt,
		Source:     c.Source,
		Reduced:    c.Reduced,
		Foods:      len(c.Foods),
		Menus:      len(c.Menus),
		Orphans:    orphans,
	}
}

// Observer receives load and query measurements.
// Implemented by metrics.Collector; a nil Observer is replaced by a no-op.
type Observer interface {
	ObserveLoad(source string, foods int, d time.Duration, err error)
	ObserveQuery(mode Mode, matches int, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(string, int, time.Duration, error)  {}
func (nopObserver) ObserveQuery(Mode, int, time.Duration, error) {}
