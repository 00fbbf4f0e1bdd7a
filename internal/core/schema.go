package core

import (
	"fmt"
	"strings"
)

// Logical table names.
const (
	TableFood      = "food"
	TableMenu      = "menu"
	TableNutrition = "nutrition"
	TableFoodMenu  = "food_menu"
)

// Default file names, relative to the data root.
const (
	DefaultFoodFile      = "food.tsv"
	DefaultMenuFile      = "menu.tsv"
	DefaultNutritionFile = "nutrition.tsv"
	DefaultFoodMenuFile  = "food_menu.tsv"
)

var (
	foodColumns = []ColumnSpec{
		{Name: "food_id", Type: FieldID},
		{Name: "food_name", Type: FieldText},
		{Name: "description", Type: FieldText},
		{Name: "price", Type: FieldNumeric},
		{Name: "image_ref", Type: FieldText},
		{Name: "import_name", Type: FieldText},
	}
	menuColumns = []ColumnSpec{
		{Name: "menu_id", Type: FieldID},
		{Name: "menu_name", Type: FieldText},
	}
	nutritionColumns = []ColumnSpec{
		{Name: "nutrition_id", Type: FieldID},
		{Name: "food_id", Type: FieldID},
		{Name: "vitamin_d", Type: FieldNumeric},
		{Name: "vitamin_c", Type: FieldNumeric},
		{Name: "calcium", Type: FieldNumeric},
	}
	foodMenuColumns = []ColumnSpec{
		{Name: "food_menu_id", Type: FieldID},
		{Name: "food_id", Type: FieldID},
		{Name: "menu_id", Type: FieldID},
	}
)

// SpecOptions selects file names and the table variant.
// Empty file names fall back to the defaults.
type SpecOptions struct {
	FoodFile      string
	MenuFile      string
	NutritionFile string
	FoodMenuFile  string

	// MenuAssociations includes the food_menu table. When false the reduced
	// variant is built and every menu_count is 0.
	MenuAssociations bool
}

// Specs returns the table specs to load, in load order.
func Specs(opts SpecOptions) []TableSpec {
	specs := []TableSpec{
		{Name: TableFood, Path: orDefault(opts.FoodFile, DefaultFoodFile), Columns: foodColumns},
		{Name: TableMenu, Path: orDefault(opts.MenuFile, DefaultMenuFile), Columns: menuColumns},
		{Name: TableNutrition, Path: orDefault(opts.NutritionFile, DefaultNutritionFile), Columns: nutritionColumns},
	}
	if opts.MenuAssociations {
		specs = append(specs, TableSpec{
			Name:    TableFoodMenu,
			Path:    orDefault(opts.FoodMenuFile, DefaultFoodMenuFile),
			Columns: foodMenuColumns,
		})
	}
	return specs
}

// DefaultSpecs returns the full four-table layout with default file names.
func DefaultSpecs() []TableSpec {
	return Specs(SpecOptions{MenuAssociations: true})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// ValidateHeader checks a header row against the spec's column layout.
//
// The header must have exactly len(spec.Columns) cells. A cell naming a
// different known column of the same table means the source was reordered
// and is rejected. Other labels are accepted positionally unless strict is
// set, in which case every cell must equal the canonical name.
func ValidateHeader(spec TableSpec, header []string, strict bool) error {
	if len(header) == 0 {
		return &SchemaError{Table: spec.Name, Reason: "missing header row"}
	}
	if len(header) != len(spec.Columns) {
		return &SchemaError{
			Table: spec.Name,
			Reason: fmt.Sprintf("header has %d columns, expected %d (%s)",
				len(header), len(spec.Columns), strings.Join(spec.ColumnNames(), ", ")),
		}
	}

	known := make(map[string]int, len(spec.Columns))
	for i, c := range spec.Columns {
		known[c.Name] = i
	}

	for i, cell := range header {
		name := NormalizeHeader(cell)
		want := spec.Columns[i].Name
		if name == want {
			continue
		}
		if pos, ok := known[name]; ok {
			return &SchemaError{
				Table:  spec.Name,
				Reason: fmt.Sprintf("column %q found at position %d, expected at position %d", name, i+1, pos+1),
			}
		}
		if strict {
			return &SchemaError{
				Table:  spec.Name,
				Reason: fmt.Sprintf("column %d is %q, expected %q", i+1, cell, want),
			}
		}
	}
	return nil
}

// NormalizeHeader lowercases a header cell and maps spaces and dashes to
// underscores so "Food Name" and "food-name" compare equal to "food_name".
func NormalizeHeader(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.Trim(s, `"'`)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-':
			return '_'
		}
		return r
	}, s)
}
