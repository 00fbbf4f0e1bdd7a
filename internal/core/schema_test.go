package core

import (
	"errors"
	"testing"
)

func TestSpecs(t *testing.T) {
	t.Run("full variant includes food_menu", func(t *testing.T) {
		specs := DefaultSpecs()
		if len(specs) != 4 {
			t.Fatalf("len(specs) = %d, want 4", len(specs))
		}
		if specs[3].Name != TableFoodMenu || specs[3].Path != DefaultFoodMenuFile {
			t.Errorf("specs[3] = %s %s, want %s %s", specs[3].Name, specs[3].Path, TableFoodMenu, DefaultFoodMenuFile)
		}
	})

	t.Run("reduced variant omits food_menu", func(t *testing.T) {
		specs := Specs(SpecOptions{MenuAssociations: false})
		if len(specs) != 3 {
			t.Fatalf("len(specs) = %d, want 3", len(specs))
		}
		for _, s := range specs {
			if s.Name == TableFoodMenu {
				t.Error("reduced specs include food_menu")
			}
		}
	})

	t.Run("custom file names", func(t *testing.T) {
		specs := Specs(SpecOptions{FoodFile: "foods.txt", MenuAssociations: true})
		if specs[0].Path != "foods.txt" {
			t.Errorf("food path = %q, want foods.txt", specs[0].Path)
		}
		if specs[1].Path != DefaultMenuFile {
			t.Errorf("menu path = %q, want %q", specs[1].Path, DefaultMenuFile)
		}
	})
}

func TestValidateHeader(t *testing.T) {
	spec := DefaultSpecs()[0] // food

	tests := []struct {
		name    string
		header  []string
		strict  bool
		wantErr bool
	}{
		{
			name:   "canonical names",
			header: []string{"food_id", "food_name", "description", "price", "image_ref", "import_name"},
		},
		{
			name:   "spaced and capitalized names",
			header: []string{"Food ID", "Food Name", "Description", "Price", "Image-Ref", "Import Name"},
		},
		{
			name:   "unrecognized labels accepted positionally",
			header: []string{"id", "name", "desc", "cost", "img", "src"},
		},
		{
			name:    "unrecognized labels rejected when strict",
			header:  []string{"id", "name", "desc", "cost", "img", "src"},
			strict:  true,
			wantErr: true,
		},
		{
			name:    "reordered columns rejected",
			header:  []string{"food_id", "description", "food_name", "price", "image_ref", "import_name"},
			wantErr: true,
		},
		{
			name:    "too few columns",
			header:  []string{"food_id", "food_name"},
			wantErr: true,
		},
		{
			name:    "too many columns",
			header:  []string{"food_id", "food_name", "description", "price", "image_ref", "import_name", "extra"},
			wantErr: true,
		},
		{
			name:    "empty header",
			header:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(spec, tt.header, tt.strict)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("error = %v, want schema mismatch", err)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"food_id":      "food_id",
		" Food Name ":  "food_name",
		"VITAMIN-C":    "vitamin_c",
		`"menu_name"`:  "menu_name",
		"import_name ": "import_name",
	}
	for in, want := range tests {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}
