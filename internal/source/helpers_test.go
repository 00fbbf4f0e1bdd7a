package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

func tsvFile(rows ...[]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, "\t")
	}
	return strings.Join(lines, "\n") + "\n"
}

// catalogFiles is a minimal four-table catalog.
func catalogFiles() map[string]string {
	return map[string]string{
		core.DefaultFoodFile: tsvFile(
			[]string{"food_id", "food_name", "description", "price", "image_ref", "import_name"},
			[]string{"1", "Apple Pie", "Baked", "4.50", "", ""},
			[]string{"2", "Lentil Soup", "", "6", "", ""},
		),
		core.DefaultMenuFile: tsvFile(
			[]string{"menu_id", "menu_name"},
			[]string{"1", "Lunch"},
		),
		core.DefaultNutritionFile: tsvFile(
			[]string{"nutrition_id", "food_id", "vitamin_d", "vitamin_c", "calcium"},
			[]string{"10", "2", "", "3.1", "40"},
		),
		core.DefaultFoodMenuFile: tsvFile(
			[]string{"food_menu_id", "food_id", "menu_id"},
			[]string{"100", "1", "1"},
			[]string{"101", "2", "1"},
		),
	}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}
