package core

import (
	"context"
	"io"
	"io/fs"
	"strings"
	"sync"
	"testing"
)

// memStore is an in-memory BlobStore for tests.
type memStore struct {
	mu    sync.Mutex
	files map[string]string
	opens int
}

func newMemStore(files map[string]string) *memStore {
	cp := make(map[string]string, len(files))
	for k, v := range files {
		cp[k] = v
	}
	return &memStore{files: cp}
}

func (m *memStore) Location() string { return "mem://catalog" }

func (m *memStore) Stat(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[key]; !ok {
		return &DataSourceMissingError{Path: key, Cause: CauseMissingFile, Err: fs.ErrNotExist}
	}
	return nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.files[key]
	if !ok {
		return nil, &DataSourceMissingError{Path: key, Cause: CauseMissingFile, Err: fs.ErrNotExist}
	}
	m.opens++
	return io.NopCloser(strings.NewReader(body)), nil
}

func (m *memStore) openCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

func tsv(lines ...string) string { return strings.Join(lines, "\n") + "\n" }

func row(cells ...string) string { return strings.Join(cells, "\t") }

// fixtureFiles is a small catalog exercising every join edge:
//   - foods 1 and 2 have nutrition and menus
//   - foods 3 and 4 have neither
//   - nutrition row for food 99 has no food (orphan)
//   - association row for food 77 has no food (orphan)
func fixtureFiles() map[string]string {
	return map[string]string{
		DefaultFoodFile: tsv(
			row("food_id", "food_name", "description", "price", "image_ref", "import_name"),
			row("1", "Apple Pie", "Baked with cinnamon", "4.50", "apple.png", "APPLE_PIE"),
			row("2", "banana bread", "Moist loaf", "3.25", "banana.png", "BANANA_BREAD"),
			row("3", "Caesar Salad", "", "7.00", "", ""),
			row("4", "Zucchini Fritters", "Crispy apple-free snack", "5", "", ""),
		),
		DefaultMenuFile: tsv(
			row("menu_id", "menu_name"),
			row("1", "Breakfast"),
			row("2", "Lunch"),
		),
		DefaultNutritionFile: tsv(
			row("nutrition_id", "food_id", "vitamin_d", "vitamin_c", "calcium"),
			row("10", "1", "", "4.6", "20"),
			row("11", "2", "1.2", "", "15"),
			row("12", "99", "0.5", "10", ""),
		),
		DefaultFoodMenuFile: tsv(
			row("food_menu_id", "food_id", "menu_id"),
			row("100", "1", "1"),
			row("101", "1", "2"),
			row("102", "2", "1"),
			row("103", "77", "2"),
		),
	}
}

func loadFixture(files map[string]string, specs []TableSpec) (*Catalog, error) {
	tables, err := Load(context.Background(), NewBlobSource(newMemStore(files)), specs)
	if err != nil {
		return nil, err
	}
	return Denormalize(tables, DenormalizeOptions{})
}

func foodByID(cat *Catalog, id int64) *FoodRecord {
	for i := range cat.Foods {
		if cat.Foods[i].FoodID == id {
			return &cat.Foods[i]
		}
	}
	return nil
}

func mustLoadFixture(t *testing.T, files map[string]string, specs []TableSpec) *Catalog {
	t.Helper()
	cat, err := loadFixture(files, specs)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return cat
}

func mustFood(t *testing.T, cat *Catalog, id int64) *FoodRecord {
	t.Helper()
	f := foodByID(cat, id)
	if f == nil {
		t.Fatalf("food %d not in catalog", id)
	}
	return f
}

func foodIDs(cat *Catalog) []int64 {
	ids := make([]int64, len(cat.Foods))
	for i, f := range cat.Foods {
		ids[i] = f.FoodID
	}
	return ids
}
