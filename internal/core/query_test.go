package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func named(id int64, name string) FoodRecord {
	return FoodRecord{FoodID: id, FoodName: pgtype.Text{String: name, Valid: true}}
}

func resultIDs(p Page) []int64 {
	ids := make([]int64, len(p.Results))
	for i, r := range p.Results {
		ids[i] = r.FoodID
	}
	return ids
}

func mustFilter(t *testing.T, cat *Catalog, query string, mode Mode) Page {
	t.Helper()
	page, err := Filter(cat, query, mode)
	if err != nil {
		t.Fatalf("Filter(%q, %s): %v", query, mode, err)
	}
	return page
}

func checkIDs(t *testing.T, page Page, want ...int64) {
	t.Helper()
	if got := resultIDs(page); !reflect.DeepEqual(got, want) {
		t.Errorf("result ids = %v, want %v", got, want)
	}
}

func TestFilter_TextMatchesNameAndDescription(t *testing.T) {
	cat := mustLoadFixture(t, fixtureFiles(), DefaultSpecs())

	page := mustFilter(t, cat, "apple", ModeTextMatch)

	// Zucchini Fritters matches through its description.
	checkIDs(t, page, 1, 4)
	if page.PagesLeft != 0 || page.Total != 2 {
		t.Errorf("pages_left = %d total = %d, want 0 and 2", page.PagesLeft, page.Total)
	}
}

func TestFilter_TextMatchIsCaseInsensitive(t *testing.T) {
	cat := mustLoadFixture(t, fixtureFiles(), DefaultSpecs())

	for _, q := range []string{"BANANA", "Banana", "  banana  "} {
		t.Run(q, func(t *testing.T) {
			checkIDs(t, mustFilter(t, cat, q, ModeTextMatch), 2)
		})
	}
}

func TestFilter_SortIsCaseSensitive(t *testing.T) {
	cat := &Catalog{Foods: []FoodRecord{
		named(1, "banana split"),
		named(2, "apple banana"),
		named(3, "Banana Bread"),
	}}

	// Uppercase sorts before lowercase.
	checkIDs(t, mustFilter(t, cat, "banana", ModeTextMatch), 3, 2, 1)
}

func TestFilter_SortIsStable(t *testing.T) {
	cat := &Catalog{Foods: []FoodRecord{
		named(5, "Soup"),
		named(2, "Soup"),
		named(9, "Soup"),
	}}

	checkIDs(t, mustFilter(t, cat, "soup", ModeTextMatch), 5, 2, 9)
}

func TestFilter_CapsResultsAndCountsPages(t *testing.T) {
	tests := []struct {
		matches   int
		results   int
		pagesLeft int
	}{
		{matches: 0, results: 0, pagesLeft: -1},
		{matches: 1, results: 1, pagesLeft: 0},
		{matches: 5, results: 5, pagesLeft: 0},
		{matches: 10, results: 5, pagesLeft: 0},
		{matches: 11, results: 5, pagesLeft: 1},
		{matches: 12, results: 5, pagesLeft: 1},
		{matches: 21, results: 5, pagesLeft: 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d matches", tt.matches), func(t *testing.T) {
			cat := &Catalog{Foods: []FoodRecord{named(1000, "Tea")}}
			for i := 0; i < tt.matches; i++ {
				cat.Foods = append(cat.Foods, named(int64(i+1), fmt.Sprintf("Dish %02d", i)))
			}

			page := mustFilter(t, cat, "dish", ModeTextMatch)
			if len(page.Results) != tt.results {
				t.Errorf("len(results) = %d, want %d", len(page.Results), tt.results)
			}
			if page.PagesLeft != tt.pagesLeft {
				t.Errorf("pages_left = %d, want %d", page.PagesLeft, tt.pagesLeft)
			}
			if page.Total != tt.matches {
				t.Errorf("total = %d, want %d", page.Total, tt.matches)
			}
		})
	}
}

func TestFilter_NoMatchesEncodesEmptyArray(t *testing.T) {
	cat := mustLoadFixture(t, fixtureFiles(), DefaultSpecs())

	page := mustFilter(t, cat, "zzz-not-a-food", ModeTextMatch)

	body, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"results":[],"pages_left":-1}`; string(body) != want {
		t.Errorf("body = %s, want %s", body, want)
	}
}

func TestFilter_NullDescriptionNeverMatches(t *testing.T) {
	cat := &Catalog{Foods: []FoodRecord{
		{FoodID: 1, FoodName: pgtype.Text{String: "Plain", Valid: true}},
		{FoodID: 2},
	}}

	// The empty query matches every present name; the nameless row has
	// neither name nor description.
	checkIDs(t, mustFilter(t, cat, "", ModeTextMatch), 1)
}

func TestFilter_NutrientPresence(t *testing.T) {
	cat := mustLoadFixture(t, fixtureFiles(), DefaultSpecs())

	tests := []struct {
		query string
		want  []int64
	}{
		{query: "vitamin_c", want: []int64{1, 99}},
		{query: " Vitamin_C ", want: []int64{1, 99}},
		{query: "vitamin_d", want: []int64{2, 99}},
		{query: "CALCIUM", want: []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			checkIDs(t, mustFilter(t, cat, tt.query, ModeNutrientPresence), tt.want...)
		})
	}
}

func TestFilter_UnknownNutrient(t *testing.T) {
	cat := mustLoadFixture(t, fixtureFiles(), DefaultSpecs())

	for _, q := range []string{"iron", "food_name", "price", ""} {
		_, err := Filter(cat, q, ModeNutrientPresence)
		if !errors.Is(err, ErrUnknownField) {
			t.Errorf("Filter(%q) error = %v, want unknown field", q, err)
			continue
		}

		var fieldErr *UnknownFieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("error %v is not *UnknownFieldError", err)
		}
		if !reflect.DeepEqual(fieldErr.Known, NutrientColumns()) {
			t.Errorf("known = %v, want %v", fieldErr.Known, NutrientColumns())
		}
	}
}

func TestFilter_UnknownMode(t *testing.T) {
	if _, err := Filter(&Catalog{}, "x", Mode(42)); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPage_JSONShape(t *testing.T) {
	cat := mustLoadFixture(t, fixtureFiles(), DefaultSpecs())

	tests := []struct {
		query string
		mode  Mode
		want  string
	}{
		{
			query: "apple",
			mode:  ModeTextMatch,
			want:  `{"results":[[1,"Apple Pie",4.5,2],[4,"Zucchini Fritters",5.0,0]],"pages_left":0}`,
		},
		{
			query: "vitamin_c",
			mode:  ModeNutrientPresence,
			want:  `{"results":[[1,"Apple Pie",4.5,2],[99,null,null,0]],"pages_left":0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			body, err := json.Marshal(mustFilter(t, cat, tt.query, tt.mode))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(body) != tt.want {
				t.Errorf("body = %s\nwant   %s", body, tt.want)
			}
		})
	}
}

func TestResultRow_PriceKeepsFraction(t *testing.T) {
	tests := []struct {
		price pgtype.Float8
		want  string
	}{
		{pgtype.Float8{Float64: 7, Valid: true}, `[1,"x",7.0,0]`},
		{pgtype.Float8{Float64: 0, Valid: true}, `[1,"x",0.0,0]`},
		{pgtype.Float8{Float64: -3, Valid: true}, `[1,"x",-3.0,0]`},
		{pgtype.Float8{Float64: 3.25, Valid: true}, `[1,"x",3.25,0]`},
		{pgtype.Float8{Float64: 1e21, Valid: true}, `[1,"x",1e+21,0]`},
		{pgtype.Float8{}, `[1,"x",null,0]`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			row := ResultRow{FoodID: 1, FoodName: pgtype.Text{String: "x", Valid: true}, Price: tt.price}
			body, err := json.Marshal(row)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(body) != tt.want {
				t.Errorf("got %s, want %s", body, tt.want)
			}
		})
	}
}

func TestResultRow_UnmarshalJSON(t *testing.T) {
	var row ResultRow
	if err := json.Unmarshal([]byte(`[99,null,7.0,3]`), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row.FoodID != 99 || row.FoodName.Valid || row.MenuCount != 3 {
		t.Errorf("row = %+v", row)
	}
	if row.Price != (pgtype.Float8{Float64: 7, Valid: true}) {
		t.Errorf("price = %+v", row.Price)
	}

	if err := json.Unmarshal([]byte(`[1,"x"]`), &row); err == nil {
		t.Error("expected error for short row")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeTextMatch},
		{in: "text", want: ModeTextMatch},
		{in: "Search", want: ModeTextMatch},
		{in: "nutrient", want: ModeNutrientPresence},
		{in: " NUTRITION ", want: ModeNutrientPresence},
		{in: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if code := MapError(err).Code; err == nil || code != "QRY002" {
					t.Errorf("ParseMode(%q) error = %v (code %q), want QRY002", tt.in, err, code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestPagesLeft(t *testing.T) {
	tests := map[int]int{0: -1, 1: 0, 10: 0, 11: 1, 100: 9}
	for total, want := range tests {
		if got := PagesLeft(total); got != want {
			t.Errorf("PagesLeft(%d) = %d, want %d", total, got, want)
		}
	}
}
