package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// PageSize is the page length used to compute PagesLeft.
	PageSize = 10

	// ResultLimit is the number of rows returned per query. There is no
	// offset parameter, so PagesLeft is informational only.
	ResultLimit = 5
)

// Mode selects how Filter interprets the query string.
type Mode int

const (
	ModeTextMatch        Mode = iota // substring of food_name or description
	ModeNutrientPresence             // query names a nutrient column that must be present
)

func (m Mode) String() string {
	switch m {
	case ModeTextMatch:
		return "text"
	case ModeNutrientPresence:
		return "nutrient"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps "text" or "nutrient" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "search":
		return ModeTextMatch, nil
	case "nutrient", "nutrition":
		return ModeNutrientPresence, nil
	default:
		return 0, fmt.Errorf("unknown search mode %q", s)
	}
}

// nutrientColumns maps canonical nutrient column names to their accessors.
var nutrientColumns = map[string]func(*FoodRecord) pgtype.Float8{
	"vitamin_d": func(f *FoodRecord) pgtype.Float8 { return f.VitaminD },
	"vitamin_c": func(f *FoodRecord) pgtype.Float8 { return f.VitaminC },
	"calcium":   func(f *FoodRecord) pgtype.Float8 { return f.Calcium },
}

// NutrientColumns returns the recognized nutrient column names, sorted.
func NutrientColumns() []string {
	names := make([]string, 0, len(nutrientColumns))
	for name := range nutrientColumns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResultRow is the projected result shape. It marshals as the JSON array
// [food_id, food_name, price, menu_count]; absent fields encode as null
// and a whole price keeps its fraction ("7.0").
type ResultRow struct {
	FoodID    int64
	FoodName  pgtype.Text
	Price     pgtype.Float8
	MenuCount int
}

// MarshalJSON encodes the row as a fixed-order array.
func (r ResultRow) MarshalJSON() ([]byte, error) {
	price, err := floatJSON(r.Price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	return json.Marshal([]any{r.FoodID, r.FoodName, price, r.MenuCount})
}

// floatJSON encodes f as a JSON number that always reads as a float.
func floatJSON(f pgtype.Float8) (json.RawMessage, error) {
	if !f.Valid {
		return json.RawMessage("null"), nil
	}
	b, err := json.Marshal(f.Float64)
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}

// UnmarshalJSON decodes the fixed-order array written by MarshalJSON.
func (r *ResultRow) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("result row has %d fields, expected 4", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.FoodID); err != nil {
		return fmt.Errorf("food_id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &r.FoodName); err != nil {
		return fmt.Errorf("food_name: %w", err)
	}
	if err := json.Unmarshal(raw[2], &r.Price); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if err := json.Unmarshal(raw[3], &r.MenuCount); err != nil {
		return fmt.Errorf("menu_count: %w", err)
	}
	return nil
}

// Page is the result of a query: at most ResultLimit rows plus the number
// of further pages of PageSize rows.
type Page struct {
	Results   []ResultRow `json:"results"`
	PagesLeft int         `json:"pages_left"`

	Total int `json:"-"` // Matches before the ResultLimit cap
}

// NormalizeQuery trims and lowercases a query string.
func NormalizeQuery(q string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(q))
}

// Filter selects, sorts, and projects catalog rows for one query.
//
// Matching is case-insensitive but the sort by food_name is case-sensitive
// byte order ("Zucchini" sorts before "apple"). Rows without a name sort last.
func Filter(cat *Catalog, query string, mode Mode) (Page, error) {
	q := NormalizeQuery(query)

	var match func(*FoodRecord) bool
	switch mode {
	case ModeTextMatch:
		match = textMatcher(q)
	case ModeNutrientPresence:
		column, ok := nutrientColumns[q]
		if !ok {
			return Page{}, &UnknownFieldError{Field: q, Known: NutrientColumns()}
		}
		match = func(f *FoodRecord) bool { return column(f).Valid }
	default:
		return Page{}, fmt.Errorf("unknown search mode %d", int(mode))
	}

	var matches []*FoodRecord
	for i := range cat.Foods {
		if match(&cat.Foods[i]) {
			matches = append(matches, &cat.Foods[i])
		}
	}

	sortByName(matches)
	return paginate(matches), nil
}

// textMatcher returns a predicate matching q as a substring of the
// lowercased name or description. A Caser is not safe for concurrent use,
// so each Filter call gets its own.
func textMatcher(q string) func(*FoodRecord) bool {
	lower := cases.Lower(language.Und)
	contains := func(t pgtype.Text) bool {
		return t.Valid && strings.Contains(lower.String(t.String), q)
	}
	return func(f *FoodRecord) bool {
		return contains(f.FoodName) || contains(f.Description)
	}
}

func sortByName(rows []*FoodRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].FoodName, rows[j].FoodName
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.String < b.String
	})
}

// PagesLeft returns floor((total-1)/PageSize). Zero matches give -1; callers
// must not treat that as an error.
func PagesLeft(total int) int {
	if total <= 0 {
		return -1
	}
	return (total - 1) / PageSize
}

func paginate(matches []*FoodRecord) Page {
	n := min(len(matches), ResultLimit)
	results := make([]ResultRow, n)
	for i := 0; i < n; i++ {
		f := matches[i]
		results[i] = ResultRow{
			FoodID:    f.FoodID,
			FoodName:  f.FoodName,
			Price:     f.Price,
			MenuCount: f.MenuCount,
		}
	}
	return Page{Results: results, PagesLeft: PagesLeft(len(matches)), Total: len(matches)}
}
