package core

import (
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgtype"
)

// DenormalizeOptions controls header validation.
type DenormalizeOptions struct {
	StrictHeaders bool
}

// Denormalize joins the raw tables into the canonical food table.
//
// food and nutrition are full-outer-joined on food_id: every food and every
// nutrition row appears exactly once. When a food_menu table is present its
// rows are counted per food_id and outer-joined the same way; foods without
// associations get MenuCount 0. Without food_menu (reduced variant) every
// MenuCount is 0.
//
// The result is ordered by FoodID so repeated loads are identical.
func Denormalize(tables Tables, opts DenormalizeOptions) (*Catalog, error) {
	for _, name := range []string{TableFood, TableMenu, TableNutrition} {
		if tables[name] == nil {
			return nil, fmt.Errorf("denormalize: table %s not loaded", name)
		}
	}

	foods, err := decodeFoods(tables[TableFood], opts.StrictHeaders)
	if err != nil {
		return nil, err
	}
	menus, err := decodeMenus(tables[TableMenu], opts.StrictHeaders)
	if err != nil {
		return nil, err
	}
	nutrition, err := decodeNutrition(tables[TableNutrition], opts.StrictHeaders)
	if err != nil {
		return nil, err
	}

	records := joinNutrition(foods, nutrition)

	reduced := true
	if t := tables[TableFoodMenu]; t != nil {
		assoc, err := decodeAssociations(t, opts.StrictHeaders)
		if err != nil {
			return nil, err
		}
		records = joinMenuCounts(records, countMenus(assoc))
		reduced = false
	}

	sort.Slice(records, func(i, j int) bool { return records[i].FoodID < records[j].FoodID })

	return &Catalog{
		Reduced: reduced,
		Foods:   records,
		Menus:   menus,
	}, nil
}

// joinNutrition outer-joins nutrition rows onto foods by FoodID.
// The nutrition primary key is dropped.
func joinNutrition(foods []FoodRecord, nutrition []NutritionRecord) []FoodRecord {
	records := make([]FoodRecord, len(foods), len(foods)+len(nutrition))
	copy(records, foods)

	index := make(map[int64]int, len(records))
	for i := range records {
		index[records[i].FoodID] = i
	}

	for _, n := range nutrition {
		i, ok := index[n.FoodID]
		if !ok {
			records = append(records, FoodRecord{FoodID: n.FoodID})
			i = len(records) - 1
			index[n.FoodID] = i
		}
		records[i].VitaminD = n.VitaminD
		records[i].VitaminC = n.VitaminC
		records[i].Calcium = n.Calcium
	}
	return records
}

// countMenus returns the number of association rows per food_id.
func countMenus(assoc []FoodMenuAssociation) map[int64]int {
	counts := make(map[int64]int)
	for _, a := range assoc {
		counts[a.FoodID]++
	}
	return counts
}

// joinMenuCounts outer-joins per-food menu counts onto records.
// Food ids that appear only in the association table become orphan records.
func joinMenuCounts(records []FoodRecord, counts map[int64]int) []FoodRecord {
	seen := make(map[int64]bool, len(records))
	for i := range records {
		records[i].MenuCount = counts[records[i].FoodID]
		seen[records[i].FoodID] = true
	}

	var orphans []int64
	for id := range counts {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, id := range orphans {
		records = append(records, FoodRecord{FoodID: id, MenuCount: counts[id]})
	}
	return records
}

// rowDecoder walks a raw table's rows with typed accessors.
// The first conversion error is kept and reported with its line and column.
type rowDecoder struct {
	table *RawTable
	row   int
	err   error
}

func newRowDecoder(t *RawTable, strict bool) (*rowDecoder, error) {
	if err := ValidateHeader(t.Spec, t.Header, strict); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Spec.Columns) {
			return nil, &MalformedRowError{
				Table:  t.Spec.Name,
				Line:   t.Line(i),
				Reason: fmt.Sprintf("row has %d columns, expected %d", len(row), len(t.Spec.Columns)),
			}
		}
	}
	return &rowDecoder{table: t}, nil
}

func (d *rowDecoder) fail(col int, err error) {
	if d.err != nil {
		return
	}
	d.err = &MalformedRowError{
		Table:  d.table.Spec.Name,
		Line:   d.table.Line(d.row),
		Column: d.table.Spec.Columns[col].Name,
		Reason: err.Error(),
	}
}

func (d *rowDecoder) id(col int) int64 {
	v, err := ToID(d.table.Rows[d.row][col])
	if err != nil {
		d.fail(col, err)
	}
	return v
}

func (d *rowDecoder) text(col int) pgtype.Text {
	return ToText(d.table.Rows[d.row][col])
}

func (d *rowDecoder) number(col int) pgtype.Float8 {
	v, err := ToFloat8(d.table.Rows[d.row][col])
	if err != nil {
		d.fail(col, err)
	}
	return v
}

func (d *rowDecoder) duplicate(col int, id int64) {
	d.fail(col, fmt.Errorf("duplicate %s %d", d.table.Spec.Columns[col].Name, id))
}

func decodeFoods(t *RawTable, strict bool) ([]FoodRecord, error) {
	d, err := newRowDecoder(t, strict)
	if err != nil {
		return nil, err
	}
	out := make([]FoodRecord, 0, len(t.Rows))
	seen := make(map[int64]bool, len(t.Rows))
	for d.row = 0; d.row < len(t.Rows); d.row++ {
		f := FoodRecord{
			FoodID:      d.id(0),
			FoodName:    d.text(1),
			Description: d.text(2),
			Price:       d.number(3),
			ImageRef:    d.text(4),
			ImportName:  d.text(5),
		}
		if d.err == nil && seen[f.FoodID] {
			d.duplicate(0, f.FoodID)
		}
		if d.err != nil {
			return nil, d.err
		}
		seen[f.FoodID] = true
		out = append(out, f)
	}
	return out, nil
}

func decodeMenus(t *RawTable, strict bool) ([]MenuRecord, error) {
	d, err := newRowDecoder(t, strict)
	if err != nil {
		return nil, err
	}
	out := make([]MenuRecord, 0, len(t.Rows))
	for d.row = 0; d.row < len(t.Rows); d.row++ {
		m := MenuRecord{MenuID: d.id(0), MenuName: d.text(1)}
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeNutrition(t *RawTable, strict bool) ([]NutritionRecord, error) {
	d, err := newRowDecoder(t, strict)
	if err != nil {
		return nil, err
	}
	out := make([]NutritionRecord, 0, len(t.Rows))
	seen := make(map[int64]bool, len(t.Rows))
	for d.row = 0; d.row < len(t.Rows); d.row++ {
		n := NutritionRecord{
			NutritionID: d.id(0),
			FoodID:      d.id(1),
			VitaminD:    d.number(2),
			VitaminC:    d.number(3),
			Calcium:     d.number(4),
		}
		if d.err == nil && seen[n.FoodID] {
			d.duplicate(1, n.FoodID)
		}
		if d.err != nil {
			return nil, d.err
		}
		seen[n.FoodID] = true
		out = append(out, n)
	}
	return out, nil
}

func decodeAssociations(t *RawTable, strict bool) ([]FoodMenuAssociation, error) {
	d, err := newRowDecoder(t, strict)
	if err != nil {
		return nil, err
	}
	out := make([]FoodMenuAssociation, 0, len(t.Rows))
	for d.row = 0; d.row < len(t.Rows); d.row++ {
		a := FoodMenuAssociation{FoodMenuID: d.id(0), FoodID: d.id(1), MenuID: d.id(2)}
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, a)
	}
	return out, nil
}
