package source

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// formatCell renders a database value as the text a TSV export would hold,
// so SQL and blob sources share one conversion path. NULL becomes "".
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		if !x.Valid {
			return ""
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// newTable starts a RawTable with the given column names as its header.
func newTable(spec core.TableSpec, header []string) *core.RawTable {
	return &core.RawTable{Spec: spec, Header: header}
}

// appendRow adds one row of database values. Line numbers count the header
// as line 1, the way a TSV export of the table would.
func appendRow(t *core.RawTable, values []any) {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = formatCell(v)
	}
	t.Rows = append(t.Rows, cells)
	t.Lines = append(t.Lines, len(t.Rows)+1)
}

// quoteIdentifier quotes a table name for SQL. Postgres and SQLite share
// the double-quote syntax.
func quoteIdentifier(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, name[i])
	}
	return string(append(out, '"'))
}
