package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseTSV(t *testing.T) {
	spec := Specs(SpecOptions{})[1] // menu

	tests := []struct {
		name      string
		input     string
		wantRows  [][]string
		wantLines []int
	}{
		{
			name:      "header and rows",
			input:     tsv(row("menu_id", "menu_name"), row("1", "Breakfast"), row("2", "Lunch")),
			wantRows:  [][]string{{"1", "Breakfast"}, {"2", "Lunch"}},
			wantLines: []int{2, 3},
		},
		{
			name:  "strips UTF-8 BOM",
			input: "\xEF\xBB\xBF" + tsv(row("menu_id", "menu_name")),
		},
		{
			name:      "skips blank lines and keeps line numbers",
			input:     "menu_id\tmenu_name\n\n1\tBreakfast\n",
			wantRows:  [][]string{{"1", "Breakfast"}},
			wantLines: []int{3},
		},
		{
			name:      "CRLF line endings",
			input:     "menu_id\tmenu_name\r\n1\tBreakfast\r\n",
			wantRows:  [][]string{{"1", "Breakfast"}},
			wantLines: []int{2},
		},
		{
			name:      "no trailing newline",
			input:     "menu_id\tmenu_name\n1\tBreakfast",
			wantRows:  [][]string{{"1", "Breakfast"}},
			wantLines: []int{2},
		},
		{
			name:      "quotes inside a cell",
			input:     tsv(row("menu_id", "menu_name"), row("1", `Chef's "special"`)),
			wantRows:  [][]string{{"1", `Chef's "special"`}},
			wantLines: []int{2},
		},
		{
			name:      "leading quote does not span rows",
			input:     tsv(row("menu_id", "menu_name"), row("1", `"Jumbo" Hot Dog`), row("2", `Sub 12"`)),
			wantRows:  [][]string{{"1", `"Jumbo" Hot Dog`}, {"2", `Sub 12"`}},
			wantLines: []int{2, 3},
		},
		{
			name:      "unterminated quote stays on its line",
			input:     tsv(row("menu_id", "menu_name"), row("1", `"Open`), row("2", "Closed")),
			wantRows:  [][]string{{"1", `"Open`}, {"2", "Closed"}},
			wantLines: []int{2, 3},
		},
		{
			name:      "replaces invalid UTF-8",
			input:     tsv(row("menu_id", "menu_name"), row("1", "caf\xe9")),
			wantRows:  [][]string{{"1", "caf\uFFFD"}},
			wantLines: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseTSV(strings.NewReader(tt.input), spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(table.Header, []string{"menu_id", "menu_name"}) {
				t.Errorf("header = %q, want [menu_id menu_name]", table.Header)
			}
			if len(table.Rows) != len(tt.wantRows) || (len(tt.wantRows) > 0 && !reflect.DeepEqual(table.Rows, tt.wantRows)) {
				t.Errorf("rows = %q, want %q", table.Rows, tt.wantRows)
			}
			if len(table.Lines) != len(tt.wantLines) || (len(tt.wantLines) > 0 && !reflect.DeepEqual(table.Lines, tt.wantLines)) {
				t.Errorf("lines = %v, want %v", table.Lines, tt.wantLines)
			}
		})
	}
}

func TestParseTSV_EmptyInputHasNoHeader(t *testing.T) {
	spec := Specs(SpecOptions{})[1]
	for _, input := range []string{"", "\n\n", "\xEF\xBB\xBF"} {
		_, err := ParseTSV(strings.NewReader(input), spec)
		if !errors.Is(err, ErrSchemaMismatch) {
			t.Errorf("ParseTSV(%q) error = %v, want schema mismatch", input, err)
		}
	}
}
