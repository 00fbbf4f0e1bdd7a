package core

// convert.go turns raw cells into typed values.
//
// Cells come from pandas exports and hand-edited spreadsheets, so:
//   - pandas null markers ("NaN", "NA", "null", ...) are treated as empty
//   - numbers may carry currency symbols and thousands separators
//   - integer keys may be written as floats ("12.0") by pandas
//
// Text and numeric converters return pgtype values with Valid=false for
// empty input; that is how absent fields are represented throughout.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// nullMarkers are the strings pandas writes or reads as missing values.
// Numeric and id cells compare case-insensitively; a word that is not a
// number is rejected there anyway.
var nullMarkers = map[string]bool{
	"nan": true, "na": true, "n/a": true, "#n/a": true,
	"null": true, "none": true, "<na>": true,
}

// textNullMarkers is pandas' default NA set. Text cells match it exactly,
// so names such as "Na" or "NONE" survive.
var textNullMarkers = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// isNull reports whether a trimmed numeric cell represents a missing value.
func isNull(s string) bool {
	return s == "" || nullMarkers[strings.ToLower(s)]
}

// ToText converts a cell to pgtype.Text.
// Returns invalid if the cell is empty, whitespace, or a pandas NA marker.
func ToText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" || textNullMarkers[s] {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToFloat8 converts a cell to pgtype.Float8.
// Empty cells and null markers yield an invalid value and no error.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative).
func ToFloat8(s string) (pgtype.Float8, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return pgtype.Float8{Valid: false}, nil
	}
	raw := s

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}, fmt.Errorf("invalid number %q", raw)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}, fmt.Errorf("invalid number %q", raw)
	}
	return pgtype.Float8{Float64: f, Valid: true}, nil
}

// ToID converts a required integer key. Integral floats ("12.0") are accepted.
func ToID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return 0, fmt.Errorf("missing id")
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int64(f), nil
}
