package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. The typed errors below match them.
var (
	ErrDataSourceMissing = errors.New("data source missing")
	ErrUnknownField      = errors.New("unknown field")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrMalformedRow      = errors.New("malformed row")
)

// MissingCause says which part of a data source could not be used.
type MissingCause int

const (
	CauseMissingRoot MissingCause = iota + 1 // Data root (directory, bucket, database) absent
	CauseMissingFile                         // Root exists but the table does not
	CauseUnreadable                          // Table exists but cannot be read
)

func (c MissingCause) String() string {
	switch c {
	case CauseMissingRoot:
		return "missing root"
	case CauseMissingFile:
		return "missing file"
	case CauseUnreadable:
		return "unreadable file"
	default:
		return "unknown cause"
	}
}

// DataSourceMissingError reports a data root or table that is absent or unreadable.
type DataSourceMissingError struct {
	Path  string
	Cause MissingCause
	Err   error
}

func (e *DataSourceMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source missing: %s %s: %v", e.Cause, e.Path, e.Err)
	}
	return fmt.Sprintf("data source missing: %s %s", e.Cause, e.Path)
}

func (e *DataSourceMissingError) Is(target error) bool { return target == ErrDataSourceMissing }

func (e *DataSourceMissingError) Unwrap() error { return e.Err }

// UnknownFieldError reports a nutrient query naming a column that does not exist.
type UnknownFieldError struct {
	Field string
	Known []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q (expected one of: %s)", e.Field, strings.Join(e.Known, ", "))
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// SchemaError reports a header that does not match the expected column layout.
type SchemaError struct {
	Table  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: %s", e.Table, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }

// MalformedRowError reports a data row that cannot be converted.
// Any malformed row fails the whole load.
type MalformedRowError struct {
	Table  string
	Line   int
	Column string
	Reason string
}

func (e *MalformedRowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed row in %s", e.Table)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %s", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }
