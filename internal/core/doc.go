// Package core provides the business logic for the food catalog search service.
//
// # Overview
//
// The package turns a handful of raw tab-separated tables into one canonical
// food table and answers two kinds of query against it. It has no HTTP
// dependencies and is used by both the web server and the foodctl CLI.
//
// # Pipeline
//
//	Source (dir, s3, postgres, sqlite)
//	    │  Load: check every table, then read them all
//	    ▼
//	Tables (food, menu, nutrition, food_menu)
//	    │  Denormalize: validate headers, convert cells, outer joins
//	    ▼
//	Catalog (immutable, ordered by food_id)
//	    │  Filter: match, sort by food_name, cap at ResultLimit
//	    ▼
//	Page {results, pages_left}
//
// A Session owns one Catalog and builds it on first use. There is no refresh:
// a changed data set is picked up by restarting the process.
//
// # Column order
//
// Raw tables are positional. The header row must have exactly the expected
// number of columns and must not name a known column in the wrong position;
// see ValidateHeader. Strict mode additionally requires every header cell to
// equal the canonical column name.
//
// # Error Handling
//
// Typed errors live in errors.go (DataSourceMissingError, UnknownFieldError,
// SchemaError, MalformedRowError). MapError in error_messages.go converts any
// error into a UserMessage with a support code.
package core
