package core

// # Error Codes Reference
//
// User-facing error messages with codes for support reference. Clients
// receive the code in every error response and can quote it when reporting
// problems.
//
// # Data Errors (DATA001-DATA099)
//
// Errors raised while loading the catalog:
//
//	DATA001 - Data source missing: catalog data directory or file not found
//	          Action: Check DATA_DIR (or the S3/database settings) and restart
//	          Patterns: "data source missing"
//
//	DATA002 - Schema mismatch: a table header does not match the expected columns
//	          Action: Re-export the file with the documented column order
//	          Patterns: "schema mismatch"
//
//	DATA003 - Malformed row: a row could not be converted
//	          Action: Fix the reported line and restart
//	          Patterns: "malformed row"
//
// # Query Errors (QRY001-QRY099)
//
// Errors caused by client input:
//
//	QRY001 - Unknown field: nutrient name is not a catalog column
//	         Action: Use vitamin_c, vitamin_d, or calcium
//	         Patterns: "unknown field"
//
//	QRY002 - Unknown mode: search mode is not recognized
//	         Action: Use mode=text or mode=nutrient
//	         Patterns: "unknown search mode"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the server log for the
// technical error; it is logged with the request id.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains against the
// full error chain text. The first matching pattern wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Data Errors (DATA001-DATA003)
	// =========================================================================
	{
		pattern: "data source missing",
		msg: UserMessage{
			Message: "Catalog data is not available",
			Action:  "Check the configured data location and restart the service",
			Code:    "DATA001",
		},
	},
	{
		pattern: "schema mismatch",
		msg: UserMessage{
			Message: "Catalog data has an unexpected column layout",
			Action:  "Re-export the source files with the documented column order",
			Code:    "DATA002",
		},
	},
	{
		pattern: "malformed row",
		msg: UserMessage{
			Message: "Catalog data contains an invalid row",
			Action:  "Fix the reported line in the source file and restart",
			Code:    "DATA003",
		},
	},

	// =========================================================================
	// Query Errors (QRY001-QRY002)
	// =========================================================================
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Unknown nutrient",
			Action:  "Use one of: " + strings.Join(NutrientColumns(), ", "),
			Code:    "QRY001",
		},
	},
	{
		pattern: "unknown search mode",
		msg: UserMessage{
			Message: "Unknown search mode",
			Action:  "Use mode=text or mode=nutrient",
			Code:    "QRY002",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first pattern match, or the ERR000 fallback.
//
// Example:
//
//	_, err := core.Filter(cat, "iron", core.ModeNutrientPresence)
//	msg := core.MapError(err)
//	// msg.Code == "QRY001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsClientError reports whether err was caused by the caller's input rather
// than by the server or its data.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnknownField) {
		return true
	}
	return MapError(err).Code == "QRY002"
}

// IsUserFacing checks if an error matches a known pattern.
// Returns false for the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
