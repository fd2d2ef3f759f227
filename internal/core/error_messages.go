package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// Each user-facing failure carries a code that can be quoted back when a
// problem is reported. Codes are grouped by category:
//
// # Network Errors (NET001-NET099)
//
//	NET001 - Upstream error: The artwork service returned an error status
//	         Action: Please try again in a few moments
//	         Patterns: "upstream status"
//
//	NET002 - Malformed response: The artwork service sent data we could not read
//	         Action: Please try again later
//	         Patterns: "malformed upstream response"
//
//	NET003 - Unreachable: Unable to reach the artwork service
//	         Action: Check your connection and try again
//	         Patterns: "connection refused", "no such host"
//
//	NET004 - Timeout: The artwork service took too long to respond
//	         Action: Please try again
//	         Patterns: "timeout"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid count: Row count is outside the allowed range
//	         Patterns: "invalid row count"
//
//	VAL002 - Invalid page: Page number is outside the allowed range
//	         Patterns: "invalid page"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: Viewer session not found
//	         Patterns: "session not found"
//
//	SES002 - Stale selection: The page changed before the selection arrived
//	         Patterns: "stale page"
//
//	SES003 - Nothing loaded: No page has been loaded yet
//	         Patterns: "no page loaded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
//	REQ003 - Bad request: The request could not be understood
//	         Patterns: "invalid request"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit", "too many catalog fetches"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the original technical error.
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. The first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Request lifecycle (REQ001-REQ002)
	// Checked before network patterns: a cancelled fetch wraps these.
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
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Network Errors (NET001-NET004)
	// =========================================================================
	{
		pattern: "malformed upstream response",
		msg: UserMessage{
			Message: "The artwork service sent data we could not read",
			Action:  "Please try again later",
			Code:    "NET002",
		},
	},
	{
		pattern: "upstream status",
		msg: UserMessage{
			Message: "The artwork service returned an error",
			Action:  "Please try again in a few moments",
			Code:    "NET001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the artwork service",
			Action:  "Check your connection and try again",
			Code:    "NET003",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "Unable to reach the artwork service",
			Action:  "Check your connection and try again",
			Code:    "NET003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The artwork service took too long to respond",
			Action:  "Please try again",
			Code:    "NET004",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL002)
	// =========================================================================
	{
		pattern: "invalid row count",
		msg: UserMessage{
			Message: "Row count is outside the allowed range",
			Action:  "Enter a number between 1 and the rows on this page",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid page",
		msg: UserMessage{
			Message: "Page number is outside the allowed range",
			Action:  "Pick a page from the paginator",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// Session Errors (SES001-SES003)
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Viewer session not found",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "stale page",
		msg: UserMessage{
			Message: "The page changed before your selection arrived",
			Action:  "Review the current page and try again",
			Code:    "SES002",
		},
	},
	{
		pattern: "no page loaded",
		msg: UserMessage{
			Message: "No page has been loaded yet",
			Action:  "Wait for the table to load and try again",
			Code:    "SES003",
		},
	},

	// =========================================================================
	// Malformed requests (REQ003)
	// =========================================================================
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Reload the page and try again",
			Code:    "REQ003",
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
	{
		pattern: "too many catalog fetches",
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
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first pattern match, or ERR000 when nothing matches.
//
// Example:
//
//	err := errors.New("catalog fetch: upstream status 503")
//	msg := MapError(err)
//	// msg.Code == "NET001"
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

// IsUserFacing checks if an error matches a known pattern.
// Returns false for nil and for the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
