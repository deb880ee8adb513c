package core

// error_messages.go maps technical errors to user-facing messages with
// support codes.
//
// Typed pipeline errors are matched first with errors.Is/errors.As; other
// errors (driver and transport failures) fall back to a case-insensitive
// substring table. The first matching pattern wins, so specific patterns
// come before general ones.
//
// Code ranges:
//
//	DB001-DB099   database constraints and connectivity
//	VAL001-VAL099 csv/schema validation
//	FILE001-FILE099 file handling
//	UPL001-UPL099 upload flow and throttling
//	ERR000        fallback
import (
	"errors"
	"strings"
)

// UserMessage is a user-friendly rendering of an error, with an actionable
// hint and a code support staff can look up.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A user with one of these values already exists",
			Action:  "Check your CSV for values that are already registered",
			Code:    "DB002",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A user with one of these values already exists",
			Action:  "Check your CSV for values that are already registered",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try uploading a smaller file or try again later",
			Code:    "UPL005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The uploaded file is too large",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
}

// fallbackMessage is returned when no pattern matches.
var fallbackMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts any pipeline or infrastructure error into a
// UserMessage for the web layer.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var headerErr *InvalidHeaderError
	var validationErr *ValidationFailedError

	switch {
	case errors.As(err, &headerErr):
		return UserMessage{
			Message: "Invalid CSV headers",
			Action:  "Remove the column \"" + headerErr.Header + "\" or download the current template",
			Code:    "VAL010",
		}
	case errors.As(err, &validationErr):
		return UserMessage{
			Message: "Some rows failed validation",
			Action:  "Fix the listed rows and upload again",
			Code:    "VAL001",
		}
	case errors.Is(err, ErrEmptyInput):
		return UserMessage{
			Message: "The uploaded CSV has no data rows",
			Action:  "Upload a CSV with at least one candidate row",
			Code:    "FILE005",
		}
	case errors.Is(err, ErrDuplicateUser):
		return UserMessage{
			Message: ErrDuplicateUser.Error(),
			Action:  "Remove users that are already registered and upload again",
			Code:    "DB001",
		}
	case errors.Is(err, ErrRoleNotFound):
		return UserMessage{
			Message: ErrRoleNotFound.Error(),
			Action:  "Contact an administrator to restore the Candidate role",
			Code:    "UPL010",
		}
	case errors.Is(err, ErrGroupNotFound):
		return UserMessage{
			Message: ErrGroupNotFound.Error(),
			Action:  "Verify the group id belongs to your client",
			Code:    "UPL011",
		}
	case errors.Is(err, ErrTooManyUploads):
		return UserMessage{
			Message: "Too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		}
	}

	lower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(lower, ep.pattern) {
			return ep.msg
		}
	}
	return fallbackMessage
}
