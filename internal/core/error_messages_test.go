package core

import (
	"errors"
	"fmt"
	"testing"
)

// ============================================================================
// MapError
// ============================================================================

func TestMapErrorTypedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid header", &InvalidHeaderError{Header: "roleName"}, "VAL010"},
		{"validation report", &ValidationFailedError{Rows: []RowReport{{Line: 2}}}, "VAL001"},
		{"empty input", ErrEmptyInput, "FILE005"},
		{"duplicate user", ErrDuplicateUser, "DB001"},
		{"role missing", ErrRoleNotFound, "UPL010"},
		{"group missing", ErrGroupNotFound, "UPL011"},
		{"too many uploads", ErrTooManyUploads, "UPL002"},
		{"wrapped duplicate user", fmt.Errorf("insert users: %w", ErrDuplicateUser), "DB001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			if msg.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", msg.Code, tt.wantCode)
			}
			if msg.Message == "" || msg.Action == "" {
				t.Errorf("incomplete message: %+v", msg)
			}
		})
	}
}

func TestMapErrorDuplicateUserMessage(t *testing.T) {
	msg := MapError(ErrDuplicateUser)
	if msg.Message != "User with that userName already exist" {
		t.Errorf("message = %q", msg.Message)
	}
}

func TestMapErrorHeaderDiagnostics(t *testing.T) {
	msg := MapError(&InvalidHeaderError{Header: "salary", Allowed: []string{"userName"}})
	if msg.Message != "Invalid CSV headers" {
		t.Errorf("message = %q", msg.Message)
	}
	if want := `Remove the column "salary" or download the current template`; msg.Action != want {
		t.Errorf("action = %q, want %q", msg.Action, want)
	}
}

func TestMapErrorPatternTable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"unique constraint", errors.New(`ERROR: duplicate key value violates unique constraint "users_user_name_idx"`), "DB002"},
		{"duplicate key without constraint wording", errors.New("duplicate key in batch"), "DB001"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "DB004"},
		{"deadline", errors.New("context deadline exceeded"), "UPL005"},
		{"canceled", errors.New("context canceled"), "UPL004"},
		{"body too large", errors.New("http: request body too large"), "FILE001"},
		{"case insensitive", errors.New("CONNECTION REFUSED"), "DB004"},
		{"unknown", errors.New("something odd happened"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := MapError(tt.err); msg.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", msg.Code, tt.wantCode)
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	if msg := MapError(nil); msg != (UserMessage{}) {
		t.Errorf("expected zero message for nil error, got %+v", msg)
	}
}
