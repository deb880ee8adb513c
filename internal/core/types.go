// Package core implements the users bulk upload pipeline: header and
// schema validation, in-file and persisted uniqueness checks bounded by an
// error budget, and the bulk creation flow that hashes credentials and
// performs a single atomic insert.
// This package has no HTTP or storage dependencies; collaborators are
// injected through the interfaces defined here.
package core

import (
	"context"

	"github.com/google/uuid"
)

// Gender values accepted in the CSV after normalization.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// CsvUser is one candidate record decoded from the uploaded CSV.
// It lives for the duration of one request and is never persisted directly.
type CsvUser struct {
	UserName    string
	Password    string
	FullName    string
	Gender      string
	DateOfBirth string
	Email       string // optional
}

// FieldDescriptor describes one field allowed by a registration config.
type FieldDescriptor struct {
	FieldName string `json:"fieldName"`
	Required  bool   `json:"required"`
}

// RegistrationConfig is the per-client registration snapshot fetched fresh
// for every request. Its fields define the allowed CSV header set and the
// config attached to created users.
type RegistrationConfig struct {
	ID     uuid.UUID
	Fields []FieldDescriptor
}

// Role is a resolved role reference. Bulk-created users always get the
// Candidate role.
type Role struct {
	ID   uuid.UUID
	Name string
}

// CandidateRoleName is the fixed role assigned to bulk-created users.
const CandidateRoleName = "Candidate"

// Group is a user group scoped to a client.
type Group struct {
	ID     uuid.UUID
	Client uuid.UUID
	Name   string
}

// ExistingUser carries the two uniqueness-compared fields of a persisted
// user, as returned by UserStore.FindExisting.
type ExistingUser struct {
	Email    string
	UserName string
}

// ResolvedUser is a validated CsvUser enriched with a hashed credential and
// resolved role/config/client/group. It is the unit actually persisted and
// is never mutated after construction.
type ResolvedUser struct {
	CsvUser
	HashedPassword string
	RoleID         uuid.UUID
	ConfigID       uuid.UUID
	Client         uuid.UUID
	Group          uuid.NullUUID
}

// UserStore is the persistence contract for user records.
type UserStore interface {
	// FindExisting returns persisted users whose email is in emails or whose
	// userName is in userNames, at most limit rows, only the compared fields.
	FindExisting(ctx context.Context, emails, userNames []string, limit int) ([]ExistingUser, error)

	// BulkInsert writes all users in one transaction. A unique-constraint
	// violation yields ErrDuplicateUser and nothing is persisted.
	BulkInsert(ctx context.Context, users []ResolvedUser) error
}

// RoleStore resolves roles by name.
type RoleStore interface {
	// FindByName returns ErrRoleNotFound if no role has the given name.
	FindByName(ctx context.Context, name string) (Role, error)
}

// GroupStore resolves user groups scoped to a client.
type GroupStore interface {
	// Get returns ErrGroupNotFound if the group does not exist or is not
	// visible under the given client.
	Get(ctx context.Context, id, client uuid.UUID) (Group, error)
}

// ConfigProvider fetches the default registration config for a client.
type ConfigProvider interface {
	DefaultConfig(ctx context.Context, client uuid.UUID) (RegistrationConfig, error)
}

// Hasher turns a plaintext password into an opaque stored credential.
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
}

// AuditRecorder persists one entry per bulk upload attempt. Recording is
// best-effort; failures are logged, never surfaced to the caller.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditEntry summarizes the outcome of one bulk upload attempt.
type AuditEntry struct {
	Client     uuid.UUID
	Rows       int
	Outcome    string // "created", "validation_failed", "rejected", "error"
	Detail     string
	DurationMs int64
}
