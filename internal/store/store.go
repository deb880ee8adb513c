// Package store implements the pgx-backed persistence collaborators used
// by the bulk upload pipeline: user, role, group, and registration-config
// stores plus the upload audit recorder.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the narrow database interface shared by the stores.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique-constraint errors.
const uniqueViolation = "23505"

// Stores bundles every persistence collaborator over one pool.
type Stores struct {
	Users   *UserStore
	Roles   *RoleStore
	Groups  *GroupStore
	Configs *ConfigStore
	Audit   *AuditStore
}

// New creates all stores over the given pool.
func New(pool *pgxpool.Pool) *Stores {
	return &Stores{
		Users:   &UserStore{pool: pool},
		Roles:   &RoleStore{db: pool},
		Groups:  &GroupStore{db: pool},
		Configs: &ConfigStore{db: pool},
		Audit:   &AuditStore{db: pool},
	}
}
