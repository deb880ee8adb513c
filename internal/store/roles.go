package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/candidatehub/userimport/internal/core"
)

// RoleStore resolves roles by name.
type RoleStore struct {
	db DBTX
}

// FindByName returns core.ErrRoleNotFound when no role has the name.
func (s *RoleStore) FindByName(ctx context.Context, name string) (core.Role, error) {
	var role core.Role
	err := s.db.QueryRow(ctx,
		`SELECT id, name FROM roles WHERE name = $1`, name,
	).Scan(&role.ID, &role.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Role{}, core.ErrRoleNotFound
	}
	if err != nil {
		return core.Role{}, fmt.Errorf("find role %q: %w", name, err)
	}
	return role, nil
}
