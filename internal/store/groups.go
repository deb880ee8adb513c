package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/candidatehub/userimport/internal/core"
)

// GroupStore resolves user groups scoped to a client.
type GroupStore struct {
	db DBTX
}

// Get returns core.ErrGroupNotFound when the group does not exist under
// the given client. A group belonging to another client is indistinguishable
// from a missing one, by the same query.
func (s *GroupStore) Get(ctx context.Context, id, client uuid.UUID) (core.Group, error) {
	var g core.Group
	err := s.db.QueryRow(ctx,
		`SELECT id, client, name FROM user_groups WHERE id = $1 AND client = $2`,
		id, client,
	).Scan(&g.ID, &g.Client, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Group{}, core.ErrGroupNotFound
	}
	if err != nil {
		return core.Group{}, fmt.Errorf("get user group %s: %w", id, err)
	}
	return g, nil
}
