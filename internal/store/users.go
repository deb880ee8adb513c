package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candidatehub/userimport/internal/core"
)

// UserStore persists user records. It needs the pool (not just DBTX)
// because BulkInsert owns its transaction.
type UserStore struct {
	pool *pgxpool.Pool
}

const findExistingSQL = `
SELECT COALESCE(email, ''), user_name
FROM users
WHERE email = ANY($1) OR user_name = ANY($2)
LIMIT $3`

// FindExisting returns persisted users whose email or username collides
// with the batch values, at most limit rows, only the compared fields.
func (s *UserStore) FindExisting(ctx context.Context, emails, userNames []string, limit int) ([]core.ExistingUser, error) {
	rows, err := s.pool.Query(ctx, findExistingSQL, emails, userNames, limit)
	if err != nil {
		return nil, fmt.Errorf("find existing users: %w", err)
	}
	defer rows.Close()

	var existing []core.ExistingUser
	for rows.Next() {
		var e core.ExistingUser
		if err := rows.Scan(&e.Email, &e.UserName); err != nil {
			return nil, fmt.Errorf("scan existing user: %w", err)
		}
		existing = append(existing, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find existing users: %w", err)
	}
	return existing, nil
}

const insertUserSQL = `
INSERT INTO users (user_name, password, full_name, gender, date_of_birth, email, role_id, config_id, client, group_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// BulkInsert writes the whole batch inside one transaction. Any failure
// rolls everything back, so the batch persists completely or not at all.
// A unique-constraint violation is translated into core.ErrDuplicateUser.
func (s *UserStore) BulkInsert(ctx context.Context, users []core.ResolvedUser) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(insertUserSQL,
			u.UserName,
			u.HashedPassword,
			u.FullName,
			u.Gender,
			dobValue(u.DateOfBirth),
			textOrNull(u.Email),
			u.RoleID,
			u.ConfigID,
			u.Client,
			u.Group,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range users {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return mapInsertError(err)
		}
	}
	if err := br.Close(); err != nil {
		return mapInsertError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// mapInsertError translates unique violations into the coarse conflict
// error; anything else propagates unchanged.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return core.ErrDuplicateUser
	}
	return fmt.Errorf("bulk insert users: %w", err)
}

// dobValue converts the validated date-of-birth string to a pg date.
func dobValue(value string) pgtype.Date {
	if t, ok := core.ParseDate(value); ok {
		return pgtype.Date{Time: t, Valid: true}
	}
	return pgtype.Date{}
}

// textOrNull stores empty strings as NULL so the partial unique index on
// email ignores rows without one.
func textOrNull(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}
