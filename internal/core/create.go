package core

// create.go implements the bulk creation flow that runs once validation
// has passed: resolve the Candidate role, verify group visibility, hash
// every password, and perform exactly one bulk insert.

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// createUsers runs the post-validation creation steps. Any failure aborts
// the whole request before or during the single insert; the store
// guarantees nothing is persisted on error.
func (s *Service) createUsers(ctx context.Context, req BulkUploadRequest, cfg RegistrationConfig) error {
	role, err := s.roles.FindByName(ctx, CandidateRoleName)
	if err != nil {
		return err
	}

	if req.Group.Valid {
		// Group lookup errors (not found, forbidden) propagate verbatim.
		if _, err := s.groups.Get(ctx, req.Group.UUID, req.Client); err != nil {
			return err
		}
	}

	resolved, err := s.hashAndResolve(ctx, req, role, cfg)
	if err != nil {
		return err
	}

	return s.users.BulkInsert(ctx, resolved)
}

// hashAndResolve hashes every row's password with a bounded fan-out and
// decorates the rows into ResolvedUsers. Completion order is arbitrary but
// results are reassembled in original row order.
func (s *Service) hashAndResolve(ctx context.Context, req BulkUploadRequest, role Role, cfg RegistrationConfig) ([]ResolvedUser, error) {
	resolved := make([]ResolvedUser, len(req.Users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.hashWorkers)

	for i, u := range req.Users {
		g.Go(func() error {
			hashed, err := s.hasher.Hash(gctx, u.Password)
			if err != nil {
				return fmt.Errorf("hash password for line %d: %w", lineFor(i), err)
			}
			resolved[i] = ResolvedUser{
				CsvUser:        u,
				HashedPassword: hashed,
				RoleID:         role.ID,
				ConfigID:       cfg.ID,
				Client:         req.Client,
				Group:          req.Group,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}
