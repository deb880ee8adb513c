package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/candidatehub/userimport/internal/core"
)

// ConfigStore fetches registration-config snapshots.
type ConfigStore struct {
	db DBTX
}

// ErrNoDefaultConfig is returned when neither a client-specific nor a
// global default registration config exists.
var ErrNoDefaultConfig = errors.New("no default registration config")

const defaultConfigSQL = `
SELECT id, fields
FROM registration_configs
WHERE is_default AND (client = $1 OR client IS NULL)
ORDER BY client NULLS LAST
LIMIT 1`

// DefaultConfig returns the client's default registration config, falling
// back to the global default (client IS NULL). Fetched fresh per request;
// the snapshot is never cached because admins edit configs live.
func (s *ConfigStore) DefaultConfig(ctx context.Context, client uuid.UUID) (core.RegistrationConfig, error) {
	var (
		cfg    core.RegistrationConfig
		fields []byte
	)
	err := s.db.QueryRow(ctx, defaultConfigSQL, client).Scan(&cfg.ID, &fields)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.RegistrationConfig{}, ErrNoDefaultConfig
	}
	if err != nil {
		return core.RegistrationConfig{}, fmt.Errorf("fetch default registration config: %w", err)
	}

	if err := json.Unmarshal(fields, &cfg.Fields); err != nil {
		return core.RegistrationConfig{}, fmt.Errorf("decode registration config fields: %w", err)
	}
	return cfg, nil
}
