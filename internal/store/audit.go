package store

import (
	"context"
	"fmt"

	"github.com/candidatehub/userimport/internal/core"
)

// AuditStore records one row per bulk upload attempt.
type AuditStore struct {
	db DBTX
}

const insertAuditSQL = `
INSERT INTO upload_audit (client, row_count, outcome, detail, duration_ms)
VALUES ($1, $2, $3, $4, $5)`

// Record inserts an audit entry. The core service treats failures as
// best-effort; this method only reports them.
func (s *AuditStore) Record(ctx context.Context, entry core.AuditEntry) error {
	_, err := s.db.Exec(ctx, insertAuditSQL,
		entry.Client, entry.Rows, entry.Outcome, entry.Detail, entry.DurationMs)
	if err != nil {
		return fmt.Errorf("record upload audit: %w", err)
	}
	return nil
}
