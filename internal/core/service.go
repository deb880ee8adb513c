package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/candidatehub/userimport/internal/logging"
)

// Options tunes the pipeline. Zero values fall back to defaults.
type Options struct {
	// FirstErrors is the error-budget capacity: how many offending rows are
	// reported before validation stops scanning.
	FirstErrors int

	// HashWorkers bounds the password-hashing fan-out.
	HashWorkers int
}

// DefaultHashWorkers bounds the hashing fan-out when not configured.
// bcrypt is CPU-bound, so more workers than cores buys nothing.
const DefaultHashWorkers = 8

// Service runs the bulk upload pipeline. All collaborators are injected;
// the service holds no request state and is safe for concurrent use.
type Service struct {
	users   UserStore
	roles   RoleStore
	groups  GroupStore
	configs ConfigProvider
	hasher  Hasher
	audit   AuditRecorder // optional

	firstErrors int
	hashWorkers int
}

// NewService wires the pipeline's collaborators. audit may be nil.
func NewService(users UserStore, roles RoleStore, groups GroupStore, configs ConfigProvider, hasher Hasher, audit AuditRecorder, opts Options) *Service {
	firstErrors := opts.FirstErrors
	if firstErrors <= 0 {
		firstErrors = DefaultFirstErrors
	}
	hashWorkers := opts.HashWorkers
	if hashWorkers <= 0 {
		hashWorkers = DefaultHashWorkers
	}

	return &Service{
		users:       users,
		roles:       roles,
		groups:      groups,
		configs:     configs,
		hasher:      hasher,
		audit:       audit,
		firstErrors: firstErrors,
		hashWorkers: hashWorkers,
	}
}

// BulkUploadRequest is one parsed upload: the decoded rows, the CSV header
// list as it appeared in the file, the caller's client, and an optional
// group plus caller-supplied schema extension.
type BulkUploadRequest struct {
	Headers   []string
	Users     []CsvUser
	Client    uuid.UUID
	Group     uuid.NullUUID
	Extension *Schema
}

// BulkUploadResult is the success acknowledgment. No per-row results or
// inserted ids are surfaced.
type BulkUploadResult struct {
	Success bool `json:"success"`
	Rows    int  `json:"rows"`
}

// BulkUpload runs the full pipeline: header validation, normalization,
// uniqueness indexing, budget-bounded schema and persisted-conflict
// validation, then the bulk creation flow. On any failure the batch is not
// persisted, in whole or in part.
func (s *Service) BulkUpload(ctx context.Context, req BulkUploadRequest) (BulkUploadResult, error) {
	start := time.Now()
	logger := logging.WithFields(ctx, "client", req.Client, "rows", len(req.Users))

	result, err := s.bulkUpload(ctx, req)
	s.recordAudit(ctx, req, err, time.Since(start))

	if err != nil {
		logger.Warn("bulk upload rejected", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return BulkUploadResult{}, err
	}

	logger.Info("bulk upload complete", "inserted", result.Rows, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (s *Service) bulkUpload(ctx context.Context, req BulkUploadRequest) (BulkUploadResult, error) {
	// Config is fetched fresh per request; it defines both the allowed
	// header set and the config snapshot attached to created users.
	cfg, err := s.configs.DefaultConfig(ctx, req.Client)
	if err != nil {
		return BulkUploadResult{}, err
	}

	if err := ValidateHeaders(req.Headers, cfg); err != nil {
		return BulkUploadResult{}, err
	}
	if len(req.Users) == 0 {
		return BulkUploadResult{}, ErrEmptyInput
	}

	NormalizeRows(req.Users)
	idx := BuildUniquenessIndex(req.Users)

	schema := BaseSchema(cfg)
	if req.Extension != nil {
		schema = schema.Merge(*req.Extension)
	}

	budget := NewErrorBudget(s.firstErrors, len(req.Users))
	ValidateRows(req.Users, idx, schema, budget)

	if err := CheckPersistedConflicts(ctx, s.users, req.Users, idx, budget, s.firstErrors); err != nil {
		return BulkUploadResult{}, err
	}
	if err := budget.Report(); err != nil {
		return BulkUploadResult{}, err
	}

	if err := s.createUsers(ctx, req, cfg); err != nil {
		return BulkUploadResult{}, err
	}
	return BulkUploadResult{Success: true, Rows: len(req.Users)}, nil
}

// recordAudit persists the attempt outcome. Best-effort: failures are
// logged and swallowed so audit trouble never fails an upload.
func (s *Service) recordAudit(ctx context.Context, req BulkUploadRequest, uploadErr error, elapsed time.Duration) {
	if s.audit == nil {
		return
	}

	entry := AuditEntry{
		Client:     req.Client,
		Rows:       len(req.Users),
		Outcome:    "created",
		DurationMs: elapsed.Milliseconds(),
	}
	if uploadErr != nil {
		entry.Detail = uploadErr.Error()
		var vf *ValidationFailedError
		switch {
		case errors.As(uploadErr, &vf):
			entry.Outcome = "validation_failed"
		case errors.Is(uploadErr, ErrDuplicateUser),
			errors.Is(uploadErr, ErrRoleNotFound),
			errors.Is(uploadErr, ErrGroupNotFound),
			errors.Is(uploadErr, ErrEmptyInput):
			entry.Outcome = "rejected"
		default:
			var ih *InvalidHeaderError
			if errors.As(uploadErr, &ih) {
				entry.Outcome = "rejected"
			} else {
				entry.Outcome = "error"
			}
		}
	}

	if err := s.audit.Record(ctx, entry); err != nil {
		logging.FromContext(ctx).Error("audit record failed", "error", err)
	}
}
