// Package service contains the business logic layer.
//
// Services orchestrate interactions between the repository and domain logic.
// They are responsible for:
// - Input validation
// - Business rule enforcement
// - Error translation (database errors -> domain errors)
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/metrics"
	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// InvalidCodeMessage is deliberately identical for unknown and inactive codes
// so that redemption attempts cannot probe which codes exist.
const InvalidCodeMessage = "Invalid or inactive access code"

// =============================================================================
// Interface Definition
// =============================================================================

// CodeService defines operations on access codes.
type CodeService interface {
	// Redeem validates an access code and applies its permission grants and
	// quota directive to the user. Grants are idempotent per permission key;
	// the quota is a monotonic ratchet and never decreases.
	// Returns domain.EINVALID when the code is unknown or inactive.
	Redeem(ctx context.Context, userID uuid.UUID, accessCode string) error

	// Create registers a new code (admin). The code string is stored uppercase.
	// Returns domain.ECONFLICT if the code string is already taken.
	Create(ctx context.Context, params domain.CreateCodeParams) (*domain.AccessCode, error)

	// List returns all codes newest first (admin).
	List(ctx context.Context) ([]*domain.AccessCode, error)

	// SetActive enables or disables a code (admin).
	// Returns domain.ENOTFOUND for an unknown id.
	SetActive(ctx context.Context, id int64, active bool) (*domain.AccessCode, error)
}

// =============================================================================
// Implementation
// =============================================================================

type codeService struct {
	queries repository.Querier
	logger  *slog.Logger
}

// NewCodeService creates a new CodeService.
func NewCodeService(queries repository.Querier, logger *slog.Logger) CodeService {
	return &codeService{
		queries: queries,
		logger:  logger,
	}
}

// Redeem runs the full redemption flow:
//
//  1. Normalize and look up the code (active rows only).
//  2. For every plain permission token, ensure a grant row exists.
//  3. For the highest quota directive, raise the stored quota to
//     max(current, directive) — skipped entirely when no directive is present.
//
// A store failure at any point fails the whole call. Grants written before
// the failure persist; there is no compensation step (single-statement
// atomicity is all the store guarantees).
func (s *codeService) Redeem(ctx context.Context, userID uuid.UUID, accessCode string) error {
	const op = "code.redeem"

	normalized := domain.NormalizeCode(accessCode)
	if normalized == "" {
		return domain.Invalid(op, "Access code is required")
	}

	repoCode, err := s.queries.GetActiveCodeByString(ctx, normalized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.CodesRedeemed.WithLabelValues("invalid").Inc()
			return domain.Invalid(op, InvalidCodeMessage)
		}
		metrics.CodesRedeemed.WithLabelValues("error").Inc()
		return domain.Internal(err, op, "Failed to look up access code")
	}

	code, err := codeToDomain(repoCode)
	if err != nil {
		metrics.CodesRedeemed.WithLabelValues("error").Inc()
		return domain.Internal(err, op, "Malformed permission list on access code")
	}

	keys, quotaToAdd := domain.SplitPermissions(code.Permissions)

	for _, key := range keys {
		inserted, err := s.queries.InsertPermissionGrant(ctx, repository.InsertPermissionGrantParams{
			UserID:        userID,
			PermissionKey: key,
			GrantedByCode: normalized,
		})
		if err != nil {
			metrics.CodesRedeemed.WithLabelValues("error").Inc()
			return domain.Internal(err, op, "Failed to grant permission")
		}
		if inserted {
			metrics.PermissionGrants.Inc()
		}
	}

	if quotaToAdd > 0 {
		if err := s.mergeQuota(ctx, op, userID, quotaToAdd); err != nil {
			metrics.CodesRedeemed.WithLabelValues("error").Inc()
			return err
		}
	}

	metrics.CodesRedeemed.WithLabelValues("success").Inc()
	s.logger.Info("access code redeemed",
		"user_id", userID,
		"code", normalized,
		"grants", len(keys),
		"quota_directive", quotaToAdd,
	)
	return nil
}

// mergeQuota applies the monotonic quota ratchet for a single redemption.
func (s *codeService) mergeQuota(ctx context.Context, op string, userID uuid.UUID, quotaToAdd int) error {
	profile, err := s.queries.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Authenticated users always have a profile row; a miss here is
			// a provisioning fault, not a client error.
			return domain.Internal(err, op, "Profile not found for authenticated user")
		}
		return domain.Internal(err, op, "Failed to read profile")
	}

	newQuota := domain.MergeQuota(int(profile.RequestPromptQuota), quotaToAdd)
	if newQuota == int(profile.RequestPromptQuota) {
		return nil
	}

	err = s.queries.UpdateProfileQuota(ctx, repository.UpdateProfileQuotaParams{
		ID:                 userID,
		RequestPromptQuota: int32(newQuota),
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to update quota")
	}

	metrics.QuotaRaises.Inc()
	s.logger.Info("request quota raised",
		"user_id", userID,
		"old_quota", profile.RequestPromptQuota,
		"new_quota", newQuota,
	)
	return nil
}

// Create registers a new access code.
func (s *codeService) Create(ctx context.Context, params domain.CreateCodeParams) (*domain.AccessCode, error) {
	const op = "code.create"

	codeString := domain.NormalizeCode(params.CodeString)
	if codeString == "" {
		return nil, domain.Invalid(op, "Code string is required")
	}
	if len(params.Permissions) == 0 {
		return nil, domain.Invalid(op, "At least one permission token is required")
	}
	for _, tok := range params.Permissions {
		if strings.TrimSpace(tok) == "" {
			return nil, domain.Invalid(op, "Permission tokens must be non-empty")
		}
	}

	raw, err := json.Marshal(params.Permissions)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to encode permission list")
	}

	repoCode, err := s.queries.CreateCode(ctx, repository.CreateCodeParams{
		CodeString:             codeString,
		Description:            params.Description,
		PermissionsGrantedJson: pqtype.NullRawMessage{RawMessage: raw, Valid: true},
		IsActive:               params.IsActive,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			return nil, domain.Conflict(op, "Code string already exists")
		}
		return nil, domain.Internal(err, op, "Failed to create code")
	}

	code, err := codeToDomain(repoCode)
	if err != nil {
		return nil, domain.Internal(err, op, "Malformed permission list on created code")
	}

	s.logger.Info("access code created", "code", code.CodeString, "active", code.IsActive)
	return code, nil
}

// List returns all codes for the admin panel.
func (s *codeService) List(ctx context.Context) ([]*domain.AccessCode, error) {
	const op = "code.list"

	repoCodes, err := s.queries.ListCodes(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list codes")
	}

	codes := make([]*domain.AccessCode, 0, len(repoCodes))
	for _, rc := range repoCodes {
		c, err := codeToDomain(rc)
		if err != nil {
			return nil, domain.Internal(err, op, "Malformed permission list on stored code")
		}
		codes = append(codes, c)
	}
	return codes, nil
}

// SetActive toggles a code's active flag.
func (s *codeService) SetActive(ctx context.Context, id int64, active bool) (*domain.AccessCode, error) {
	const op = "code.set_active"

	repoCode, err := s.queries.SetCodeActive(ctx, repository.SetCodeActiveParams{
		ID:       id,
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "code", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "Failed to update code status")
	}

	code, err := codeToDomain(repoCode)
	if err != nil {
		return nil, domain.Internal(err, op, "Malformed permission list on stored code")
	}

	s.logger.Info("access code status updated", "code", code.CodeString, "active", code.IsActive)
	return code, nil
}
