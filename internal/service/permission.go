package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/metrics"
	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// PermissionService defines operations on permission grants outside of code
// redemption: the user's own view and the admin grant/revoke tools.
type PermissionService interface {
	// ListForUser returns the user's own grants, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.PermissionGrant, error)

	// ListAll returns every grant for the admin panel.
	ListAll(ctx context.Context) ([]*domain.PermissionGrant, error)

	// Grant gives a user a permission key directly (admin). Idempotent:
	// granting an already-held key succeeds without a new row.
	Grant(ctx context.Context, userID uuid.UUID, permissionKey string) error

	// Revoke deletes a grant row by id (admin).
	// Returns domain.ENOTFOUND for an unknown id.
	Revoke(ctx context.Context, grantID int64) error
}

// =============================================================================
// Implementation
// =============================================================================

type permissionService struct {
	queries repository.Querier
	logger  *slog.Logger
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(queries repository.Querier, logger *slog.Logger) PermissionService {
	return &permissionService{
		queries: queries,
		logger:  logger,
	}
}

// ListForUser returns the user's own grants.
func (s *permissionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.PermissionGrant, error) {
	const op = "permission.list_for_user"

	repoGrants, err := s.queries.ListUserPermissions(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list permissions")
	}
	return grantsToDomain(repoGrants), nil
}

// ListAll returns every grant for the admin panel.
func (s *permissionService) ListAll(ctx context.Context) ([]*domain.PermissionGrant, error) {
	const op = "permission.list_all"

	repoGrants, err := s.queries.ListAllPermissions(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list permissions")
	}
	return grantsToDomain(repoGrants), nil
}

// Grant gives a user a permission key directly, labeled as an admin grant.
func (s *permissionService) Grant(ctx context.Context, userID uuid.UUID, permissionKey string) error {
	const op = "permission.grant"

	permissionKey = strings.TrimSpace(permissionKey)
	if permissionKey == "" {
		return domain.Invalid(op, "Permission key is required")
	}
	if _, isDirective := domain.ParseQuotaDirective(permissionKey); isDirective {
		// Quota changes go through code redemption, not grant rows.
		return domain.Invalid(op, "Quota directives cannot be granted as permissions")
	}

	inserted, err := s.queries.InsertPermissionGrant(ctx, repository.InsertPermissionGrantParams{
		UserID:        userID,
		PermissionKey: permissionKey,
		GrantedByCode: domain.AdminGrantLabel,
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to grant permission")
	}

	if inserted {
		metrics.PermissionGrants.Inc()
	}
	s.logger.Info("permission granted by admin",
		"user_id", userID,
		"permission_key", permissionKey,
		"new_grant", inserted,
	)
	return nil
}

// Revoke deletes a grant row.
func (s *permissionService) Revoke(ctx context.Context, grantID int64) error {
	const op = "permission.revoke"

	if err := s.queries.DeletePermissionGrant(ctx, grantID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return domain.NotFound(op, "permission grant", strconv.FormatInt(grantID, 10))
		}
		return domain.Internal(err, op, "Failed to revoke permission")
	}

	s.logger.Info("permission revoked", "grant_id", grantID)
	return nil
}

func grantsToDomain(repoGrants []repository.UserPermission) []*domain.PermissionGrant {
	grants := make([]*domain.PermissionGrant, 0, len(repoGrants))
	for _, g := range repoGrants {
		grants = append(grants, grantToDomain(g))
	}
	return grants
}
