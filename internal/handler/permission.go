// This file implements permission grant endpoints: the caller's own grant
// list plus admin-only manual grant, revoke, and listing.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ardiwn/promptvault/internal/auth"
	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PermissionHandler handles permission-grant HTTP requests.
//
// Routes handled:
// - GET    /api/permissions              -> ListMine
// - GET    /api/admin/permissions        -> ListAll (admin)
// - POST   /api/admin/permissions        -> Grant (admin)
// - DELETE /api/admin/permissions/{id}   -> Revoke (admin)
type PermissionHandler struct {
	permissionService service.PermissionService
	validate          *validator.Validate
	logger            *slog.Logger
}

// NewPermissionHandler creates a new PermissionHandler with the required dependencies.
func NewPermissionHandler(permissionService service.PermissionService, validate *validator.Validate, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		validate:          validate,
		logger:            logger,
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

type grantPermissionRequest struct {
	UserID        string `json:"user_id" validate:"required,uuid"`
	PermissionKey string `json:"permission_key" validate:"required,max=100"`
}

type grantResponse struct {
	ID            int64  `json:"id"`
	UserID        string `json:"user_id"`
	PermissionKey string `json:"permission_key"`
	GrantedByCode string `json:"granted_by_code"`
	GrantedAt     string `json:"granted_at"`
}

func toGrantResponse(g *domain.PermissionGrant) grantResponse {
	return grantResponse{
		ID:            g.ID,
		UserID:        g.UserID.String(),
		PermissionKey: g.PermissionKey,
		GrantedByCode: g.GrantedByCode,
		GrantedAt:     g.GrantedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// GET /api/permissions
// =============================================================================

// ListMine returns the authenticated user's own permission grants.
func (h *PermissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	grants, err := h.permissionService.ListForUser(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, toGrantResponse(g))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"permissions": out,
	})
}

// =============================================================================
// GET /api/admin/permissions
// =============================================================================

// ListAll returns every grant for the admin panel.
func (h *PermissionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	grants, err := h.permissionService.ListAll(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, toGrantResponse(g))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"permissions": out,
	})
}

// =============================================================================
// POST /api/admin/permissions
// =============================================================================

// Grant gives a user a permission key directly. Idempotent: granting an
// already-held key succeeds without creating a new row.
func (h *PermissionHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req grantPermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "PermissionHandler.Grant", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("PermissionHandler.Grant", "Invalid user id"))
		return
	}

	if err := h.permissionService.Grant(r.Context(), userID, req.PermissionKey); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
	})
}

// =============================================================================
// DELETE /api/admin/permissions/{id}
// =============================================================================

// Revoke deletes a grant row by id.
func (h *PermissionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("PermissionHandler.Revoke", "Invalid grant id"))
		return
	}

	if err := h.permissionService.Revoke(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
