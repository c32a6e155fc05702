// This file implements the admin user-management endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AdminUserHandler handles admin user-management HTTP requests.
//
// Routes handled:
// - GET   /api/admin/users            -> ListUsers (admin)
// - PATCH /api/admin/users/{id}/role  -> UpdateRole (admin)
type AdminUserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler with the required dependencies.
func NewAdminUserHandler(userService service.UserService, validate *validator.Validate, logger *slog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		userService: userService,
		validate:    validate,
		logger:      logger,
	}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// =============================================================================
// GET /api/admin/users
// =============================================================================

// ListUsers returns all user profiles for the admin panel.
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   out,
	})
}

// =============================================================================
// PATCH /api/admin/users/{id}/role
// =============================================================================

// UpdateRole assigns a role to a user.
func (h *AdminUserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("AdminUserHandler.UpdateRole", "Invalid user id"))
		return
	}

	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "AdminUserHandler.UpdateRole", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	updated, err := h.userService.UpdateRole(r.Context(), userID, domain.Role(req.Role))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("user role updated", "user_id", userID, "role", updated.Role)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    toUserResponse(updated),
	})
}
