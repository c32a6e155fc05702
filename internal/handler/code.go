// This file implements the access-code redemption endpoint and the admin
// code-management endpoints.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ardiwn/promptvault/internal/auth"
	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/go-playground/validator/v10"
)

// CodeHandler handles access-code HTTP requests.
//
// Routes handled:
// - POST  /api/redeem-access-code   -> Redeem
// - POST  /api/admin/codes          -> Create (admin)
// - GET   /api/admin/codes          -> List (admin)
// - PATCH /api/admin/codes/{id}     -> SetActive (admin)
type CodeHandler struct {
	codeService service.CodeService
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewCodeHandler creates a new CodeHandler with the required dependencies.
func NewCodeHandler(codeService service.CodeService, validate *validator.Validate, logger *slog.Logger) *CodeHandler {
	return &CodeHandler{
		codeService: codeService,
		validate:    validate,
		logger:      logger,
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

type redeemRequest struct {
	AccessCode string `json:"accessCode" validate:"required,max=100"`
}

type createCodeRequest struct {
	CodeString  string   `json:"code_string" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required,max=100"`
	IsActive    *bool    `json:"is_active"`
}

type setCodeActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type codeResponse struct {
	ID          int64    `json:"id"`
	CodeString  string   `json:"code_string"`
	Description string   `json:"description"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
}

func toCodeResponse(c *domain.AccessCode) codeResponse {
	return codeResponse{
		ID:          c.ID,
		CodeString:  c.CodeString,
		Description: c.Description,
		IsActive:    c.IsActive,
		Permissions: c.Permissions,
		CreatedAt:   c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// POST /api/redeem-access-code
// =============================================================================

// Redeem applies an access code's permission grants and quota directive to
// the authenticated user.
//
// Unknown and inactive codes are indistinguishable in the response; both
// yield the same 400 error.
func (h *CodeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req redeemRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "CodeHandler.Redeem", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.codeService.Redeem(r.Context(), user.ID, req.AccessCode); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Access code redeemed successfully",
	})
}

// =============================================================================
// POST /api/admin/codes
// =============================================================================

// Create registers a new access code.
func (h *CodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "CodeHandler.Create", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	// New codes default to active unless the request says otherwise.
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	code, err := h.codeService.Create(r.Context(), domain.CreateCodeParams{
		CodeString:  req.CodeString,
		Description: req.Description,
		Permissions: req.Permissions,
		IsActive:    isActive,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"code":    toCodeResponse(code),
	})
}

// =============================================================================
// GET /api/admin/codes
// =============================================================================

// List returns all access codes, newest first.
func (h *CodeHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.codeService.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]codeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, toCodeResponse(c))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"codes":   out,
	})
}

// =============================================================================
// PATCH /api/admin/codes/{id}
// =============================================================================

// SetActive enables or disables a code.
func (h *CodeHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("CodeHandler.SetActive", "Invalid code id"))
		return
	}

	var req setCodeActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "CodeHandler.SetActive", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	code, err := h.codeService.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"code":    toCodeResponse(code),
	})
}
