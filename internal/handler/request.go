// This file implements the quota-gated prompt request endpoints and the
// admin review queue.
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

// RequestHandler handles prompt-request HTTP requests.
//
// Routes handled:
// - POST  /api/prompt-requests        -> Submit
// - GET   /api/prompt-requests        -> ListMine
// - GET   /api/admin/requests         -> ListAll (admin)
// - PATCH /api/admin/requests/{id}    -> Review (admin)
type RequestHandler struct {
	requestService service.RequestService
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewRequestHandler creates a new RequestHandler with the required dependencies.
func NewRequestHandler(requestService service.RequestService, validate *validator.Validate, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		validate:       validate,
		logger:         logger,
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

type submitRequestRequest struct {
	RequestText string `json:"requestText" validate:"required,max=4000"`
}

type reviewRequestRequest struct {
	Status     string `json:"status" validate:"required,oneof=pending processed rejected"`
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

type requestResponse struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"user_id"`
	RequestText string  `json:"request_text"`
	Status      string  `json:"status"`
	RequestedAt string  `json:"requested_at"`
	ProcessedAt *string `json:"processed_at"`
	AdminNotes  string  `json:"admin_notes,omitempty"`
}

func toRequestResponse(pr *domain.PromptRequest) requestResponse {
	resp := requestResponse{
		ID:          pr.ID,
		UserID:      pr.UserID.String(),
		RequestText: pr.RequestText,
		Status:      string(pr.Status),
		RequestedAt: pr.RequestedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		AdminNotes:  pr.AdminNotes,
	}
	if pr.ProcessedAt != nil {
		s := pr.ProcessedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.ProcessedAt = &s
	}
	return resp
}

// =============================================================================
// POST /api/prompt-requests
// =============================================================================

// Submit creates a new prompt request for the authenticated user, gated by
// the monthly quota window. Quota failures come back as 400 with the EQUOTA
// code.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req submitRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "RequestHandler.Submit", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	created, err := h.requestService.Submit(r.Context(), user.ID, req.RequestText)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"request": toRequestResponse(created),
	})
}

// =============================================================================
// GET /api/prompt-requests
// =============================================================================

// ListMine returns the authenticated user's own requests, newest first.
func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	requests, err := h.requestService.ListForUser(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]requestResponse, 0, len(requests))
	for _, pr := range requests {
		out = append(out, toRequestResponse(pr))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"requests": out,
	})
}

// =============================================================================
// GET /api/admin/requests
// =============================================================================

// ListAll returns every request for the admin review queue.
func (h *RequestHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestService.ListAll(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]requestResponse, 0, len(requests))
	for _, pr := range requests {
		out = append(out, toRequestResponse(pr))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"requests": out,
	})
}

// =============================================================================
// PATCH /api/admin/requests/{id}
// =============================================================================

// Review records an admin decision on a request.
func (h *RequestHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("RequestHandler.Review", "Invalid request id"))
		return
	}

	var req reviewRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "RequestHandler.Review", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	updated, err := h.requestService.Review(r.Context(), domain.ReviewRequestParams{
		RequestID:  id,
		Status:     domain.RequestStatus(req.Status),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"request": toRequestResponse(updated),
	})
}
