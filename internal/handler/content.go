// This file implements the gated content listing endpoints and the
// admin-only batch content insert.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/ardiwn/promptvault/internal/auth"
	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/go-playground/validator/v10"
)

// ContentHandler handles content HTTP requests.
//
// Routes handled:
// - GET  /api/prompts             -> ListPrompts
// - GET  /api/product-ideas       -> ListProductIdeas
// - GET  /api/digital-products    -> ListDigitalProducts
// - POST /api/admin/content/batch -> BatchInsert (admin)
type ContentHandler struct {
	contentService service.ContentService
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewContentHandler creates a new ContentHandler with the required dependencies.
func NewContentHandler(contentService service.ContentService, validate *validator.Validate, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		validate:       validate,
		logger:         logger,
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

// batchInsertRequest mirrors the admin upload payload: a target table name
// and the rows to insert.
type batchInsertRequest struct {
	ContentType string                `json:"contentType" validate:"required"`
	DataRows    []batchInsertRowInput `json:"dataRows" validate:"required,min=1"`
}

type batchInsertRowInput struct {
	Title                 string `json:"judul_konten"`
	Description           string `json:"deskripsi_konten"`
	RequiredPermissionKey string `json:"required_permission_key"`
	IsPublished           *bool  `json:"is_published"`
}

type contentItemResponse struct {
	ID                    int64  `json:"id"`
	Title                 string `json:"judul_konten"`
	Description           string `json:"deskripsi_konten"`
	RequiredPermissionKey string `json:"required_permission_key"`
	CreatedAt             string `json:"created_at"`
}

type productLinkResponse struct {
	ID                    int64  `json:"id"`
	ProductName           string `json:"nama_produk"`
	ProductLink           string `json:"link_produk"`
	RequiredPermissionKey string `json:"required_permission_key"`
	CreatedAt             string `json:"created_at"`
}

func toContentItemResponse(c *domain.ContentItem) contentItemResponse {
	return contentItemResponse{
		ID:                    c.ID,
		Title:                 c.Title,
		Description:           c.Description,
		RequiredPermissionKey: c.RequiredPermissionKey,
		CreatedAt:             c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toProductLinkResponse(p *domain.DigitalProductLink) productLinkResponse {
	return productLinkResponse{
		ID:                    p.ID,
		ProductName:           p.ProductName,
		ProductLink:           p.ProductLink,
		RequiredPermissionKey: p.RequiredPermissionKey,
		CreatedAt:             p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// GET /api/prompts and GET /api/product-ideas
// =============================================================================

// ListPrompts returns published prompts whose permission key the caller holds.
func (h *ContentHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	h.listContent(w, r, domain.ContentTypePrompts)
}

// ListProductIdeas returns published product ideas whose permission key the
// caller holds.
func (h *ContentHandler) ListProductIdeas(w http.ResponseWriter, r *http.Request) {
	h.listContent(w, r, domain.ContentTypeProductIdeas)
}

func (h *ContentHandler) listContent(w http.ResponseWriter, r *http.Request, contentType domain.ContentType) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	items, err := h.contentService.ListAccessible(r.Context(), user.ID, contentType)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]contentItemResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toContentItemResponse(c))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   out,
	})
}

// =============================================================================
// GET /api/digital-products
// =============================================================================

// ListDigitalProducts returns published product links the caller's grants
// unlock.
func (h *ContentHandler) ListDigitalProducts(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	links, err := h.contentService.ListAccessibleProducts(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]productLinkResponse, 0, len(links))
	for _, p := range links {
		out = append(out, toProductLinkResponse(p))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": out,
	})
}

// =============================================================================
// POST /api/admin/content/batch
// =============================================================================

// BatchInsert bulk-inserts content rows into the named table.
//
// The whole batch is one transaction; an invalid contentType or a row with a
// missing required field fails the entire request with 400.
func (h *ContentHandler) BatchInsert(w http.ResponseWriter, r *http.Request) {
	var req batchInsertRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "ContentHandler.BatchInsert", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	rows := make([]domain.ContentItem, 0, len(req.DataRows))
	for _, in := range req.DataRows {
		published := true
		if in.IsPublished != nil {
			published = *in.IsPublished
		}
		rows = append(rows, domain.ContentItem{
			Title:                 in.Title,
			Description:           in.Description,
			RequiredPermissionKey: in.RequiredPermissionKey,
			IsPublished:           published,
		})
	}

	inserted, err := h.contentService.BatchInsert(r.Context(), domain.BatchInsertParams{
		ContentType: domain.ContentType(req.ContentType),
		Rows:        rows,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"inserted": inserted,
	})
}
