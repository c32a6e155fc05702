package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/metrics"
	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/google/uuid"
)

// MaxBatchRows bounds a single bulk insert. The admin tooling uploads CSV
// exports; anything past this is almost certainly a mistake.
const MaxBatchRows = 1000

// =============================================================================
// Interface Definition
// =============================================================================

// ContentService defines operations on gated content.
type ContentService interface {
	// BatchInsert bulk-inserts content rows into the named table (admin).
	// All rows go in one transaction; a bad row fails the whole batch.
	// Returns the number of rows inserted.
	BatchInsert(ctx context.Context, params domain.BatchInsertParams) (int64, error)

	// ListAccessible returns published items of the given type whose
	// permission key the user holds.
	ListAccessible(ctx context.Context, userID uuid.UUID, contentType domain.ContentType) ([]*domain.ContentItem, error)

	// ListAccessibleProducts returns published digital product links the
	// user's grants unlock.
	ListAccessibleProducts(ctx context.Context, userID uuid.UUID) ([]*domain.DigitalProductLink, error)
}

// =============================================================================
// Implementation
// =============================================================================

type contentService struct {
	queries repository.Querier
	logger  *slog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(queries repository.Querier, logger *slog.Logger) ContentService {
	return &contentService{
		queries: queries,
		logger:  logger,
	}
}

// BatchInsert validates and bulk-inserts content rows.
func (s *contentService) BatchInsert(ctx context.Context, params domain.BatchInsertParams) (int64, error) {
	const op = "content.batch_insert"

	if !domain.ValidContentType(params.ContentType) {
		return 0, domain.Invalid(op, "Invalid content type")
	}
	if len(params.Rows) == 0 {
		return 0, domain.Invalid(op, "No rows to insert")
	}
	if len(params.Rows) > MaxBatchRows {
		return 0, domain.Invalid(op, "Too many rows in one batch")
	}

	rows := make([]repository.ContentInsertRow, 0, len(params.Rows))
	for i, item := range params.Rows {
		title := strings.TrimSpace(item.Title)
		key := strings.TrimSpace(item.RequiredPermissionKey)
		if title == "" {
			return 0, domain.Invalid(op, fmt.Sprintf("Row %d is missing a title", i+1))
		}
		if key == "" {
			return 0, domain.Invalid(op, fmt.Sprintf("Row %d is missing a permission key", i+1))
		}
		rows = append(rows, repository.ContentInsertRow{
			JudulKonten:           title,
			DeskripsiKonten:       strings.TrimSpace(item.Description),
			RequiredPermissionKey: key,
			IsPublished:           item.IsPublished,
		})
	}

	inserted, err := s.queries.BatchInsertContent(ctx, repository.BatchInsertContentParams{
		ContentType: string(params.ContentType),
		Rows:        rows,
	})
	if err != nil {
		return 0, domain.Internal(err, op, "Failed to insert content")
	}

	metrics.ContentRowsInserted.WithLabelValues(string(params.ContentType)).Add(float64(inserted))
	s.logger.Info("content batch inserted",
		"content_type", params.ContentType,
		"rows", inserted,
	)
	return inserted, nil
}

// ListAccessible returns gated content the user can see.
func (s *contentService) ListAccessible(ctx context.Context, userID uuid.UUID, contentType domain.ContentType) ([]*domain.ContentItem, error) {
	const op = "content.list_accessible"

	if !domain.ValidContentType(contentType) {
		return nil, domain.Invalid(op, "Invalid content type")
	}

	repoRows, err := s.queries.ListAccessibleContent(ctx, repository.ListAccessibleContentParams{
		ContentType: string(contentType),
		UserID:      userID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list content")
	}

	items := make([]*domain.ContentItem, 0, len(repoRows))
	for _, row := range repoRows {
		items = append(items, contentToDomain(row))
	}
	return items, nil
}

// ListAccessibleProducts returns gated product links the user can see.
func (s *contentService) ListAccessibleProducts(ctx context.Context, userID uuid.UUID) ([]*domain.DigitalProductLink, error) {
	const op = "content.list_products"

	repoLinks, err := s.queries.ListAccessibleDigitalProducts(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list digital products")
	}

	links := make([]*domain.DigitalProductLink, 0, len(repoLinks))
	for _, l := range repoLinks {
		links = append(links, productLinkToDomain(l))
	}
	return links, nil
}
