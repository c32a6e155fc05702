// Package service contains the business logic layer.
//
// This file implements the prompt request service, including the monthly
// quota window gate.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/metrics"
	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/google/uuid"
)

// MaxRequestTextLength caps request bodies; anything longer is a client error.
const MaxRequestTextLength = 4000

// =============================================================================
// Interface Definition
// =============================================================================

// RequestService defines operations on custom prompt requests.
type RequestService interface {
	// Submit gates a new request on the user's monthly quota and creates it.
	// Returns domain.EQUOTA when the user has no quota (quota <= 0) or the
	// current calendar month's submissions already meet the quota.
	Submit(ctx context.Context, userID uuid.UUID, requestText string) (*domain.PromptRequest, error)

	// ListForUser returns the user's own requests, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.PromptRequest, error)

	// ListAll returns every request for the admin review queue.
	ListAll(ctx context.Context) ([]*domain.PromptRequest, error)

	// Review records an admin decision on a request and stamps processed_at.
	// Returns domain.ENOTFOUND for an unknown request id.
	Review(ctx context.Context, params domain.ReviewRequestParams) (*domain.PromptRequest, error)
}

// =============================================================================
// Implementation
// =============================================================================

type requestService struct {
	queries repository.Querier
	logger  *slog.Logger
	now     func() time.Time // injectable for window tests
}

// NewRequestService creates a new RequestService.
func NewRequestService(queries repository.Querier, logger *slog.Logger) RequestService {
	return &requestService{
		queries: queries,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit enforces the quota window and inserts the request.
//
// The window is the current calendar month in UTC, starting at midnight on
// day 1. Count-then-insert is not atomic: concurrent submissions can jointly
// overshoot the quota. That matches the reference behavior and is accepted at
// this system's scale.
func (s *requestService) Submit(ctx context.Context, userID uuid.UUID, requestText string) (*domain.PromptRequest, error) {
	const op = "request.submit"

	requestText = strings.TrimSpace(requestText)
	if requestText == "" {
		return nil, domain.Invalid(op, "Request text is required")
	}
	if len(requestText) > MaxRequestTextLength {
		return nil, domain.Invalid(op, "Request text is too long")
	}

	profile, err := s.queries.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Internal(err, op, "Profile not found for authenticated user")
		}
		return nil, domain.Internal(err, op, "Failed to read profile")
	}

	quota := int64(profile.RequestPromptQuota)
	if quota <= 0 {
		metrics.PromptRequests.WithLabelValues("no_quota").Inc()
		return nil, domain.NoQuota(op)
	}

	startOfMonth := domain.StartOfMonth(s.now())
	count, err := s.queries.CountUserRequestsSince(ctx, repository.CountUserRequestsSinceParams{
		UserID: userID,
		Since:  startOfMonth,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count requests")
	}

	if count >= quota {
		metrics.PromptRequests.WithLabelValues("quota_exceeded").Inc()
		s.logger.Info("request quota exceeded",
			"user_id", userID,
			"used", count,
			"limit", quota,
		)
		return nil, domain.QuotaExceeded(op, count, quota)
	}

	repoReq, err := s.queries.CreateRequest(ctx, repository.CreateRequestParams{
		UserID:      userID,
		RequestText: requestText,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to create request")
	}

	metrics.PromptRequests.WithLabelValues("accepted").Inc()
	s.logger.Info("prompt request submitted", "user_id", userID, "request_id", repoReq.ID)
	return requestToDomain(repoReq), nil
}

// ListForUser returns the user's own requests.
func (s *requestService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.PromptRequest, error) {
	const op = "request.list_for_user"

	repoReqs, err := s.queries.ListUserRequests(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list requests")
	}
	return requestsToDomain(repoReqs), nil
}

// ListAll returns every request for admin review.
func (s *requestService) ListAll(ctx context.Context) ([]*domain.PromptRequest, error) {
	const op = "request.list_all"

	repoReqs, err := s.queries.ListAllRequests(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list requests")
	}
	return requestsToDomain(repoReqs), nil
}

// Review records an admin decision.
func (s *requestService) Review(ctx context.Context, params domain.ReviewRequestParams) (*domain.PromptRequest, error) {
	const op = "request.review"

	if !domain.ValidRequestStatus(params.Status) {
		return nil, domain.Invalid(op, "Unknown request status")
	}

	repoReq, err := s.queries.UpdateRequestReview(ctx, repository.UpdateRequestReviewParams{
		ID:         params.RequestID,
		Status:     string(params.Status),
		AdminNotes: params.AdminNotes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "request", strconv.FormatInt(params.RequestID, 10))
		}
		return nil, domain.Internal(err, op, "Failed to update request")
	}

	s.logger.Info("prompt request reviewed",
		"request_id", repoReq.ID,
		"status", repoReq.Status,
	)
	return requestToDomain(repoReq), nil
}

func requestsToDomain(repoReqs []repository.UserRequest) []*domain.PromptRequest {
	requests := make([]*domain.PromptRequest, 0, len(repoReqs))
	for _, r := range repoReqs {
		requests = append(requests, requestToDomain(r))
	}
	return requests
}
