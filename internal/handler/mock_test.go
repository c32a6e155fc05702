package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ardiwn/promptvault/internal/auth"
	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Shared test fixtures: func-field service mocks and request helpers.
// Unstubbed methods return errNotStubbed so a test that trips an unexpected
// code path fails with a clear error instead of a nil-pointer panic.

var errNotStubbed = errors.New("not stubbed")

var (
	_ service.CodeService    = (*mockCodeService)(nil)
	_ service.RequestService = (*mockRequestService)(nil)
	_ service.ContentService = (*mockContentService)(nil)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator() *validator.Validate {
	return validator.New()
}

// withUser attaches an authenticated user to the request context the same way
// the auth middleware does.
func withUser(r *http.Request, user *domain.Profile) *http.Request {
	return r.WithContext(auth.SetUser(r.Context(), user))
}

func testUser() *domain.Profile {
	return &domain.Profile{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
	}
}

// ----------------------------------------------------------------------------

type mockCodeService struct {
	RedeemFunc    func(ctx context.Context, userID uuid.UUID, accessCode string) error
	CreateFunc    func(ctx context.Context, params domain.CreateCodeParams) (*domain.AccessCode, error)
	ListFunc      func(ctx context.Context) ([]*domain.AccessCode, error)
	SetActiveFunc func(ctx context.Context, id int64, active bool) (*domain.AccessCode, error)
}

func (m *mockCodeService) Redeem(ctx context.Context, userID uuid.UUID, accessCode string) error {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, userID, accessCode)
	}
	return errNotStubbed
}

func (m *mockCodeService) Create(ctx context.Context, params domain.CreateCodeParams) (*domain.AccessCode, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, errNotStubbed
}

func (m *mockCodeService) List(ctx context.Context) ([]*domain.AccessCode, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errNotStubbed
}

func (m *mockCodeService) SetActive(ctx context.Context, id int64, active bool) (*domain.AccessCode, error) {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil, errNotStubbed
}

// ----------------------------------------------------------------------------

type mockRequestService struct {
	SubmitFunc      func(ctx context.Context, userID uuid.UUID, requestText string) (*domain.PromptRequest, error)
	ListForUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.PromptRequest, error)
	ListAllFunc     func(ctx context.Context) ([]*domain.PromptRequest, error)
	ReviewFunc      func(ctx context.Context, params domain.ReviewRequestParams) (*domain.PromptRequest, error)
}

func (m *mockRequestService) Submit(ctx context.Context, userID uuid.UUID, requestText string) (*domain.PromptRequest, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, requestText)
	}
	return nil, errNotStubbed
}

func (m *mockRequestService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.PromptRequest, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

func (m *mockRequestService) ListAll(ctx context.Context) ([]*domain.PromptRequest, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, errNotStubbed
}

func (m *mockRequestService) Review(ctx context.Context, params domain.ReviewRequestParams) (*domain.PromptRequest, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(ctx, params)
	}
	return nil, errNotStubbed
}

// ----------------------------------------------------------------------------

type mockContentService struct {
	BatchInsertFunc            func(ctx context.Context, params domain.BatchInsertParams) (int64, error)
	ListAccessibleFunc         func(ctx context.Context, userID uuid.UUID, contentType domain.ContentType) ([]*domain.ContentItem, error)
	ListAccessibleProductsFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.DigitalProductLink, error)
}

func (m *mockContentService) BatchInsert(ctx context.Context, params domain.BatchInsertParams) (int64, error) {
	if m.BatchInsertFunc != nil {
		return m.BatchInsertFunc(ctx, params)
	}
	return 0, errNotStubbed
}

func (m *mockContentService) ListAccessible(ctx context.Context, userID uuid.UUID, contentType domain.ContentType) ([]*domain.ContentItem, error) {
	if m.ListAccessibleFunc != nil {
		return m.ListAccessibleFunc(ctx, userID, contentType)
	}
	return nil, errNotStubbed
}

func (m *mockContentService) ListAccessibleProducts(ctx context.Context, userID uuid.UUID) ([]*domain.DigitalProductLink, error) {
	if m.ListAccessibleProductsFunc != nil {
		return m.ListAccessibleProductsFunc(ctx, userID)
	}
	return nil, errNotStubbed
}
