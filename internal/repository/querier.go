package repository

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the full query surface. Services depend on this interface so
// tests can substitute an in-memory fake.
type Querier interface {
	// Profiles
	CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	UpdateProfileRole(ctx context.Context, arg UpdateProfileRoleParams) (Profile, error)
	UpdateProfileQuota(ctx context.Context, arg UpdateProfileQuotaParams) error

	// Sessions
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) error

	// Access codes
	GetActiveCodeByString(ctx context.Context, codeString string) (GenericCode, error)
	GetCodeByID(ctx context.Context, id int64) (GenericCode, error)
	CreateCode(ctx context.Context, arg CreateCodeParams) (GenericCode, error)
	ListCodes(ctx context.Context) ([]GenericCode, error)
	SetCodeActive(ctx context.Context, arg SetCodeActiveParams) (GenericCode, error)

	// Permission grants
	InsertPermissionGrant(ctx context.Context, arg InsertPermissionGrantParams) (bool, error)
	ListUserPermissions(ctx context.Context, userID uuid.UUID) ([]UserPermission, error)
	ListAllPermissions(ctx context.Context) ([]UserPermission, error)
	DeletePermissionGrant(ctx context.Context, id int64) error

	// Prompt requests
	CreateRequest(ctx context.Context, arg CreateRequestParams) (UserRequest, error)
	CountUserRequestsSince(ctx context.Context, arg CountUserRequestsSinceParams) (int64, error)
	ListUserRequests(ctx context.Context, userID uuid.UUID) ([]UserRequest, error)
	ListAllRequests(ctx context.Context) ([]UserRequest, error)
	UpdateRequestReview(ctx context.Context, arg UpdateRequestReviewParams) (UserRequest, error)

	// Content
	BatchInsertContent(ctx context.Context, arg BatchInsertContentParams) (int64, error)
	ListAccessibleContent(ctx context.Context, arg ListAccessibleContentParams) ([]ContentRow, error)
	ListAccessibleDigitalProducts(ctx context.Context, userID uuid.UUID) ([]DigitalProductLink, error)
}

var _ Querier = (*Queries)(nil)
