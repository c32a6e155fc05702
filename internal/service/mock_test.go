package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/google/uuid"
)

// errNotStubbed reports a fake method the test under run forgot to stub.
var errNotStubbed = errors.New("not stubbed")

// fakeQuerier implements repository.Querier with per-method function fields.
// Tests stub only the calls the code under test should make; anything else
// fails loudly.
type fakeQuerier struct {
	CreateProfileFunc      func(ctx context.Context, arg repository.CreateProfileParams) (repository.Profile, error)
	GetProfileByIDFunc     func(ctx context.Context, id uuid.UUID) (repository.Profile, error)
	GetProfileByEmailFunc  func(ctx context.Context, email string) (repository.Profile, error)
	ListProfilesFunc       func(ctx context.Context) ([]repository.Profile, error)
	UpdateProfileRoleFunc  func(ctx context.Context, arg repository.UpdateProfileRoleParams) (repository.Profile, error)
	UpdateProfileQuotaFunc func(ctx context.Context, arg repository.UpdateProfileQuotaParams) error

	CreateSessionFunc         func(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error)
	GetSessionByTokenHashFunc func(ctx context.Context, tokenHash string) (repository.Session, error)
	DeleteSessionFunc         func(ctx context.Context, tokenHash string) error
	DeleteUserSessionsFunc    func(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessionsFunc func(ctx context.Context) error

	GetActiveCodeByStringFunc func(ctx context.Context, codeString string) (repository.GenericCode, error)
	GetCodeByIDFunc           func(ctx context.Context, id int64) (repository.GenericCode, error)
	CreateCodeFunc            func(ctx context.Context, arg repository.CreateCodeParams) (repository.GenericCode, error)
	ListCodesFunc             func(ctx context.Context) ([]repository.GenericCode, error)
	SetCodeActiveFunc         func(ctx context.Context, arg repository.SetCodeActiveParams) (repository.GenericCode, error)

	InsertPermissionGrantFunc func(ctx context.Context, arg repository.InsertPermissionGrantParams) (bool, error)
	ListUserPermissionsFunc   func(ctx context.Context, userID uuid.UUID) ([]repository.UserPermission, error)
	ListAllPermissionsFunc    func(ctx context.Context) ([]repository.UserPermission, error)
	DeletePermissionGrantFunc func(ctx context.Context, id int64) error

	CreateRequestFunc          func(ctx context.Context, arg repository.CreateRequestParams) (repository.UserRequest, error)
	CountUserRequestsSinceFunc func(ctx context.Context, arg repository.CountUserRequestsSinceParams) (int64, error)
	ListUserRequestsFunc       func(ctx context.Context, userID uuid.UUID) ([]repository.UserRequest, error)
	ListAllRequestsFunc        func(ctx context.Context) ([]repository.UserRequest, error)
	UpdateRequestReviewFunc    func(ctx context.Context, arg repository.UpdateRequestReviewParams) (repository.UserRequest, error)

	BatchInsertContentFunc            func(ctx context.Context, arg repository.BatchInsertContentParams) (int64, error)
	ListAccessibleContentFunc         func(ctx context.Context, arg repository.ListAccessibleContentParams) ([]repository.ContentRow, error)
	ListAccessibleDigitalProductsFunc func(ctx context.Context, userID uuid.UUID) ([]repository.DigitalProductLink, error)
}

var _ repository.Querier = (*fakeQuerier)(nil)

func (f *fakeQuerier) CreateProfile(ctx context.Context, arg repository.CreateProfileParams) (repository.Profile, error) {
	if f.CreateProfileFunc != nil {
		return f.CreateProfileFunc(ctx, arg)
	}
	return repository.Profile{}, errNotStubbed
}

func (f *fakeQuerier) GetProfileByID(ctx context.Context, id uuid.UUID) (repository.Profile, error) {
	if f.GetProfileByIDFunc != nil {
		return f.GetProfileByIDFunc(ctx, id)
	}
	return repository.Profile{}, errNotStubbed
}

func (f *fakeQuerier) GetProfileByEmail(ctx context.Context, email string) (repository.Profile, error) {
	if f.GetProfileByEmailFunc != nil {
		return f.GetProfileByEmailFunc(ctx, email)
	}
	return repository.Profile{}, errNotStubbed
}

func (f *fakeQuerier) ListProfiles(ctx context.Context) ([]repository.Profile, error) {
	if f.ListProfilesFunc != nil {
		return f.ListProfilesFunc(ctx)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) UpdateProfileRole(ctx context.Context, arg repository.UpdateProfileRoleParams) (repository.Profile, error) {
	if f.UpdateProfileRoleFunc != nil {
		return f.UpdateProfileRoleFunc(ctx, arg)
	}
	return repository.Profile{}, errNotStubbed
}

func (f *fakeQuerier) UpdateProfileQuota(ctx context.Context, arg repository.UpdateProfileQuotaParams) error {
	if f.UpdateProfileQuotaFunc != nil {
		return f.UpdateProfileQuotaFunc(ctx, arg)
	}
	return errNotStubbed
}

func (f *fakeQuerier) CreateSession(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	if f.CreateSessionFunc != nil {
		return f.CreateSessionFunc(ctx, arg)
	}
	return repository.Session{}, errNotStubbed
}

func (f *fakeQuerier) GetSessionByTokenHash(ctx context.Context, tokenHash string) (repository.Session, error) {
	if f.GetSessionByTokenHashFunc != nil {
		return f.GetSessionByTokenHashFunc(ctx, tokenHash)
	}
	return repository.Session{}, errNotStubbed
}

func (f *fakeQuerier) DeleteSession(ctx context.Context, tokenHash string) error {
	if f.DeleteSessionFunc != nil {
		return f.DeleteSessionFunc(ctx, tokenHash)
	}
	return errNotStubbed
}

func (f *fakeQuerier) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	if f.DeleteUserSessionsFunc != nil {
		return f.DeleteUserSessionsFunc(ctx, userID)
	}
	return errNotStubbed
}

func (f *fakeQuerier) DeleteExpiredSessions(ctx context.Context) error {
	if f.DeleteExpiredSessionsFunc != nil {
		return f.DeleteExpiredSessionsFunc(ctx)
	}
	return errNotStubbed
}

func (f *fakeQuerier) GetActiveCodeByString(ctx context.Context, codeString string) (repository.GenericCode, error) {
	if f.GetActiveCodeByStringFunc != nil {
		return f.GetActiveCodeByStringFunc(ctx, codeString)
	}
	return repository.GenericCode{}, errNotStubbed
}

func (f *fakeQuerier) GetCodeByID(ctx context.Context, id int64) (repository.GenericCode, error) {
	if f.GetCodeByIDFunc != nil {
		return f.GetCodeByIDFunc(ctx, id)
	}
	return repository.GenericCode{}, errNotStubbed
}

func (f *fakeQuerier) CreateCode(ctx context.Context, arg repository.CreateCodeParams) (repository.GenericCode, error) {
	if f.CreateCodeFunc != nil {
		return f.CreateCodeFunc(ctx, arg)
	}
	return repository.GenericCode{}, errNotStubbed
}

func (f *fakeQuerier) ListCodes(ctx context.Context) ([]repository.GenericCode, error) {
	if f.ListCodesFunc != nil {
		return f.ListCodesFunc(ctx)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) SetCodeActive(ctx context.Context, arg repository.SetCodeActiveParams) (repository.GenericCode, error) {
	if f.SetCodeActiveFunc != nil {
		return f.SetCodeActiveFunc(ctx, arg)
	}
	return repository.GenericCode{}, errNotStubbed
}

func (f *fakeQuerier) InsertPermissionGrant(ctx context.Context, arg repository.InsertPermissionGrantParams) (bool, error) {
	if f.InsertPermissionGrantFunc != nil {
		return f.InsertPermissionGrantFunc(ctx, arg)
	}
	return false, errNotStubbed
}

func (f *fakeQuerier) ListUserPermissions(ctx context.Context, userID uuid.UUID) ([]repository.UserPermission, error) {
	if f.ListUserPermissionsFunc != nil {
		return f.ListUserPermissionsFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) ListAllPermissions(ctx context.Context) ([]repository.UserPermission, error) {
	if f.ListAllPermissionsFunc != nil {
		return f.ListAllPermissionsFunc(ctx)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) DeletePermissionGrant(ctx context.Context, id int64) error {
	if f.DeletePermissionGrantFunc != nil {
		return f.DeletePermissionGrantFunc(ctx, id)
	}
	return errNotStubbed
}

func (f *fakeQuerier) CreateRequest(ctx context.Context, arg repository.CreateRequestParams) (repository.UserRequest, error) {
	if f.CreateRequestFunc != nil {
		return f.CreateRequestFunc(ctx, arg)
	}
	return repository.UserRequest{}, errNotStubbed
}

func (f *fakeQuerier) CountUserRequestsSince(ctx context.Context, arg repository.CountUserRequestsSinceParams) (int64, error) {
	if f.CountUserRequestsSinceFunc != nil {
		return f.CountUserRequestsSinceFunc(ctx, arg)
	}
	return 0, errNotStubbed
}

func (f *fakeQuerier) ListUserRequests(ctx context.Context, userID uuid.UUID) ([]repository.UserRequest, error) {
	if f.ListUserRequestsFunc != nil {
		return f.ListUserRequestsFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) ListAllRequests(ctx context.Context) ([]repository.UserRequest, error) {
	if f.ListAllRequestsFunc != nil {
		return f.ListAllRequestsFunc(ctx)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) UpdateRequestReview(ctx context.Context, arg repository.UpdateRequestReviewParams) (repository.UserRequest, error) {
	if f.UpdateRequestReviewFunc != nil {
		return f.UpdateRequestReviewFunc(ctx, arg)
	}
	return repository.UserRequest{}, errNotStubbed
}

func (f *fakeQuerier) BatchInsertContent(ctx context.Context, arg repository.BatchInsertContentParams) (int64, error) {
	if f.BatchInsertContentFunc != nil {
		return f.BatchInsertContentFunc(ctx, arg)
	}
	return 0, errNotStubbed
}

func (f *fakeQuerier) ListAccessibleContent(ctx context.Context, arg repository.ListAccessibleContentParams) ([]repository.ContentRow, error) {
	if f.ListAccessibleContentFunc != nil {
		return f.ListAccessibleContentFunc(ctx, arg)
	}
	return nil, errNotStubbed
}

func (f *fakeQuerier) ListAccessibleDigitalProducts(ctx context.Context, userID uuid.UUID) ([]repository.DigitalProductLink, error) {
	if f.ListAccessibleDigitalProductsFunc != nil {
		return f.ListAccessibleDigitalProductsFunc(ctx, userID)
	}
	return nil, errNotStubbed
}

// discardLogger silences service logging in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
