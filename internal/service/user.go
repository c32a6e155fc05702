package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// BcryptCost is the cost factor for bcrypt password hashing.
	// Cost 12 provides good security while staying fast enough for login.
	BcryptCost = 12

	// SessionTokenBytes is the number of random bytes for session tokens.
	// 32 bytes = 256 bits of entropy; hex-encoded to 64 characters.
	SessionTokenBytes = 32

	// SessionDuration is how long a session remains valid.
	SessionDuration = 7 * 24 * time.Hour

	// MinPasswordLength is the minimum password length.
	MinPasswordLength = 8

	// MaxPasswordLength prevents DoS via bcrypt on very long passwords.
	// bcrypt has a 72-byte limit anyway, but we cap earlier for clarity.
	MaxPasswordLength = 72

	// MaxUsernameLength bounds usernames for display sanity.
	MaxUsernameLength = 50
)

// =============================================================================
// Interface Definition
// =============================================================================

// UserService defines the interface for user and session operations.
type UserService interface {
	// Register creates a new user account. Accounts whose email is on the
	// configured admin list are created with the admin role.
	// Returns domain.ECONFLICT if email or username already exists.
	Register(ctx context.Context, params domain.RegisterParams) (*domain.Profile, error)

	// Login authenticates a user and creates a new session.
	// Returns domain.EUNAUTHORIZED for invalid credentials.
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)

	// Logout invalidates a session by its raw token.
	// Idempotent - calling with an invalid token is not an error.
	Logout(ctx context.Context, token string) error

	// GetByID retrieves a user by their ID.
	// Returns domain.ENOTFOUND if user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetBySessionToken validates the session and returns the associated user.
	// Returns domain.EUNAUTHORIZED if token is invalid or expired.
	GetBySessionToken(ctx context.Context, token string) (*domain.Profile, error)

	// ListUsers returns all profiles for the admin panel.
	ListUsers(ctx context.Context) ([]*domain.Profile, error)

	// UpdateRole assigns a role to a user (admin).
	// Returns domain.ENOTFOUND if user does not exist.
	UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.Profile, error)

	// DeleteExpiredSessions removes all expired sessions.
	DeleteExpiredSessions(ctx context.Context) error
}

// =============================================================================
// Implementation
// =============================================================================

type userService struct {
	queries     repository.Querier
	logger      *slog.Logger
	adminEmails []string // lowercased; registration bootstrap only
}

// NewUserService creates a new UserService instance.
func NewUserService(queries repository.Querier, logger *slog.Logger, adminEmails []string) UserService {
	return &userService{
		queries:     queries,
		logger:      logger,
		adminEmails: adminEmails,
	}
}

// Register creates a new user account.
//
// Security considerations:
// - Password is hashed with bcrypt cost 12, never logged or stored raw
// - A duplicate-email check still hashes the password to keep timing flat
// - Admin role comes only from the configured email list, never from input
func (s *userService) Register(ctx context.Context, params domain.RegisterParams) (*domain.Profile, error) {
	const op = "user.register"

	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Username = strings.TrimSpace(params.Username)

	if err := validateEmail(params.Email); err != nil {
		return nil, domain.Wrap(err, domain.EINVALID, op, "Invalid email address")
	}
	if params.Username == "" {
		return nil, domain.Invalid(op, "Username is required")
	}
	if len(params.Username) > MaxUsernameLength {
		return nil, domain.Invalid(op, "Username is too long")
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, domain.Wrap(err, domain.EINVALID, op, "Invalid password")
	}

	// Check if email already exists
	_, err := s.queries.GetProfileByEmail(ctx, params.Email)
	if err == nil {
		// User exists - hash anyway to prevent timing attacks
		_, _ = bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
		return nil, domain.Conflict(op, "Email already registered")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "Failed to check email availability")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to hash password")
	}

	role := domain.RoleUser
	if slices.Contains(s.adminEmails, params.Email) {
		role = domain.RoleAdmin
	}

	repoProfile, err := s.queries.CreateProfile(ctx, repository.CreateProfileParams{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		Role:         string(role),
	})
	if err != nil {
		// Unique constraint violation (email/username race)
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			return nil, domain.Conflict(op, "Email or username already registered")
		}
		return nil, domain.Internal(err, op, "Failed to create user")
	}

	user := profileToDomain(repoProfile)
	user.PasswordHash = ""

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// Login authenticates a user and creates a new session.
//
// Security considerations:
// - Constant-time password comparison via bcrypt
// - Generic error message prevents email enumeration
// - Session token is hashed before storage and only returned once
func (s *userService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	const op = "user.login"

	email = strings.ToLower(strings.TrimSpace(email))

	repoProfile, err := s.queries.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Dummy comparison keeps timing flat for unknown emails
			dummyHash := "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, domain.Unauthorized(op, "Invalid email or password")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(repoProfile.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Unauthorized(op, "Invalid email or password")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to generate session token")
	}

	_, err = s.queries.CreateSession(ctx, repository.CreateSessionParams{
		UserID:    repoProfile.ID,
		TokenHash: hashSessionToken(token),
		ExpiresAt: time.Now().Add(SessionDuration),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to create session")
	}

	user := profileToDomain(repoProfile)
	user.PasswordHash = ""

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)

	return &domain.LoginResult{
		User:  user,
		Token: token,
	}, nil
}

// Logout invalidates a session. Idempotent.
func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" || len(token) != SessionTokenBytes*2 {
		return nil
	}

	if err := s.queries.DeleteSession(ctx, hashSessionToken(token)); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to delete session", "error", err)
		}
	}

	s.logger.Debug("session invalidated")
	return nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	const op = "user.get_by_id"

	repoProfile, err := s.queries.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}

	user := profileToDomain(repoProfile)
	user.PasswordHash = ""
	return user, nil
}

// GetBySessionToken validates a session token and loads its user.
func (s *userService) GetBySessionToken(ctx context.Context, token string) (*domain.Profile, error) {
	const op = "user.get_by_session"

	if token == "" || len(token) != SessionTokenBytes*2 {
		return nil, domain.Unauthorized(op, "Invalid session")
	}

	session, err := s.queries.GetSessionByTokenHash(ctx, hashSessionToken(token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Unauthorized(op, "Invalid or expired session")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve session")
	}

	repoProfile, err := s.queries.GetProfileByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Unauthorized(op, "Invalid session")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}

	user := profileToDomain(repoProfile)
	user.PasswordHash = ""
	return user, nil
}

// ListUsers returns all profiles for the admin panel.
func (s *userService) ListUsers(ctx context.Context) ([]*domain.Profile, error) {
	const op = "user.list"

	repoProfiles, err := s.queries.ListProfiles(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list users")
	}

	users := make([]*domain.Profile, 0, len(repoProfiles))
	for _, p := range repoProfiles {
		u := profileToDomain(p)
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, nil
}

// UpdateRole assigns a role to a user.
func (s *userService) UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.Profile, error) {
	const op = "user.update_role"

	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.Invalid(op, "Unknown role")
	}

	repoProfile, err := s.queries.UpdateProfileRole(ctx, repository.UpdateProfileRoleParams{
		ID:   userID,
		Role: string(role),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user", userID.String())
		}
		return nil, domain.Internal(err, op, "Failed to update role")
	}

	user := profileToDomain(repoProfile)
	user.PasswordHash = ""

	s.logger.Info("user role updated", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// DeleteExpiredSessions removes all expired sessions.
func (s *userService) DeleteExpiredSessions(ctx context.Context) error {
	const op = "user.delete_expired_sessions"

	if err := s.queries.DeleteExpiredSessions(ctx); err != nil {
		return domain.Internal(err, op, "Failed to delete expired sessions")
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return errors.New("password is too long")
	}
	return nil
}

// generateSessionToken returns a cryptographically secure random token.
func generateSessionToken() (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashSessionToken hashes a raw token for storage. If the sessions table
// leaks, the stored hashes cannot be replayed as cookies.
func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
