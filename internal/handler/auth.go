// This file implements authentication handlers for user registration, login,
// and logout, plus the authenticated GET /api/me endpoint.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/ardiwn/promptvault/internal/auth"
	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/ardiwn/promptvault/internal/session"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// AuthHandler handles authentication-related HTTP requests.
//
// Routes handled:
// - POST /api/register -> Register
// - POST /api/login    -> Login
// - POST /api/logout   -> Logout
// - GET  /api/me       -> Me
type AuthHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      *slog.Logger
	isSecure    bool // Whether to set Secure flag on cookies (true in production)
}

// NewAuthHandler creates a new AuthHandler with the required dependencies.
func NewAuthHandler(userService service.UserService, validate *validator.Validate, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validate:    validate,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

type registerRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userResponse is the JSON shape of a user in API responses.
// PasswordHash is deliberately absent.
type userResponse struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	RequestPromptQuota int    `json:"request_prompt_quota"`
	CreatedAt          string `json:"created_at"`
}

func toUserResponse(u *domain.Profile) userResponse {
	return userResponse{
		ID:                 u.ID.String(),
		Username:           u.Username,
		Email:              u.Email,
		Role:               string(u.Role),
		RequestPromptQuota: u.RequestPromptQuota,
		CreatedAt:          u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// POST /api/register
// =============================================================================

// Register creates a new user account and logs the user in.
//
// The account role is decided server-side: emails on the configured admin
// list become admins, everyone else is a regular user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "AuthHandler.Register", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), domain.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// Log the new user in immediately so registration lands in an
	// authenticated state.
	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	setSessionCookie(w, result.Token, h.isSecure)

	h.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    toUserResponse(user),
	})
}

// =============================================================================
// POST /api/login
// =============================================================================

// Login authenticates a user and issues a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := validateStruct(h.validate, "AuthHandler.Login", &req); err != nil {
		ValidationErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	setSessionCookie(w, result.Token, h.isSecure)

	h.logger.Info("user logged in", "user_id", result.User.ID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    toUserResponse(result.User),
	})
}

// =============================================================================
// POST /api/logout
// =============================================================================

// Logout invalidates the current session and clears the cookie.
// Idempotent: logging out without a session still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.userService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("logout failed", "error", err)
		}
	}

	clearSessionCookie(w, h.isSecure)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// =============================================================================
// GET /api/me
// =============================================================================

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    toUserResponse(user),
	})
}

// =============================================================================
// Cookie Helpers
// =============================================================================

func setSessionCookie(w http.ResponseWriter, token string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     session.CookiePath,
		MaxAge:   session.CookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     session.CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
