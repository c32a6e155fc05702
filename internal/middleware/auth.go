// Package middleware contains HTTP middleware for the Promptvault API.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ardiwn/promptvault/internal/auth"
	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/handler"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/ardiwn/promptvault/internal/session"
)

// =============================================================================
// Auth Middleware Configuration
// =============================================================================

// AuthMiddleware provides authentication middleware functionality.
//
// This struct holds dependencies needed by auth middleware functions.
// Create one instance and use its methods as middleware.
type AuthMiddleware struct {
	userService service.UserService
	logger      *slog.Logger
	isSecure    bool // Whether to set Secure flag on cookies (true in production)
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
//
// Parameters:
// - userService: Service for user and session operations
// - logger: Structured logger for auth events
// - isSecure: Set to true in production to enable Secure cookie flag
func NewAuthMiddleware(userService service.UserService, logger *slog.Logger, isSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// =============================================================================
// WithUser Middleware
// =============================================================================

// WithUser is middleware that attempts to load the user from the session cookie.
//
// This middleware:
// 1. Checks for a session cookie
// 2. If found, validates the session and loads the user
// 3. Stores the user in the request context
// 4. Continues to the next handler regardless of authentication status
//
// Use this middleware on all API routes. Routes that require authentication
// should layer RequireUser (and RequireAdmin where appropriate) after it.
func (m *AuthMiddleware) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			// No cookie found - continue without user
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.userService.GetBySessionToken(r.Context(), cookie.Value)
		if err != nil {
			// Invalid or expired session - clear the cookie and continue
			clearSessionCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.SetUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// =============================================================================
// RequireUser Middleware
// =============================================================================

// RequireUser is middleware that requires an authenticated user.
//
// Responds with 401 and a JSON error body when no user is present in the
// request context.
//
// IMPORTANT: This middleware must be used AFTER WithUser in the middleware chain:
//
//	stack := Stack(authMw.WithUser, authMw.RequireUser)
//	mux.Handle("POST /api/redeem-access-code", stack(redeemHandler))
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.GetUser(r.Context())
		if user == nil {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// RequireAdmin Middleware
// =============================================================================

// RequireAdmin is middleware that requires an authenticated admin user.
//
// Responds with 401 when no user is present, and 403 when the user does not
// have the admin role. Use AFTER WithUser:
//
//	adminStack := Stack(authMw.WithUser, authMw.RequireAdmin)
//	mux.Handle("POST /api/admin/content/batch", adminStack(batchHandler))
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.GetUser(r.Context())
		if user == nil {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}

		if !user.IsAdmin() {
			err := domain.Forbidden("", "Admin access required")
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Cookie Helpers
// =============================================================================

// clearSessionCookie removes the session cookie from the client.
//
// Cookie Settings mirror the login handler's:
// - HttpOnly: true - Prevents JavaScript access (XSS protection)
// - Secure: configurable - Set true in production (HTTPS only)
// - SameSite: Lax - Prevents CSRF while allowing normal navigation
//
// Deletion works by setting MaxAge to -1, which tells the browser to drop
// the cookie immediately.
func clearSessionCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     session.CookiePath,
		MaxAge:   -1, // Delete immediately
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// =============================================================================
// Middleware Stack Helpers
// =============================================================================

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	stack := Stack(loggingMw, authMw.WithUser, authMw.RequireUser)
//	mux.Handle("GET /api/me", stack(meHandler))
//
// This is equivalent to:
//
//	mux.Handle("GET /api/me",
//	    loggingMw(authMw.WithUser(authMw.RequireUser(meHandler))))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// =============================================================================
// Compile-time checks
// =============================================================================

// Ensure middleware functions have correct signature
var (
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).WithUser
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireUser
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireAdmin
)
