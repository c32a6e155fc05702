// Package auth provides authentication context helpers.
//
// This package is designed to be imported by both middleware and handler
// packages without causing import cycles.
package auth

import (
	"context"

	"github.com/ardiwn/promptvault/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the key used to store the authenticated user in context.
	userContextKey contextKey = "user"
)

// GetUser retrieves the authenticated user from the context.
//
// Returns nil if no user is authenticated.
func GetUser(ctx context.Context) *domain.Profile {
	user, ok := ctx.Value(userContextKey).(*domain.Profile)
	if !ok {
		return nil
	}
	return user
}

// SetUser stores a user in the context.
//
// This is typically called by authentication middleware after validating
// a session token.
func SetUser(ctx context.Context, user *domain.Profile) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
