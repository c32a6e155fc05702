// Package domain contains core business types and interfaces.
//
// This file defines the Profile domain type and session types for
// authentication. These types are separate from the repository models to
// decouple the domain layer from the database layer.
package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role on the platform.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile represents a registered user of the platform.
//
// Quota note: RequestPromptQuota is the user's monthly allowance for custom
// prompt requests. It is raised (never lowered) when the user redeems an
// access code carrying a quota directive.
type Profile struct {
	ID                 uuid.UUID
	Username           string
	Email              string
	PasswordHash       string // Never expose this in API responses
	Role               Role
	RequestPromptQuota int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAdmin returns true if the user holds the admin role.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// DisplayName returns the username or email if username is empty.
func (p *Profile) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// Session represents an authenticated session.
//
// Sessions are stored in the database with a hashed token.
// The raw token is only given to the client once (at login).
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 hash of the session token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// RegisterParams contains the validated parameters for user registration.
type RegisterParams struct {
	Username string
	Email    string
	Password string // Raw password, will be hashed by service
}

// LoginResult contains the result of a successful login.
type LoginResult struct {
	User  *Profile
	Token string // Raw session token (not hashed) - only returned once
}

// =============================================================================
// Conversion helpers from repository types
// =============================================================================

// NullStringValue safely extracts a string from sql.NullString.
func NullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// NullTimeValue safely extracts a time pointer from sql.NullTime.
func NullTimeValue(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// ToNullString converts a string to sql.NullString.
func ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// ToNullTime converts a time pointer to sql.NullTime.
func ToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
