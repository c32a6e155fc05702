package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"domain error", Invalid("code.redeem", "bad code"), EINVALID},
		{"wrapped domain error", fmt.Errorf("handler: %w", NoQuota("request.submit")), EQUOTA},
		{"plain error defaults to internal", errors.New("boom"), EINTERNAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	dbErr := errors.New(`pq: relation "profiles" does not exist`)
	err := Internal(dbErr, "user.get_by_id", "Failed to retrieve user")

	msg := ErrorMessage(err)
	assert.NotContains(t, msg, "pq:")
	assert.NotContains(t, msg, "relation")
	assert.NotContains(t, msg, "Failed to retrieve user")
	assert.Contains(t, msg, "internal error")
}

func TestErrorMessage_PassesThroughClientMessages(t *testing.T) {
	err := QuotaExceeded("request.submit", 3, 3)
	assert.Equal(t, "Monthly request quota exceeded (3 of 3 used)", ErrorMessage(err))
}

func TestError_UnwrapChain(t *testing.T) {
	inner := errors.New("connection reset")
	err := Internal(inner, "repo.query", "Query failed")
	assert.True(t, errors.Is(err, inner))
}

func TestAddFieldError(t *testing.T) {
	ve := NewValidationError("user.register", "email", "Email is required")
	ve = AddFieldError(ve, "password", "Password is too short")

	assert.Equal(t, map[string]string{
		"email":    "Email is required",
		"password": "Password is too short",
	}, ve.Fields)

	// A non-validation error starts a fresh one.
	fresh := AddFieldError(errors.New("boom"), "username", "Username is required")
	assert.Equal(t, map[string]string{"username": "Username is required"}, fresh.Fields)
}
