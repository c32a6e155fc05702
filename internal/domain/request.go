package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the review state of a custom prompt request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusProcessed RequestStatus = "processed"
	RequestStatusRejected  RequestStatus = "rejected"
)

// ValidRequestStatus reports whether s is a known review state.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessed, RequestStatusRejected:
		return true
	}
	return false
}

// PromptRequest is a user's custom content request, gated by the monthly
// quota window (the current UTC calendar month).
type PromptRequest struct {
	ID          int64
	UserID      uuid.UUID
	RequestText string
	Status      RequestStatus
	RequestedAt time.Time
	ProcessedAt *time.Time
	AdminNotes  string
}

// ReviewRequestParams contains parameters for an admin review update.
type ReviewRequestParams struct {
	RequestID  int64
	Status     RequestStatus
	AdminNotes string
}

// StartOfMonth returns midnight UTC on the first day of the month containing
// now. The quota window is deliberately pinned to UTC so behavior near month
// boundaries does not depend on server locale.
func StartOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
