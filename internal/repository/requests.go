package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const requestColumns = `id, user_id, request_text, status, requested_at, processed_at, admin_notes`

func scanRequest(row interface{ Scan(...interface{}) error }) (UserRequest, error) {
	var r UserRequest
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.RequestText,
		&r.Status,
		&r.RequestedAt,
		&r.ProcessedAt,
		&r.AdminNotes,
	)
	return r, err
}

type CreateRequestParams struct {
	UserID      uuid.UUID
	RequestText string
}

func (q *Queries) CreateRequest(ctx context.Context, arg CreateRequestParams) (UserRequest, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		INSERT INTO user_requests (user_id, request_text)
		VALUES ($1, $2)
		RETURNING `+requestColumns,
		arg.UserID, arg.RequestText,
	)
	return scanRequest(row)
}

type CountUserRequestsSinceParams struct {
	UserID uuid.UUID
	Since  time.Time
}

// CountUserRequestsSince counts requests in the current quota window.
func (q *Queries) CountUserRequestsSince(ctx context.Context, arg CountUserRequestsSinceParams) (int64, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT count(*) FROM user_requests
		WHERE user_id = $1 AND requested_at >= $2`,
		arg.UserID, arg.Since,
	).Scan(&count)
	return count, err
}

func (q *Queries) ListUserRequests(ctx context.Context, userID uuid.UUID) ([]UserRequest, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM user_requests
		WHERE user_id = $1
		ORDER BY requested_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []UserRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (q *Queries) ListAllRequests(ctx context.Context) ([]UserRequest, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM user_requests
		ORDER BY requested_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []UserRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

type UpdateRequestReviewParams struct {
	ID         int64
	Status     string
	AdminNotes string
}

// UpdateRequestReview records an admin decision and stamps processed_at.
func (q *Queries) UpdateRequestReview(ctx context.Context, arg UpdateRequestReviewParams) (UserRequest, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		UPDATE user_requests
		SET status = $2, admin_notes = $3, processed_at = now()
		WHERE id = $1
		RETURNING `+requestColumns,
		arg.ID, arg.Status, arg.AdminNotes,
	)
	return scanRequest(row)
}
