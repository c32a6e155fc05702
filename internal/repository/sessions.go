package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CreateSessionParams struct {
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	var s Session
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, token_hash, expires_at, created_at`,
		uuid.New(), arg.UserID, arg.TokenHash, arg.ExpiresAt,
	).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

// GetSessionByTokenHash returns the session only while it is unexpired.
func (q *Queries) GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	var s Session
	err := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1 AND expires_at > now()`,
		tokenHash,
	).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

func (q *Queries) DeleteSession(ctx context.Context, tokenHash string) error {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	_, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (q *Queries) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	_, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

func (q *Queries) DeleteExpiredSessions(ctx context.Context) error {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	_, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	return err
}
