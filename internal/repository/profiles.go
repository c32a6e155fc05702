package repository

import (
	"context"

	"github.com/google/uuid"
)

const profileColumns = `id, username, email, password_hash, role, request_prompt_quota, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.PasswordHash,
		&p.Role,
		&p.RequestPromptQuota,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

type CreateProfileParams struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// CreateProfile inserts a new profile row. Uniqueness violations on email or
// username surface as database errors for the service layer to translate.
func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns,
		arg.ID, arg.Username, arg.Email, arg.PasswordHash, arg.Role,
	)
	return scanProfile(row)
}

func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (q *Queries) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	return scanProfile(row)
}

// ListProfiles returns all profiles newest first, for the admin user list.
func (q *Queries) ListProfiles(ctx context.Context) ([]Profile, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

type UpdateProfileRoleParams struct {
	ID   uuid.UUID
	Role string
}

func (q *Queries) UpdateProfileRole(ctx context.Context, arg UpdateProfileRoleParams) (Profile, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		UPDATE profiles SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		arg.ID, arg.Role,
	)
	return scanProfile(row)
}

type UpdateProfileQuotaParams struct {
	ID                 uuid.UUID
	RequestPromptQuota int32
}

// UpdateProfileQuota writes the merged quota value. Callers must have applied
// the monotonic merge first; the query itself is a plain assignment.
func (q *Queries) UpdateProfileQuota(ctx context.Context, arg UpdateProfileQuotaParams) error {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, `
		UPDATE profiles SET request_prompt_quota = $2, updated_at = now()
		WHERE id = $1`,
		arg.ID, arg.RequestPromptQuota,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
