package repository

import (
	"context"

	"github.com/google/uuid"
)

const permissionColumns = `id, user_id, permission_key, granted_by_code, granted_at`

func scanPermission(row interface{ Scan(...interface{}) error }) (UserPermission, error) {
	var p UserPermission
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.PermissionKey,
		&p.GrantedByCode,
		&p.GrantedAt,
	)
	return p, err
}

type InsertPermissionGrantParams struct {
	UserID        uuid.UUID
	PermissionKey string
	GrantedByCode string
}

// InsertPermissionGrant creates a grant row, treating an existing
// (user_id, permission_key) pair as success. The boolean reports whether a
// new row was actually written.
func (q *Queries) InsertPermissionGrant(ctx context.Context, arg InsertPermissionGrantParams) (bool, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO user_permissions (user_id, permission_key, granted_by_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, permission_key) DO NOTHING`,
		arg.UserID, arg.PermissionKey, arg.GrantedByCode,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Queries) ListUserPermissions(ctx context.Context, userID uuid.UUID) ([]UserPermission, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+permissionColumns+`
		FROM user_permissions
		WHERE user_id = $1
		ORDER BY granted_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []UserPermission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, p)
	}
	return grants, rows.Err()
}

// ListAllPermissions returns every grant, newest first, for the admin panel.
func (q *Queries) ListAllPermissions(ctx context.Context) ([]UserPermission, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+permissionColumns+`
		FROM user_permissions
		ORDER BY granted_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []UserPermission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, p)
	}
	return grants, rows.Err()
}

func (q *Queries) DeletePermissionGrant(ctx context.Context, id int64) error {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, `DELETE FROM user_permissions WHERE id = $1`, id)
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
