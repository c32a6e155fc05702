package repository

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

const codeColumns = `id, code_string, description, is_active, permissions_granted_json, created_at`

func scanCode(row interface{ Scan(...interface{}) error }) (GenericCode, error) {
	var c GenericCode
	err := row.Scan(
		&c.ID,
		&c.CodeString,
		&c.Description,
		&c.IsActive,
		&c.PermissionsGrantedJson,
		&c.CreatedAt,
	)
	return c, err
}

// GetActiveCodeByString looks up a code by its (already uppercased) string.
// Inactive and nonexistent codes are both sql.ErrNoRows: callers cannot tell
// them apart, which keeps code existence from leaking.
func (q *Queries) GetActiveCodeByString(ctx context.Context, codeString string) (GenericCode, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		SELECT `+codeColumns+`
		FROM generic_codes
		WHERE code_string = $1 AND is_active = true`,
		codeString,
	)
	return scanCode(row)
}

func (q *Queries) GetCodeByID(ctx context.Context, id int64) (GenericCode, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		SELECT `+codeColumns+` FROM generic_codes WHERE id = $1`, id)
	return scanCode(row)
}

type CreateCodeParams struct {
	CodeString             string
	Description            string
	PermissionsGrantedJson pqtype.NullRawMessage
	IsActive               bool
}

func (q *Queries) CreateCode(ctx context.Context, arg CreateCodeParams) (GenericCode, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		INSERT INTO generic_codes (code_string, description, permissions_granted_json, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+codeColumns,
		arg.CodeString, arg.Description, arg.PermissionsGrantedJson, arg.IsActive,
	)
	return scanCode(row)
}

func (q *Queries) ListCodes(ctx context.Context) ([]GenericCode, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+codeColumns+` FROM generic_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []GenericCode
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

type SetCodeActiveParams struct {
	ID       int64
	IsActive bool
}

func (q *Queries) SetCodeActive(ctx context.Context, arg SetCodeActiveParams) (GenericCode, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	row := q.db.QueryRowContext(ctx, `
		UPDATE generic_codes SET is_active = $2
		WHERE id = $1
		RETURNING `+codeColumns,
		arg.ID, arg.IsActive,
	)
	return scanCode(row)
}
