package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const contentColumns = `id, judul_konten, deskripsi_konten, required_permission_key, is_published, created_at, updated_at`

// contentTable maps a validated content type to its table name. The table
// name is interpolated into SQL, so only values from this map may be used.
func contentTable(contentType string) (string, error) {
	switch contentType {
	case "prompts":
		return "prompts", nil
	case "ide_produk":
		return "ide_produk", nil
	}
	return "", fmt.Errorf("unknown content table %q", contentType)
}

type BatchInsertContentParams struct {
	ContentType string
	Rows        []ContentInsertRow
}

type ContentInsertRow struct {
	JudulKonten           string
	DeskripsiKonten       string
	RequiredPermissionKey string
	IsPublished           bool
}

// BatchInsertContent inserts all rows inside one transaction so a failed
// batch leaves nothing behind. Returns the number of rows written.
func (q *Queries) BatchInsertContent(ctx context.Context, arg BatchInsertContentParams) (int64, error) {
	table, err := contentTable(arg.ContentType)
	if err != nil {
		return 0, err
	}

	ctx, cancel := q.bound(ctx)
	defer cancel()

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`
		INSERT INTO %s (judul_konten, deskripsi_konten, required_permission_key, is_published)
		VALUES ($1, $2, $3, $4)`, table)

	var inserted int64
	for _, row := range arg.Rows {
		if _, err := tx.ExecContext(ctx, stmt,
			row.JudulKonten, row.DeskripsiKonten, row.RequiredPermissionKey, row.IsPublished,
		); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

type ListAccessibleContentParams struct {
	ContentType string
	UserID      uuid.UUID
}

// ListAccessibleContent returns published rows whose permission key the user
// holds. The permission match happens in SQL so unauthorized rows never leave
// the database.
func (q *Queries) ListAccessibleContent(ctx context.Context, arg ListAccessibleContentParams) ([]ContentRow, error) {
	table, err := contentTable(arg.ContentType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE is_published = true
		  AND required_permission_key IN (
			SELECT permission_key FROM user_permissions WHERE user_id = $1
		  )
		ORDER BY created_at DESC`,
		contentColumns, table,
	), arg.UserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ContentRow
	for rows.Next() {
		var c ContentRow
		if err := rows.Scan(
			&c.ID,
			&c.JudulKonten,
			&c.DeskripsiKonten,
			&c.RequiredPermissionKey,
			&c.IsPublished,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListAccessibleDigitalProducts returns published product links gated by the
// user's permission grants.
func (q *Queries) ListAccessibleDigitalProducts(ctx context.Context, userID uuid.UUID) ([]DigitalProductLink, error) {
	ctx, cancel := q.bound(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, `
		SELECT id, nama_produk, link_produk, required_permission_key, is_published, created_at, updated_at
		FROM digital_products_links
		WHERE is_published = true
		  AND required_permission_key IN (
			SELECT permission_key FROM user_permissions WHERE user_id = $1
		  )
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []DigitalProductLink
	for rows.Next() {
		var l DigitalProductLink
		if err := rows.Scan(
			&l.ID,
			&l.NamaProduk,
			&l.LinkProduk,
			&l.RequiredPermissionKey,
			&l.IsPublished,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
