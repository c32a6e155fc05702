package domain

import "time"

// ContentType identifies a bulk-insertable content table.
type ContentType string

const (
	ContentTypePrompts      ContentType = "prompts"
	ContentTypeProductIdeas ContentType = "ide_produk"
)

// ValidContentType reports whether t names a table the batch insert accepts.
func ValidContentType(t ContentType) bool {
	return t == ContentTypePrompts || t == ContentTypeProductIdeas
}

// ContentItem is a row of gated curated content (a prompt or a product idea).
// Visibility requires the viewer to hold RequiredPermissionKey.
type ContentItem struct {
	ID                    int64
	Title                 string
	Description           string
	RequiredPermissionKey string
	IsPublished           bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DigitalProductLink is a gated link to an external digital product.
type DigitalProductLink struct {
	ID                    int64
	ProductName           string
	ProductLink           string
	RequiredPermissionKey string
	IsPublished           bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BatchInsertParams contains the validated parameters for a bulk content insert.
type BatchInsertParams struct {
	ContentType ContentType
	Rows        []ContentItem
}
