package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Row types mirror the table layout, nullable columns as sql.Null* values.
// Conversion to domain types happens in the service layer.

type Profile struct {
	ID                 uuid.UUID
	Username           string
	Email              string
	PasswordHash       string
	Role               string
	RequestPromptQuota int32
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type GenericCode struct {
	ID                     int64
	CodeString             string
	Description            sql.NullString
	IsActive               bool
	PermissionsGrantedJson pqtype.NullRawMessage
	CreatedAt              time.Time
}

type UserPermission struct {
	ID            int64
	UserID        uuid.UUID
	PermissionKey string
	GrantedByCode sql.NullString
	GrantedAt     time.Time
}

type UserRequest struct {
	ID          int64
	UserID      uuid.UUID
	RequestText string
	Status      string
	RequestedAt time.Time
	ProcessedAt sql.NullTime
	AdminNotes  sql.NullString
}

type ContentRow struct {
	ID                    int64
	JudulKonten           string
	DeskripsiKonten       sql.NullString
	RequiredPermissionKey string
	IsPublished           bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type DigitalProductLink struct {
	ID                    int64
	NamaProduk            string
	LinkProduk            string
	RequiredPermissionKey string
	IsPublished           bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
