package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminGrantLabel is recorded as granted_by_code when an administrator grants
// a permission directly instead of through code redemption.
const AdminGrantLabel = "admin_grant"

// PermissionGrant records that a user holds a permission key.
//
// (user_id, permission_key) is unique at the store level; redeeming a second
// code that carries an already-held key is a no-op, not an error.
type PermissionGrant struct {
	ID            int64
	UserID        uuid.UUID
	PermissionKey string
	GrantedByCode string // code string or AdminGrantLabel; audit label, not a foreign key
	GrantedAt     time.Time
}
