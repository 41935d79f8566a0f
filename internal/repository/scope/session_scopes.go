package scope

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy limits agent rows to one tenant and user.
func OwnedBy(tenantId, userId uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ? AND user_id = ?", tenantId, userId)
	}
}

// LiveAt keeps rows whose expires_at is still ahead of now.
func LiveAt(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at > ?", now)
	}
}

func RecentlyTouchedFirst(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}
