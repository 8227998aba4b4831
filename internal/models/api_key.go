package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey is a shared-secret credential. Keys are presented as
// "ak_<id>_<secret>"; only the bcrypt hash of the secret is stored, the
// id prefix makes lookup O(1).
type APIKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	SecretHash string         `gorm:"size:255;not null" json:"-"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	LastUsedAt *time.Time     `json:"last_used_at"`
	ExpiresAt  *time.Time     `json:"expires_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (APIKey) TableName() string { return "api_keys" }
