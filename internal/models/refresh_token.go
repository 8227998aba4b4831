package models

import "time"

// RefreshToken is the persisted record of one issued refresh token. The
// raw token is never stored; TokenHash is its SHA-256 hex digest. Every
// token descended from one login shares a FamilyID.
type RefreshToken struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	TokenHash   string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	FamilyID    string     `gorm:"index;size:64;not null" json:"family_id"`
	IsUsed      bool       `gorm:"default:false;not null" json:"is_used"`
	ExpiresAt   time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt   *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	CreatedByIP string     `gorm:"size:64" json:"created_by_ip,omitempty"`
	UserAgent   string     `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
