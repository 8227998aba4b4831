package models

import "time"

// ProviderAccount stores an external OAuth provider identity linked to a
// user. One provider identity maps to exactly one user, ever; a user may
// link at most one account per provider.
type ProviderAccount struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:user_provider,unique;not null" json:"user_id"`
	Provider   string    `gorm:"index:user_provider,unique;index:provider_uid,unique;size:50;not null" json:"provider"`
	ProviderID string    `gorm:"index:provider_uid,unique;size:191;not null" json:"provider_id"`
	Email      string    `gorm:"size:255" json:"email"`
	Name       string    `gorm:"size:100" json:"name"`
	Avatar     string    `gorm:"size:500" json:"avatar"`
	LinkedAt   time.Time `gorm:"autoCreateTime" json:"linked_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProviderAccount) TableName() string { return "provider_accounts" }
