package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a local account resolved from one or more external
// provider identities. Role is only ever mutated through admin endpoints.
type User struct {
	ID                       uint           `gorm:"primaryKey" json:"id"`
	Email                    string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name                     string         `gorm:"size:100" json:"name"`
	Avatar                   string         `gorm:"size:500" json:"avatar"`
	Role                     Role           `gorm:"size:50;default:user" json:"role"` // user, admin, superadmin
	PrimaryProviderAccountID *uint          `json:"primary_provider_account_id"`
	LastLogin                *time.Time     `json:"last_login"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"-"`

	ProviderAccounts []ProviderAccount `gorm:"foreignKey:UserID" json:"provider_accounts,omitempty"`
}

func (User) TableName() string { return "users" }
