package models

import "time"

// SetupStatus is a single-row table recording whether first-run setup has
// completed. The row is locked during completion so only one caller wins.
type SetupStatus struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Completed   bool       `gorm:"default:false;not null" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uint      `json:"completed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (SetupStatus) TableName() string { return "setup_status" }
