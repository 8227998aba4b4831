package services

import (
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
	"gorm.io/gorm"
)

// SetupService runs the first-time setup wizard. Completion is a
// one-winner operation: the status row is locked before the existence
// check so two concurrent completions cannot both succeed.
type SetupService struct {
	db     *gorm.DB
	apiKey *APIKeyService
}

func NewSetupService(db *gorm.DB, apiKey *APIKeyService) *SetupService {
	return &SetupService{db: db, apiKey: apiKey}
}

// IsComplete derives completion from the dedicated status row only. The
// row is written in the same transaction that creates the first
// superadmin, so it cannot disagree with the user table.
func (s *SetupService) IsComplete() (bool, error) {
	var status models.SetupStatus
	if err := s.db.First(&status).Error; err != nil {
		return false, err
	}
	return status.Completed, nil
}

// SetupResult is returned once; the raw API key cannot be recovered.
type SetupResult struct {
	User   *models.User `json:"user"`
	APIKey string       `json:"api_key"`
}

// Complete creates the initial superadmin from a verified provider
// identity, links the account, and mints the first API key. Everything
// commits in one transaction: a half-finished setup with the status row
// flipped but no API key would leave the whole gated surface unreachable.
func (s *SetupService) Complete(input *ProviderLogin) (*SetupResult, error) {
	var (
		user    models.User
		created *CreatedAPIKey
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var status models.SetupStatus
		if err := lockForUpdate(tx).First(&status).Error; err != nil {
			return err
		}
		if status.Completed {
			return ErrSetupCompleted
		}

		user = models.User{
			Email:  input.Email,
			Name:   input.Name,
			Avatar: input.Avatar,
			Role:   models.RoleSuperadmin,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		account := models.ProviderAccount{
			UserID:     user.ID,
			Provider:   input.Provider,
			ProviderID: input.ProviderID,
			Email:      input.Email,
			Name:       input.Name,
			Avatar:     input.Avatar,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("primary_provider_account_id", account.ID).Error; err != nil {
			return err
		}

		key, err := s.apiKey.CreateTx(tx, user.ID, "setup", nil)
		if err != nil {
			return err
		}
		created = key

		now := time.Now()
		return tx.Model(&status).Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
			"completed_by": user.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &SetupResult{User: &user, APIKey: created.RawKey}, nil
}
