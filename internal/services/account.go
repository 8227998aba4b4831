package services

import (
	"errors"

	"github.com/DocksDocks/oauth-api/internal/models"
	"gorm.io/gorm"
)

// AccountService manages the many-to-one link between provider identities
// and a local user, including primary-provider selection.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// ListForUser returns the user's linked provider accounts.
func (s *AccountService) ListForUser(userID uint) ([]models.ProviderAccount, error) {
	var accounts []models.ProviderAccount
	err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

// Link attaches a provider identity to the user. Fails with
// ErrProviderConflict when the identity already belongs to anyone, or the
// user already has an account for this provider.
func (s *AccountService) Link(userID uint, input *ProviderLogin) (*models.ProviderAccount, error) {
	var account models.ProviderAccount

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.ProviderAccount{}).
			Where("provider = ? AND provider_id = ?", input.Provider, input.ProviderID).
			Count(&count)
		if count > 0 {
			return ErrProviderConflict
		}

		tx.Model(&models.ProviderAccount{}).
			Where("user_id = ? AND provider = ?", userID, input.Provider).
			Count(&count)
		if count > 0 {
			return ErrProviderConflict
		}

		account = models.ProviderAccount{
			UserID:     userID,
			Provider:   input.Provider,
			ProviderID: input.ProviderID,
			Email:      input.Email,
			Name:       input.Name,
			Avatar:     input.Avatar,
		}
		if err := tx.Create(&account).Error; err != nil {
			// The unique indexes are the last line of defense under races
			return ErrProviderConflict
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.PrimaryProviderAccountID == nil {
			return tx.Model(&user).Update("primary_provider_account_id", account.ID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Unlink removes one provider account. The last linked account can never
// be removed. If the removed account was the primary, the remaining
// account with the lowest id becomes primary in the same transaction.
func (s *AccountService) Unlink(userID uint, provider string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account models.ProviderAccount
		if err := tx.Where("user_id = ? AND provider = ?", userID, provider).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProviderNotLinked
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.ProviderAccount{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastProvider
		}

		if err := tx.Delete(&account).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.PrimaryProviderAccountID != nil && *user.PrimaryProviderAccountID == account.ID {
			var next models.ProviderAccount
			if err := tx.Where("user_id = ?", userID).Order("id ASC").First(&next).Error; err != nil {
				return err
			}
			return tx.Model(&user).Update("primary_provider_account_id", next.ID).Error
		}
		return nil
	})
}

// SetPrimary marks one linked provider as the user's primary.
func (s *AccountService) SetPrimary(userID uint, provider string) error {
	var account models.ProviderAccount
	if err := s.db.Where("user_id = ? AND provider = ?", userID, provider).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProviderNotLinked
		}
		return err
	}

	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("primary_provider_account_id", account.ID).Error
}
