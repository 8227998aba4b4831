package services

import (
	"errors"
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
	"gorm.io/gorm"
)

// AuthService resolves verified provider identities to local users and
// hands them to the token lifecycle. The provider handshake itself happens
// upstream; by the time input reaches here the tuple is trusted.
type AuthService struct {
	db           *gorm.DB
	tokenService *TokenService
}

func NewAuthService(db *gorm.DB, tokenService *TokenService) *AuthService {
	return &AuthService{db: db, tokenService: tokenService}
}

// ProviderLogin is the verified identity produced by the provider
// handshake glue.
type ProviderLogin struct {
	Provider   string `json:"provider" binding:"required"`
	ProviderID string `json:"provider_id" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
}

type LoginResult struct {
	User   *models.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// LoginWithProvider resolves or creates the local user for a provider
// identity, then issues a fresh token pair (new family).
func (s *AuthService) LoginWithProvider(input *ProviderLogin, client ClientInfo) (*LoginResult, error) {
	var user *models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account models.ProviderAccount
		err := tx.Where("provider = ? AND provider_id = ?", input.Provider, input.ProviderID).
			First(&account).Error

		switch {
		case err == nil:
			// Known identity: refresh profile fields from the provider
			tx.Model(&account).Updates(map[string]interface{}{
				"email":  input.Email,
				"name":   input.Name,
				"avatar": input.Avatar,
			})
			var u models.User
			if err := tx.First(&u, account.UserID).Error; err != nil {
				return err
			}
			user = &u
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			// New identity. Attach to an existing user with the same email,
			// or create a fresh one.
			var u models.User
			findErr := tx.Where("email = ?", input.Email).First(&u).Error
			if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}

			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				u = models.User{
					Email:  input.Email,
					Name:   input.Name,
					Avatar: input.Avatar,
					Role:   models.RoleUser,
				}
				if err := tx.Create(&u).Error; err != nil {
					return err
				}
			}

			// A user links at most one account per provider
			var count int64
			tx.Model(&models.ProviderAccount{}).
				Where("user_id = ? AND provider = ?", u.ID, input.Provider).
				Count(&count)
			if count > 0 {
				return ErrProviderConflict
			}

			account = models.ProviderAccount{
				UserID:     u.ID,
				Provider:   input.Provider,
				ProviderID: input.ProviderID,
				Email:      input.Email,
				Name:       input.Name,
				Avatar:     input.Avatar,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}

			if u.PrimaryProviderAccountID == nil {
				if err := tx.Model(&u).Update("primary_provider_account_id", account.ID).Error; err != nil {
					return err
				}
			}
			user = &u
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.db.Model(user).Update("last_login", now)

	tokens, err := s.tokenService.Issue(user, client)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
