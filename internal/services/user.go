package services

import (
	"errors"
	"fmt"

	"github.com/DocksDocks/oauth-api/internal/models"
	"gorm.io/gorm"
)

// UserService covers the administrative surface over users: listing,
// role grants, and deletion with cascade.
type UserService struct {
	db           *gorm.DB
	tokenService *TokenService
}

func NewUserService(db *gorm.DB, tokenService *TokenService) *UserService {
	return &UserService{db: db, tokenService: tokenService}
}

type UserListResult struct {
	Users    []models.User `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// List returns users page by page, optionally filtered by a substring
// match on email or name.
func (s *UserService) List(page, pageSize int, search string) (*UserListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := query.Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return &UserListResult{Users: users, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("ProviderAccounts").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateRole changes a user's role. Rules:
//   - the actor may not change their own role
//   - granting superadmin requires the actor to be superadmin
//   - demoting a superadmin requires the actor to be superadmin
//
// All of the target's sessions are revoked so stale access tokens age out
// within one access TTL.
func (s *UserService) UpdateRole(actorID uint, actorRole models.Role, targetID uint, newRole models.Role) (*models.User, error) {
	if !newRole.Valid() {
		return nil, ErrInvalidRole
	}
	if actorID == targetID {
		return nil, ErrSelfRoleChange
	}

	var target models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if newRole == models.RoleSuperadmin && !actorRole.Exactly(models.RoleSuperadmin) {
			return ErrSuperadminTarget
		}
		if target.Role == models.RoleSuperadmin && !actorRole.Exactly(models.RoleSuperadmin) {
			return ErrSuperadminTarget
		}

		return tx.Model(&target).Update("role", newRole).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.tokenService.RevokeAll(targetID, ClientInfo{}); err != nil {
		return nil, fmt.Errorf("revoke sessions after role change: %w", err)
	}

	target.Role = newRole
	return &target, nil
}

// Delete removes a user and everything hanging off them: provider
// accounts, API keys, and refresh tokens. Superadmins can only be
// deleted by a superadmin, and never by themselves.
func (s *UserService) Delete(actorID uint, actorRole models.Role, targetID uint) error {
	if actorID == targetID {
		return ErrSelfRoleChange
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := lockForUpdate(tx).First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if target.Role == models.RoleSuperadmin && !actorRole.Exactly(models.RoleSuperadmin) {
			return ErrSuperadminTarget
		}

		if err := tx.Where("user_id = ?", targetID).Delete(&models.ProviderAccount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Unscoped().Delete(&models.APIKey{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
}

// UpdateProfile lets a user edit their own display fields. Email and role
// are not editable here.
func (s *UserService) UpdateProfile(userID uint, name, avatar string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}
