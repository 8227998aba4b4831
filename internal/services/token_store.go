package services

import (
	"errors"
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshTokenStore is pure persistence for refresh token records. No
// authorization decisions happen here.
type RefreshTokenStore interface {
	Insert(rec *models.RefreshToken) error
	FindByHash(tokenHash string) (*models.RefreshToken, error)
	MarkUsed(id uint) error
	RevokeFamily(familyID string) error
	RevokeAllForUser(userID uint) error
	ListActiveForUser(userID uint) ([]models.RefreshToken, error)
	FindByIDForUser(id, userID uint) (*models.RefreshToken, error)
	DeleteExpiredBefore(now time.Time) (int64, error)
}

type gormRefreshTokenStore struct {
	db *gorm.DB
}

// NewRefreshTokenStore returns a GORM-backed store. Pass a transaction
// handle to scope operations to that transaction.
func NewRefreshTokenStore(db *gorm.DB) RefreshTokenStore {
	return &gormRefreshTokenStore{db: db}
}

func (s *gormRefreshTokenStore) Insert(rec *models.RefreshToken) error {
	return s.db.Create(rec).Error
}

// lockForUpdate adds FOR UPDATE to reads that guard a check-then-act
// sequence. sqlite has no FOR UPDATE; its single-writer model already
// serializes writers.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FindByHash locks the row for update inside a transaction so two
// concurrent rotations of the same token serialize on it.
func (s *gormRefreshTokenStore) FindByHash(tokenHash string) (*models.RefreshToken, error) {
	q := lockForUpdate(s.db)

	var rec models.RefreshToken
	if err := q.Where("token_hash = ?", tokenHash).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *gormRefreshTokenStore) MarkUsed(id uint) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("is_used", true).Error
}

// RevokeFamily marks every record in the family revoked. Idempotent:
// already-revoked rows keep their original timestamp.
func (s *gormRefreshTokenStore) RevokeFamily(familyID string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("family_id = ? AND revoked_at IS NULL", familyID).
		Update("revoked_at", time.Now()).Error
}

func (s *gormRefreshTokenStore) RevokeAllForUser(userID uint) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

func (s *gormRefreshTokenStore) ListActiveForUser(userID uint) ([]models.RefreshToken, error) {
	var recs []models.RefreshToken
	err := s.db.
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (s *gormRefreshTokenStore) FindByIDForUser(id, userID uint) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// DeleteExpiredBefore garbage-collects expired records. Purely additive to
// correctness; safe to run concurrently and repeatedly.
func (s *gormRefreshTokenStore) DeleteExpiredBefore(now time.Time) (int64, error) {
	res := s.db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
