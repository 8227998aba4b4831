package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const apiKeyCacheTTL = 5 * time.Minute

// APIKeyService issues and validates shared-secret API keys. Keys are
// presented as "ak_<id>_<secret>"; validation hits a Redis cache before
// the database (refresh-on-miss, invalidated on every write). The cache
// is an injected dependency, never package state.
type APIKeyService struct {
	db    *gorm.DB
	cache *redis.Client // nil disables caching
}

func NewAPIKeyService(db *gorm.DB, cache *redis.Client) *APIKeyService {
	return &APIKeyService{db: db, cache: cache}
}

// CreatedAPIKey carries the raw key exactly once, at creation time.
type CreatedAPIKey struct {
	Key    *models.APIKey `json:"key"`
	RawKey string         `json:"raw_key"`
}

// Create mints a key for the user. Only the bcrypt hash of the secret is
// stored; the raw key is returned once and cannot be recovered.
func (s *APIKeyService) Create(userID uint, name string, expiresAt *time.Time) (*CreatedAPIKey, error) {
	return s.CreateTx(s.db, userID, name, expiresAt)
}

// CreateTx mints a key inside an existing transaction, so callers can make
// key creation atomic with their own writes.
func (s *APIKeyService) CreateTx(tx *gorm.DB, userID uint, name string, expiresAt *time.Time) (*CreatedAPIKey, error) {
	secret, err := utils.GenerateSecret(16)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashAPIKeySecret(secret)
	if err != nil {
		return nil, err
	}

	key := models.APIKey{
		UserID:     userID,
		Name:       name,
		SecretHash: hash,
		IsActive:   true,
		ExpiresAt:  expiresAt,
	}
	if err := tx.Create(&key).Error; err != nil {
		return nil, err
	}

	return &CreatedAPIKey{
		Key:    &key,
		RawKey: fmt.Sprintf("ak_%d_%s", key.ID, secret),
	}, nil
}

// ListForUser returns the user's keys (hashes never leave the model's
// json:"-" field).
func (s *APIKeyService) ListForUser(userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&keys).Error
	return keys, err
}

// Revoke deactivates a key owned by the user and drops it from the cache.
func (s *APIKeyService) Revoke(ctx context.Context, userID, keyID uint) error {
	res := s.db.Model(&models.APIKey{}).
		Where("id = ? AND user_id = ?", keyID, userID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAPIKeyNotFound
	}

	s.invalidate(ctx, keyID)
	return nil
}

// Delete removes a key owned by the user.
func (s *APIKeyService) Delete(ctx context.Context, userID, keyID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", keyID, userID).Delete(&models.APIKey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAPIKeyNotFound
	}

	s.invalidate(ctx, keyID)
	return nil
}

// Validate checks a presented raw key. The cache stores the key row's
// hash and state, saving the DB read on the hot path; the bcrypt compare
// always runs.
func (s *APIKeyService) Validate(ctx context.Context, rawKey string) (*models.APIKey, error) {
	keyID, secret, err := splitRawKey(rawKey)
	if err != nil {
		return nil, ErrAPIKeyInvalid
	}

	key, err := s.load(ctx, keyID)
	if err != nil {
		return nil, err
	}

	if !key.IsActive {
		return nil, ErrAPIKeyInvalid
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, ErrAPIKeyInvalid
	}
	if !utils.CheckAPIKeySecret(secret, key.SecretHash) {
		return nil, ErrAPIKeyInvalid
	}

	// Best-effort usage tracking
	now := time.Now()
	s.db.Model(&models.APIKey{}).Where("id = ?", key.ID).Update("last_used_at", now)

	return key, nil
}

func (s *APIKeyService) load(ctx context.Context, keyID uint) (*models.APIKey, error) {
	cacheKey := apiKeyCacheKey(keyID)

	if s.cache != nil {
		var cached models.APIKey
		if data, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var key models.APIKey
	if err := s.db.First(&key, keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyInvalid
		}
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(&key); err == nil {
			s.cache.Set(ctx, cacheKey, data, apiKeyCacheTTL)
		}
	}

	return &key, nil
}

func (s *APIKeyService) invalidate(ctx context.Context, keyID uint) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, apiKeyCacheKey(keyID))
}

func apiKeyCacheKey(id uint) string {
	return fmt.Sprintf("apikey:%d", id)
}

func splitRawKey(raw string) (uint, string, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "_", 3)
	if len(parts) != 3 || parts[0] != "ak" || parts[2] == "" {
		return 0, "", ErrAPIKeyInvalid
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return 0, "", ErrAPIKeyInvalid
	}
	return uint(id), parts[2], nil
}
