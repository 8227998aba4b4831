package services

import (
	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"gorm.io/gorm"
)

type SystemConfigService struct {
	db *gorm.DB
}

func NewSystemConfigService(db *gorm.DB) *SystemConfigService {
	return &SystemConfigService{db: db}
}

func (s *SystemConfigService) Get(key string) (string, error) {
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return "", err
	}
	return cfg.Value, nil
}

// GetWithDefault returns the stored value, or defaultValue when the key is
// missing or empty.
func (s *SystemConfigService) GetWithDefault(key, defaultValue string) string {
	value, err := s.Get(key)
	if err != nil || value == "" {
		return defaultValue
	}
	return value
}

func (s *SystemConfigService) Set(key, value string) error {
	var cfg models.SystemConfig
	err := s.db.Where("`key` = ?", key).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = models.SystemConfig{
			Key:   key,
			Value: value,
		}
		return s.db.Create(&cfg).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&cfg).Update("value", value).Error
}

func (s *SystemConfigService) GetByGroup(group string) ([]models.SystemConfig, error) {
	var configs []models.SystemConfig
	if err := s.db.Where("`group` = ?", group).Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// AuthSessionConfigResponse exposes the admin-tunable token lifetimes.
// Empty values mean the config-file default applies.
type AuthSessionConfigResponse struct {
	AccessTokenTTL  string `json:"access_token_ttl"`
	RefreshTokenTTL string `json:"refresh_token_ttl"`
}

func (s *SystemConfigService) GetAuthSessionConfig() *AuthSessionConfigResponse {
	return &AuthSessionConfigResponse{
		AccessTokenTTL:  s.GetWithDefault("auth_access_token_ttl", ""),
		RefreshTokenTTL: s.GetWithDefault("auth_refresh_token_ttl", ""),
	}
}

type UpdateAuthSessionConfigRequest struct {
	AccessTokenTTL  *string `json:"access_token_ttl"`
	RefreshTokenTTL *string `json:"refresh_token_ttl"`
}

// UpdateAuthSessionConfig validates TTL strings before storing them so a
// typo can never break token issuance at runtime.
func (s *SystemConfigService) UpdateAuthSessionConfig(req *UpdateAuthSessionConfigRequest) error {
	if req.AccessTokenTTL != nil {
		if *req.AccessTokenTTL != "" {
			if _, err := utils.ParseTTL(*req.AccessTokenTTL); err != nil {
				return err
			}
		}
		if err := s.Set("auth_access_token_ttl", *req.AccessTokenTTL); err != nil {
			return err
		}
	}
	if req.RefreshTokenTTL != nil {
		if *req.RefreshTokenTTL != "" {
			if _, err := utils.ParseTTL(*req.RefreshTokenTTL); err != nil {
				return err
			}
		}
		if err := s.Set("auth_refresh_token_ttl", *req.RefreshTokenTTL); err != nil {
			return err
		}
	}
	return nil
}
