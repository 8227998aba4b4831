package models

import (
	"fmt"

	"github.com/DocksDocks/oauth-api/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&ProviderAccount{},
		&RefreshToken{},
		&APIKey{},
		&SetupStatus{},
		&SystemConfig{},
		&SystemLog{},
		&SchedulerLock{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	// Single setup_status row; completion flips it under a row lock
	var setupCount int64
	DB.Model(&SetupStatus{}).Count(&setupCount)
	if setupCount == 0 {
		if err := DB.Create(&SetupStatus{Completed: false}).Error; err != nil {
			return err
		}
	}

	// Create default system configs
	defaultConfigs := []SystemConfig{
		{Key: "auth_access_token_ttl", Value: "", Type: "string", Group: "auth", Label: "Access Token TTL (e.g. 15m)"},
		{Key: "auth_refresh_token_ttl", Value: "", Type: "string", Group: "auth", Label: "Refresh Token TTL (e.g. 7d)"},
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("`key` = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
