package services

import (
	"errors"
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/pkg/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CleanupService runs the periodic sweeps: expired refresh tokens hourly
// and old system logs daily. Each sweep takes a database lock first so
// only one instance runs it when several replicas share the database.
type CleanupService struct {
	db         *gorm.DB
	store      RefreshTokenStore
	systemLogs *SystemLogService
	cron       *cron.Cron
	instanceID string
}

func NewCleanupService(db *gorm.DB, store RefreshTokenStore, systemLogs *SystemLogService) *CleanupService {
	return &CleanupService{
		db:         db,
		store:      store,
		systemLogs: systemLogs,
		cron:       cron.New(),
		instanceID: uuid.NewString(),
	}
}

// Start registers the jobs and starts the scheduler.
func (s *CleanupService) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purgeExpiredTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.cleanupOldLogs); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infof("[Cleanup] Scheduler started")
	return nil
}

func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Infof("[Cleanup] Scheduler stopped")
}

func (s *CleanupService) purgeExpiredTokens() {
	if !s.acquireLock("purge_expired_tokens", time.Hour) {
		return
	}
	count, err := s.store.DeleteExpiredBefore(time.Now())
	if err != nil {
		logger.Errorf("[Cleanup] Failed to purge expired refresh tokens: %v", err)
		return
	}
	if count > 0 {
		logger.Infof("[Cleanup] Purged %d expired refresh tokens", count)
	}
}

func (s *CleanupService) cleanupOldLogs() {
	if !s.acquireLock("cleanup_old_logs", 24*time.Hour) {
		return
	}
	count, err := s.systemLogs.CleanupOldLogs(s.systemLogs.GetRetentionDays())
	if err != nil {
		logger.Errorf("[Cleanup] Failed to clean up old system logs: %v", err)
		return
	}
	if count > 0 {
		logger.Infof("[Cleanup] Removed %d old system log entries", count)
	}
}

// acquireLock claims a named lock until its expiry. A stale lock (past
// its expiry) can be taken over; a live lock held by another instance
// means this run is skipped.
func (s *CleanupService) acquireLock(name string, ttl time.Duration) bool {
	now := time.Now()
	acquired := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lock models.SchedulerLock
		err := lockForUpdate(tx).Where("lock_name = ?", name).First(&lock).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			lock = models.SchedulerLock{
				LockName:  name,
				LockedBy:  s.instanceID,
				LockedAt:  now,
				ExpiresAt: now.Add(ttl),
			}
			if err := tx.Create(&lock).Error; err != nil {
				return nil
			}
			acquired = true
			return nil

		case err != nil:
			return err

		case lock.ExpiresAt.After(now) && lock.LockedBy != s.instanceID:
			return nil

		default:
			acquired = tx.Model(&lock).Updates(map[string]interface{}{
				"locked_by":  s.instanceID,
				"locked_at":  now,
				"expires_at": now.Add(ttl),
			}).Error == nil
			return nil
		}
	})
	if err != nil {
		logger.Warnf("[Cleanup] Lock %s acquisition failed: %v", name, err)
		return false
	}
	return acquired
}
