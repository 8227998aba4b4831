package services

import (
	"errors"
	"time"

	"github.com/DocksDocks/oauth-api/internal/config"
	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/DocksDocks/oauth-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenService owns the refresh token lifecycle: issuance, rotation with
// reuse detection, and family/global revocation.
type TokenService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	configSvc *SystemConfigService
	events    TaskQueue // optional security event sink
}

func NewTokenService(db *gorm.DB, jwtCfg *config.JWTConfig) *TokenService {
	return &TokenService{
		db:        db,
		jwtConfig: jwtCfg,
		configSvc: NewSystemConfigService(db),
	}
}

// SetEventQueue wires the security event queue. Safe to leave unset.
func (s *TokenService) SetEventQueue(q TaskQueue) {
	s.events = q
}

// TokenPair is the result of issuance or rotation. ExpiresIn is the access
// token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// ClientInfo carries request metadata persisted with refresh records.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// SessionInfo summarizes an active refresh record. Raw tokens and hashes
// are never exposed.
type SessionInfo struct {
	ID        uint      `json:"id"`
	FamilyID  string    `json:"family_id"`
	IsUsed    bool      `json:"is_used"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue signs a new access/refresh pair for a fresh login. Each login
// starts a new token family.
func (s *TokenService) Issue(user *models.User, client ClientInfo) (*TokenPair, error) {
	return s.mint(user, uuid.NewString(), client, s.db)
}

// mint signs a pair and persists the refresh record under familyID.
func (s *TokenService) mint(user *models.User, familyID string, client ClientInfo, db *gorm.DB) (*TokenPair, error) {
	accessTTL := s.accessTTL()
	refreshTTL := s.refreshTTL()

	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, refreshTTL)
	if err != nil {
		return nil, err
	}

	accessDur, err := utils.ParseTTL(accessTTL)
	if err != nil {
		return nil, err
	}
	refreshDur, err := utils.ParseTTL(refreshTTL)
	if err != nil {
		return nil, err
	}

	rec := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   utils.HashToken(refreshToken),
		FamilyID:    familyID,
		ExpiresAt:   time.Now().Add(refreshDur),
		CreatedByIP: client.IP,
		UserAgent:   client.UserAgent,
	}
	if err := NewRefreshTokenStore(db).Insert(&rec); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessDur.Seconds()),
	}, nil
}

// Rotate exchanges a refresh token for a new pair. Single-use: the
// presented record is marked used and its replacement joins the same
// family. Presenting an already-used token revokes the entire family.
//
// The lookup-branch-mutate sequence runs in one transaction with the
// looked-up row locked, so concurrent rotations of the same token cannot
// both observe is_used=false.
func (s *TokenService) Rotate(rawRefresh string, client ClientInfo) (*TokenPair, error) {
	if _, err := utils.ParseToken(rawRefresh); err != nil {
		return nil, ErrInvalidToken
	}
	hash := utils.HashToken(rawRefresh)

	var (
		pair          *TokenPair
		reuse         bool
		reuseUserID   uint
		reuseFamilyID string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		store := NewRefreshTokenStore(tx)

		rec, err := store.FindByHash(hash)
		if err != nil {
			return err
		}
		if rec.RevokedAt != nil {
			return ErrTokenRevoked
		}
		if rec.IsUsed {
			// Reuse: either a retried request whose response was lost or a
			// replayed stolen token. Indistinguishable, so assume the worst
			// and kill the whole family. The revocation must commit even
			// though the rotation fails, hence the flag instead of an error.
			if err := store.RevokeFamily(rec.FamilyID); err != nil {
				return err
			}
			reuse = true
			reuseUserID = rec.UserID
			reuseFamilyID = rec.FamilyID
			return nil
		}

		var user models.User
		if err := tx.First(&user, rec.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if err := store.MarkUsed(rec.ID); err != nil {
			return err
		}

		pair, err = s.mint(&user, rec.FamilyID, client, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if reuse {
		s.emitSecurityEvent(SecurityEventTask{
			Event:     EventTokenReuse,
			UserID:    reuseUserID,
			FamilyID:  reuseFamilyID,
			IP:        client.IP,
			UserAgent: client.UserAgent,
		})
		return nil, ErrTokenReuseDetected
	}

	return pair, nil
}

// Revoke invalidates the family of the presented refresh token. Unknown or
// already-revoked tokens are a no-op success: absence of a session is not
// a failure.
func (s *TokenService) Revoke(rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}

	var rec models.RefreshToken
	err := s.db.Where("token_hash = ?", utils.HashToken(rawRefresh)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := NewRefreshTokenStore(s.db).RevokeFamily(rec.FamilyID); err != nil {
		return err
	}
	s.emitSecurityEvent(SecurityEventTask{
		Event:    EventFamilyRevoked,
		UserID:   rec.UserID,
		FamilyID: rec.FamilyID,
	})
	return nil
}

// RevokeAll logs the user out of every device.
func (s *TokenService) RevokeAll(userID uint, client ClientInfo) error {
	if err := NewRefreshTokenStore(s.db).RevokeAllForUser(userID); err != nil {
		return err
	}
	s.emitSecurityEvent(SecurityEventTask{
		Event:     EventLogoutAll,
		UserID:    userID,
		IP:        client.IP,
		UserAgent: client.UserAgent,
	})
	return nil
}

// Sessions lists the user's non-revoked, non-expired refresh records.
func (s *TokenService) Sessions(userID uint) ([]SessionInfo, error) {
	recs, err := NewRefreshTokenStore(s.db).ListActiveForUser(userID)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionInfo, 0, len(recs))
	for _, r := range recs {
		sessions = append(sessions, SessionInfo{
			ID:        r.ID,
			FamilyID:  r.FamilyID,
			IsUsed:    r.IsUsed,
			IP:        r.CreatedByIP,
			UserAgent: r.UserAgent,
			CreatedAt: r.CreatedAt,
			ExpiresAt: r.ExpiresAt,
		})
	}
	return sessions, nil
}

// RevokeSession revokes the family behind one listed session. Silently
// no-ops when the id doesn't exist or belongs to another user, so the
// endpoint reveals nothing about other users' sessions.
func (s *TokenService) RevokeSession(userID, sessionID uint) error {
	store := NewRefreshTokenStore(s.db)
	rec, err := store.FindByIDForUser(sessionID, userID)
	if errors.Is(err, ErrTokenNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := store.RevokeFamily(rec.FamilyID); err != nil {
		return err
	}
	s.emitSecurityEvent(SecurityEventTask{
		Event:    EventFamilyRevoked,
		UserID:   userID,
		FamilyID: rec.FamilyID,
	})
	return nil
}

// PurgeExpired garbage-collects expired refresh records.
func (s *TokenService) PurgeExpired() (int64, error) {
	return NewRefreshTokenStore(s.db).DeleteExpiredBefore(time.Now())
}

// accessTTL returns the admin-tuned TTL when set and valid, otherwise the
// config file default.
func (s *TokenService) accessTTL() string {
	return s.tunedTTL("auth_access_token_ttl", s.jwtConfig.AccessTTL)
}

func (s *TokenService) refreshTTL() string {
	return s.tunedTTL("auth_refresh_token_ttl", s.jwtConfig.RefreshTTL)
}

func (s *TokenService) tunedTTL(key, fallback string) string {
	value := s.configSvc.GetWithDefault(key, fallback)
	if value == "" {
		return fallback
	}
	if _, err := utils.ParseTTL(value); err != nil {
		return fallback
	}
	return value
}

func (s *TokenService) emitSecurityEvent(task SecurityEventTask) {
	if s.events == nil {
		return
	}
	if err := s.events.Enqueue(&task); err != nil {
		// The security log is best-effort; the auth decision already stands.
		logger.Warnf("[TokenService] Failed to enqueue security event %s: %v", task.Event, err)
	}
}
