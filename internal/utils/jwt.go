package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSecret string

// SetJWTSecret sets the signing secret used by GenerateToken and ParseToken.
func SetJWTSecret(secret string) {
	jwtSecret = secret
}

// Typed verification failures. Handlers map these to 401 codes.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token signature invalid")
)

// Claims is the identity claim set embedded in every signed token.
type Claims struct {
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token carrying the claim set with the given ttl,
// expressed as magnitude plus unit suffix (s/m/h/d/w). A bad ttl string is
// a configuration error, never reachable from user input. Every token gets
// a fresh jti, so two tokens minted in the same second for the same
// identity are still distinct values and their hashes never collide.
func GenerateToken(userID uint, email string, role models.Role, ttl string) (string, error) {
	d, err := ParseTTL(ttl)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseToken verifies signature and expiry and returns the claim set.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// DecodeToken parses without verifying signature or expiry. Best-effort
// inspection only (e.g. reading the role to skip a secondary gate); never
// an input to an authorization decision. Returns nil on any parse failure.
func DecodeToken(tokenString string) *Claims {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

// ParseTTL parses a duration of the form "<n><unit>" where unit is one of
// s, m, h, d, w.
func ParseTTL(ttl string) (time.Duration, error) {
	if len(ttl) < 2 {
		return 0, fmt.Errorf("invalid ttl %q", ttl)
	}

	unit := ttl[len(ttl)-1:]
	n, err := strconv.Atoi(strings.TrimSpace(ttl[:len(ttl)-1]))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ttl %q", ttl)
	}

	switch unit {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "w":
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid ttl unit %q", unit)
	}
}
