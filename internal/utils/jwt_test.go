package utils

import (
	"testing"
	"time"

	"github.com/DocksDocks/oauth-api/internal/models"
)

func init() {
	SetJWTSecret("test-secret")
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "user@example.com", models.RoleAdmin, "15m")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, expected 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, expected %q", claims.Email, "user@example.com")
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %q, expected %q", claims.Role, models.RoleAdmin)
	}
}

// Two tokens for the same identity in the same second must still be
// distinct values; a shared jti would collide on the stored token hash.
func TestGenerateToken_UniquePerCall(t *testing.T) {
	a, err := GenerateToken(1, "a@b.c", models.RoleUser, "15m")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	b, err := GenerateToken(1, "a@b.c", models.RoleUser, "15m")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if a == b {
		t.Fatal("back-to-back tokens for the same identity are identical")
	}

	claims, err := ParseToken(a)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.ID == "" {
		t.Error("token should carry a jti")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", models.RoleUser, "1s")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := ParseToken(token); err != ErrTokenExpired {
		t.Errorf("ParseToken on expired token = %v, expected ErrTokenExpired", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err != ErrTokenMalformed {
		t.Errorf("ParseToken on garbage = %v, expected ErrTokenMalformed", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", models.RoleUser, "15m")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	SetJWTSecret("another-secret")
	defer SetJWTSecret("test-secret")

	if _, err := ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("ParseToken with wrong secret = %v, expected ErrTokenInvalid", err)
	}
}

// DecodeToken skips signature and expiry checks entirely, so tokens an
// unrelated secret signed still expose their claims.
func TestDecodeToken(t *testing.T) {
	token, err := GenerateToken(7, "x@y.z", models.RoleSuperadmin, "15m")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	SetJWTSecret("rotated-away")
	defer SetJWTSecret("test-secret")

	claims := DecodeToken(token)
	if claims == nil {
		t.Fatal("DecodeToken returned nil for a well-formed token")
	}
	if claims.UserID != 7 || claims.Role != models.RoleSuperadmin {
		t.Errorf("DecodeToken claims = %d/%s, expected 7/superadmin", claims.UserID, claims.Role)
	}

	if DecodeToken("garbage") != nil {
		t.Error("DecodeToken on garbage should return nil")
	}
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"30s", 30 * time.Second, true},
		{"15m", 15 * time.Minute, true},
		{"2h", 2 * time.Hour, true},
		{"7d", 7 * 24 * time.Hour, true},
		{"1w", 7 * 24 * time.Hour, true},
		{"", 0, false},
		{"m", 0, false},
		{"15", 0, false},
		{"-5m", 0, false},
		{"0h", 0, false},
		{"10y", 0, false},
		{"abcm", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseTTL(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseTTL(%q) = %v, %v; expected %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseTTL(%q) succeeded, expected error", tt.in)
		}
	}
}
