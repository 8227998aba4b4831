package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/gin-gonic/gin"
)

func init() {
	utils.SetJWTSecret("test-secret")
}

func signToken(t *testing.T, userID uint, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, "user@example.com", role, "15m")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func performRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.JSON(200, gin.H{"ok": true})
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return env
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.GET("/p", AuthRequired(), okHandler)

	if w := performRequest(router, "GET", "/p", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, expected 401", w.Code)
	}
	if w := performRequest(router, "GET", "/p", "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, expected 401", w.Code)
	}
	if w := performRequest(router, "GET", "/p", signToken(t, 1, models.RoleUser)); w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, expected 200", w.Code)
	}
}

func TestRequireRole_Monotonic(t *testing.T) {
	router := gin.New()
	router.GET("/admin", AuthRequired(), RequireRole(models.RoleAdmin), okHandler)

	// Higher ranks pass a lower gate
	for _, role := range []models.Role{models.RoleAdmin, models.RoleSuperadmin} {
		if w := performRequest(router, "GET", "/admin", signToken(t, 1, role)); w.Code != http.StatusOK {
			t.Errorf("%s at admin gate: status = %d, expected 200", role, w.Code)
		}
	}

	w := performRequest(router, "GET", "/admin", signToken(t, 1, models.RoleUser))
	if w.Code != http.StatusForbidden {
		t.Fatalf("user at admin gate: status = %d, expected 403", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != "FORBIDDEN" {
		t.Errorf("code = %q, expected FORBIDDEN", env.Error.Code)
	}
	if env.Error.Details["userRole"] != "user" || env.Error.Details["requiredRole"] != "admin" {
		t.Errorf("details = %v, expected userRole/requiredRole", env.Error.Details)
	}
}

func TestRequireRole_AnonymousIs401(t *testing.T) {
	router := gin.New()
	router.GET("/admin", OptionalAuth(), RequireRole(models.RoleAdmin), okHandler)

	// Missing identity is authentication failure, not authorization
	if w := performRequest(router, "GET", "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, expected 401", w.Code)
	}
}

func TestRequireExactRole_NoRankInference(t *testing.T) {
	router := gin.New()
	router.GET("/exact", AuthRequired(), RequireExactRole(models.RoleAdmin), okHandler)

	if w := performRequest(router, "GET", "/exact", signToken(t, 1, models.RoleAdmin)); w.Code != http.StatusOK {
		t.Errorf("admin at exact gate: status = %d, expected 200", w.Code)
	}
	// Superadmin outranks admin but is not exactly admin
	if w := performRequest(router, "GET", "/exact", signToken(t, 1, models.RoleSuperadmin)); w.Code != http.StatusForbidden {
		t.Errorf("superadmin at exact admin gate: status = %d, expected 403", w.Code)
	}
}

func TestRequireAnyRole_RankBased(t *testing.T) {
	router := gin.New()
	router.GET("/any", AuthRequired(), RequireAnyRole(models.RoleUser, models.RoleSuperadmin), okHandler)

	// Every role outranks user, so every role passes this gate
	for _, role := range []models.Role{models.RoleUser, models.RoleAdmin, models.RoleSuperadmin} {
		if w := performRequest(router, "GET", "/any", signToken(t, 1, role)); w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, expected 200", role, w.Code)
		}
	}

	// A gate listing only elevated roles still rejects plain users
	router = gin.New()
	router.GET("/elevated", AuthRequired(), RequireAnyRole(models.RoleAdmin, models.RoleSuperadmin), okHandler)

	if w := performRequest(router, "GET", "/elevated", signToken(t, 1, models.RoleAdmin)); w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, expected 200", w.Code)
	}

	w := performRequest(router, "GET", "/elevated", signToken(t, 1, models.RoleUser))
	if w.Code != http.StatusForbidden {
		t.Fatalf("user below every listed role: status = %d, expected 403", w.Code)
	}
	env := decodeError(t, w)
	allowed, ok := env.Error.Details["allowedRoles"].([]interface{})
	if !ok || len(allowed) != 2 {
		t.Errorf("details.allowedRoles = %v, expected the two listed roles", env.Error.Details["allowedRoles"])
	}
}

func TestSelfOrAdmin(t *testing.T) {
	router := gin.New()
	router.GET("/users/:id", AuthRequired(), SelfOrAdmin("id"), okHandler)

	// Own id passes regardless of role
	if w := performRequest(router, "GET", "/users/7", signToken(t, 7, models.RoleUser)); w.Code != http.StatusOK {
		t.Errorf("self access: status = %d, expected 200", w.Code)
	}
	// The comparison is numeric, so an equivalent spelling still matches
	if w := performRequest(router, "GET", "/users/07", signToken(t, 7, models.RoleUser)); w.Code != http.StatusOK {
		t.Errorf("self access via zero-padded id: status = %d, expected 200", w.Code)
	}
	// Unparseable ids never match the caller
	if w := performRequest(router, "GET", "/users/junk", signToken(t, 7, models.RoleUser)); w.Code != http.StatusForbidden {
		t.Errorf("non-numeric id as user: status = %d, expected 403", w.Code)
	}
	// Another user's id requires admin rank
	if w := performRequest(router, "GET", "/users/8", signToken(t, 7, models.RoleUser)); w.Code != http.StatusForbidden {
		t.Errorf("foreign access as user: status = %d, expected 403", w.Code)
	}
	if w := performRequest(router, "GET", "/users/8", signToken(t, 7, models.RoleAdmin)); w.Code != http.StatusOK {
		t.Errorf("foreign access as admin: status = %d, expected 200", w.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	router := gin.New()
	router.GET("/opt", OptionalAuth(), func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": GetUserID(c)})
	})

	// Anonymous requests flow through with no identity
	w := performRequest(router, "GET", "/opt", "")
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous: status = %d, expected 200", w.Code)
	}

	// Invalid tokens are ignored, not rejected
	w = performRequest(router, "GET", "/opt", "broken")
	if w.Code != http.StatusOK {
		t.Fatalf("broken token: status = %d, expected 200", w.Code)
	}

	// Valid tokens attach the identity
	w = performRequest(router, "GET", "/opt", signToken(t, 42, models.RoleUser))
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["user_id"] != float64(42) {
		t.Errorf("user_id = %v, expected 42", body["user_id"])
	}
}
