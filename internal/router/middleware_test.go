package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-next/internal/authz"
	"github.com/inkwell-next/internal/constants"
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

const testJWTSecret = "router-test-secret"

type envelope struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type authTestEnv struct {
	users  *repository.GormUserRepository
	authz  *authz.Service
	roles  *service.UserRoleService
	member *models.BlogUser
}

func setupAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, models.MigrateWith(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	authzService, err := authz.NewService(db)
	require.NoError(t, err)
	require.NoError(t, authzService.BootstrapBuiltinRoles())

	users := repository.NewUserRepository(db)
	member := &models.BlogUser{
		Email:        "mod@example.com",
		PasswordHash: "x",
		FirstName:    "Mo",
		LastName:     "Derator",
		Status:       constants.UserStatusActive,
	}
	require.NoError(t, users.Create(member))

	audit := service.NewAuditService(repository.NewAuditLogRepository(db))
	return &authTestEnv{
		users:  users,
		authz:  authzService,
		roles:  service.NewUserRoleService(authzService, users, audit),
		member: member,
	}
}

func signUserToken(t *testing.T, userID uint, tokenVersion uint64) string {
	t.Helper()
	now := time.Now()
	claims := service.UserJWTClaims{
		UserID:       userID,
		Email:        "mod@example.com",
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func (env *authTestEnv) adminEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	admin := r.Group("/api/v1/admin")
	admin.Use(UserJWTAuthMiddleware(testJWTSecret, env.users), AdminRBACMiddleware(env.authz), ActorMiddleware(env.roles))
	ok := func(c *gin.Context) {
		actor := handlershared.ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": gin.H{"user_id": actor.UserID, "moderator": actor.CanModerate()}})
	}
	admin.GET("/comments", ok)
	admin.GET("/posts", ok)
	return r
}

func serveWithToken(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("", nil))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := serveWithToken(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 401, decodeEnvelope(t, w).StatusCode)
}

func TestUserJWTAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.adminEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/comments", nil)
	req.Header.Set("Authorization", "Token abc")
	req.Header.Set("Accept-Language", "en-US")
	r.ServeHTTP(w, req)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Malformed Authorization header", resp.Msg)
}

func TestOptionalUserJWTAuthMiddlewareAnonymous(t *testing.T) {
	env := setupAuthTestEnv(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(OptionalUserJWTAuthMiddleware(testJWTSecret, env.users), ActorMiddleware(env.roles))
	r.GET("/posts", func(c *gin.Context) {
		actor := handlershared.ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": gin.H{"authenticated": actor.IsAuthenticated()}})
	})

	resp := decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/posts", ""))
	assert.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, false, resp.Data["authenticated"])

	resp = decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/posts", "not-a-jwt"))
	assert.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, false, resp.Data["authenticated"])

	resp = decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/posts", signUserToken(t, env.member.ID, 0)))
	assert.Equal(t, true, resp.Data["authenticated"])
}

func TestAdminRBACModeratorScope(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.adminEngine()
	token := signUserToken(t, env.member.ID, 0)

	// 无角色用户访问管理端
	assert.Equal(t, 403, decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/api/v1/admin/comments", token)).StatusCode)

	require.NoError(t, env.roles.GrantRole(env.member.ID, constants.RoleModerator))

	resp := decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/api/v1/admin/comments", token))
	assert.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, true, resp.Data["moderator"])
	assert.Equal(t, 403, decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/api/v1/admin/posts", token)).StatusCode)

	require.NoError(t, env.roles.GrantRole(env.member.ID, constants.RoleAdministrator))
	assert.Equal(t, 0, decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/api/v1/admin/posts", token)).StatusCode)
}

func TestUserJWTAuthMiddlewareRevokedToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.adminEngine()

	env.member.TokenVersion = 3
	require.NoError(t, env.users.Update(env.member))

	resp := decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/api/v1/admin/comments", signUserToken(t, env.member.ID, 2)))
	assert.Equal(t, 401, resp.StatusCode)

	env.member.Status = constants.UserStatusDisabled
	require.NoError(t, env.users.Update(env.member))
	resp = decodeEnvelope(t, serveWithToken(r, http.MethodGet, "/api/v1/admin/comments", signUserToken(t, env.member.ID, 3)))
	assert.Equal(t, 401, resp.StatusCode)
}
