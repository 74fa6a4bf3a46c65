package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sabdakrida_backend/internal/config"
	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(t *testing.T, roles ...model.UserRole) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"

	r := gin.New()
	group := r.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r, cfg
}

func tokenFor(t *testing.T, role model.UserRole) string {
	t.Helper()
	u := &model.User{Email: "test@example.com", Role: role}
	u.ID = 1
	token, err := util.GenerateJWT(u, "test-secret", time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r, _ := authRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	r, _ := authRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsBearerHeader(t *testing.T) {
	r, _ := authRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.Student))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	r, _ := authRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+tokenFor(t, model.Student), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	r, _ := authRouter(t, model.Teacher)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.Student))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code, "students cannot reach teacher routes")

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.Teacher))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.Admin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "admins carry every role")
}
