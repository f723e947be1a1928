package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWTAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})
	return router
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter()

	token := signToken(t, "user-1", "test-secret", time.Now().Add(time.Hour))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestJWTAuthMiddlewareQueryToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter()

	token := signToken(t, "user-2", "test-secret", time.Now().Add(time.Hour))

	req := httptest.NewRequest("GET", "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-2")
}

func TestJWTAuthMiddlewareMissingToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareWrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter()

	token := signToken(t, "user-3", "other-secret", time.Now().Add(time.Hour))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareExpiredToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter()

	token := signToken(t, "user-4", "test-secret", time.Now().Add(-time.Hour))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetJWTSecretOverridesEnvironment(t *testing.T) {
	os.Setenv("JWT_SECRET", "env-secret")
	SetJWTSecret("config-secret")
	t.Cleanup(func() { SetJWTSecret("") })

	token := signToken(t, "user-5", "config-secret", time.Now().Add(time.Hour))
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-5", claims.UserID)

	// tokens signed with the environment value no longer verify
	_, err = ParseToken(signToken(t, "user-5", "env-secret", time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func TestJWTAuthMiddlewareMalformedHeader(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
