package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stashVAPIDKeys(t *testing.T) {
	t.Helper()
	oldPublic, oldPrivate := vapidPublicKey, vapidPrivateKey
	t.Cleanup(func() {
		vapidPublicKey, vapidPrivateKey = oldPublic, oldPrivate
	})
}

func TestSetVAPIDKeysGeneratesPairWhenUnconfigured(t *testing.T) {
	stashVAPIDKeys(t)

	SetVAPIDKeys("", "")

	require.NotEmpty(t, vapidPublicKey)
	require.NotEmpty(t, vapidPrivateKey)
	// The public key is a 65-byte uncompressed P-256 point (87 chars
	// base64url); the private key is the 32-byte scalar (43 chars).
	// Holding them the other way round makes every delivery fail.
	assert.Len(t, vapidPublicKey, 87)
	assert.Len(t, vapidPrivateKey, 43)
}

func TestSetVAPIDKeysPinsConfiguredPair(t *testing.T) {
	stashVAPIDKeys(t)

	SetVAPIDKeys("configured-public", "configured-private")

	assert.Equal(t, "configured-public", vapidPublicKey)
	assert.Equal(t, "configured-private", vapidPrivateKey)
}

func TestGetVapidPublicKeyServesConfiguredKey(t *testing.T) {
	stashVAPIDKeys(t)
	SetVAPIDKeys("configured-public", "configured-private")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/vapid-public-key", GetVapidPublicKey)

	req := httptest.NewRequest("GET", "/api/vapid-public-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "configured-public")
}

func TestGetVapidPublicKeyUnavailableWhenUnset(t *testing.T) {
	stashVAPIDKeys(t)
	vapidPublicKey = ""

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/vapid-public-key", GetVapidPublicKey)

	req := httptest.NewRequest("GET", "/api/vapid-public-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
