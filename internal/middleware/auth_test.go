package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"commerce-service/internal/auth"
	"commerce-service/internal/models"
)

func setupAuthRouter(tokens *auth.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{RequireAuth(tokens)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": GetUserID(c),
			"role":   string(GetUserRole(c)),
		})
	})
	router.GET("/protected", chain...)
	return router
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(tokens)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(tokens)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(tokens)

	userID := uuid.New()
	token, err := tokens.Generate(userID, models.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireAuthExpiredToken(t *testing.T) {
	issuer := auth.NewTokenManager("secret", -time.Minute)
	verifier := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(verifier)

	token, err := issuer.Generate(uuid.New(), models.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireVendorBlocksCustomers(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(tokens, RequireVendor())

	token, err := tokens.Generate(uuid.New(), models.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireVendorAllowsVendorAndAdmin(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(tokens, RequireVendor())

	for _, role := range []models.UserRole{models.RoleVendor, models.RoleAdmin} {
		token, err := tokens.Generate(uuid.New(), role)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, string(role))
	}
}

func TestRequireAdminBlocksVendor(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := setupAuthRouter(tokens, RequireAdmin())

	token, err := tokens.Generate(uuid.New(), models.RoleVendor)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
