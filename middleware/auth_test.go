package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"thread-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthTestRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		identity := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": identity.Email, "role": identity.Role})
	})
	r.GET("/admin", RequireAuth(tokens), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router := newAuthTestRouter(services.NewTokenService("test-secret"))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Unauthorized access")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := newAuthTestRouter(services.NewTokenService("test-secret"))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid or expired token")
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := newAuthTestRouter(tokens)

	token, err := tokens.Issue("user-id", "alice@example.com", "user")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "alice@example.com")
}

func TestRequireAuth_BearerHeaderFallback(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := newAuthTestRouter(tokens)

	token, err := tokens.Issue("user-id", "alice@example.com", "user")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	router := newAuthTestRouter(services.NewTokenService("test-secret"))

	other := services.NewTokenService("other-secret")
	token, err := other.Issue("user-id", "alice@example.com", "user")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireAdmin_RejectsRegularUser(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := newAuthTestRouter(tokens)

	token, err := tokens.Issue("user-id", "alice@example.com", "user")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Admin access only")
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := newAuthTestRouter(tokens)

	token, err := tokens.Issue("admin-id", "admin@example.com", "admin")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
