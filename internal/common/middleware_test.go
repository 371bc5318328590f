package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware(t *testing.T) {
	sessions := NewSessionManager("test-secret")

	var seen Identity
	handler := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentIdentity(r)
	}))

	token, err := sessions.GenerateToken(7, "anna", time.Hour)
	require.NoError(t, err)

	t.Run("cookie token resolves the identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, uint64(7), seen.UserID)
		assert.Equal(t, "anna", seen.Username)
	})

	t.Run("bearer header resolves the identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, uint64(7), seen.UserID)
	})

	t.Run("garbage token leaves the request anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-jwt"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, seen.IsAnonymous())
	})

	t.Run("token signed under another secret leaves the request anonymous", func(t *testing.T) {
		foreign, err := NewSessionManager("other-secret").GenerateToken(7, "anna", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: foreign})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, seen.IsAnonymous())
	})

	t.Run("no token leaves the request anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, seen.IsAnonymous())
	})
}

func TestRequireLogin(t *testing.T) {
	sessions := NewSessionManager("test-secret")

	called := false
	handler := RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	t.Run("anonymous visitor is redirected to login", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/create?draft=1", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login?next=%2Fcreate%3Fdraft%3D1", rec.Header().Get("Location"))
	})

	t.Run("authenticated caller passes through", func(t *testing.T) {
		called = false
		token, err := sessions.GenerateToken(7, "anna", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/create", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		rec := httptest.NewRecorder()
		sessions.Middleware(http.HandlerFunc(handler)).ServeHTTP(rec, req)

		assert.True(t, called)
	})
}
