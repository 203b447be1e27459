package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apictx "github.com/driftchat/driftchat-server/internal/api/http/context"
	"github.com/driftchat/driftchat-server/internal/testutil"
	"github.com/driftchat/driftchat-server/internal/token"
)

func TestAuthenticate_Handle(t *testing.T) {
	tokens := token.NewJWT("test-secret")
	contextManager := apictx.NewManager()
	middleware := NewAuthenticate(tokens, contextManager, testutil.MakeNoopLogger())

	userID := uuid.New()
	valid, err := tokens.GenerateAccessToken(userID)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = contextManager.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := middleware.Handle(next)

	t.Run("bearer header", func(t *testing.T) {
		gotOK = false
		req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, gotOK)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("cookie", func(t *testing.T) {
		gotOK = false
		req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: valid})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, gotOK)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("header beats cookie", func(t *testing.T) {
		otherID := uuid.New()
		otherToken, err := tokens.GenerateAccessToken(otherID)
		require.NoError(t, err)

		gotOK = false
		req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: valid})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, otherID, gotUserID)
	})

	t.Run("missing token", func(t *testing.T) {
		gotOK = false
		req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, gotOK)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		gotOK = false
		req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("wrong secret", func(t *testing.T) {
		foreign, err := token.NewJWT("other-secret").GenerateAccessToken(userID)
		require.NoError(t, err)

		gotOK = false
		req := httptest.NewRequest(http.MethodGet, "/api/messages/users", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, gotOK)
	})
}
