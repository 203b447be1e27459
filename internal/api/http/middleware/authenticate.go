package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
)

// AuthCookie is the cookie carrying the access token for browser
// clients. The Authorization header takes precedence when both are
// present.
const AuthCookie = "jwt"

// Authenticate validates access tokens and injects the user ID into
// the request context.
type Authenticate struct {
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid token and passes the rest
// through with the user ID set on the context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticateRequest(r)
		if err != nil {
			m.logger.Debug("request rejected", "path", r.URL.Path, "error", err.Error())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserIDToContext(r.Context(), userID)))
	})
}

func (m *Authenticate) authenticateRequest(r *http.Request) (uuid.UUID, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return uuid.Nil, model.ErrUnauthorized
	}

	userID, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, model.ErrUnauthorized
	}

	return userID, nil
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(AuthCookie); err == nil {
		return cookie.Value
	}
	return ""
}
