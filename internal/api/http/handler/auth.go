package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/driftchat/driftchat-server/internal/api/http/middleware"
	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
	"github.com/driftchat/driftchat-server/internal/service"
)

// cookieMaxAge matches the access token lifetime.
const cookieMaxAge = 7 * 24 * time.Hour

// AuthService defines signup, login and profile operations.
type AuthService interface {
	Signup(ctx context.Context, params service.SignupParams) (model.Profile, string, error)
	Login(ctx context.Context, email, password string) (model.Profile, string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UpdateProfilePic(ctx context.Context, userID uuid.UUID, dataURL string) (model.Profile, error)
}

// Auth handles HTTP endpoints for authentication and profiles.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	ProfilePic string `json:"profile_pic"`
}

// Signup registers a new user and starts their session.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, tokenString, err := h.authService.Signup(r.Context(), service.SignupParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("signup failed", "email", req.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	h.setAuthCookie(w, r, tokenString)
	writeJSON(w, http.StatusCreated, profile)
}

// Login authenticates an existing user and starts their session.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, tokenString, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("login failed", "email", req.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	h.setAuthCookie(w, r, tokenString)
	writeJSON(w, http.StatusOK, profile)
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; clients relying on the Authorization header simply drop it.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Check returns the authenticated user's profile.
func (h *Auth) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		h.logger.Error("profile lookup failed", "user_id", userID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile replaces the authenticated user's profile picture.
func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProfilePic == "" {
		writeError(w, http.StatusBadRequest, "profile pic is required")
		return
	}

	profile, err := h.authService.UpdateProfilePic(r.Context(), userID, req.ProfilePic)
	if err != nil {
		h.logger.Error("profile update failed", "user_id", userID, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Auth) setAuthCookie(w http.ResponseWriter, r *http.Request, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}
