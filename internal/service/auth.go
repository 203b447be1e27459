package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
)

const minPasswordLength = 6

// Auth handles signup, login and profile updates.
type Auth struct {
	userStore model.UserStore
	tokens    model.TokenManager
	storage   model.Storage
	logger    *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	tokens model.TokenManager,
	storage model.Storage,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		tokens:    tokens,
		storage:   storage,
		logger:    logger,
	}
}

// SignupParams contains parameters to register a user.
type SignupParams struct {
	FullName string
	Email    string
	Password string
}

// Signup registers a new user and returns their profile with a signed
// access token.
func (s *Auth) Signup(ctx context.Context, params SignupParams) (model.Profile, string, error) {
	if params.FullName == "" || params.Email == "" || params.Password == "" {
		return model.Profile{}, "", fmt.Errorf("%w: all fields are required", model.ErrValidation)
	}
	if len(params.Password) < minPasswordLength {
		return model.Profile{}, "", fmt.Errorf("%w: password must have at least %d characters", model.ErrValidation, minPasswordLength)
	}

	_, err := s.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		return model.Profile{}, "", fmt.Errorf("%w: email already registered", model.ErrConflict)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Profile{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		FullName:     params.FullName,
		Email:        params.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Profile{}, "", fmt.Errorf("%w: email already registered", model.ErrConflict)
		}
		return model.Profile{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return model.Profile{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user.ToProfile(), tokenString, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Auth) Login(ctx context.Context, email, password string) (model.Profile, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Profile{}, "", fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
		}
		return model.Profile{}, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.Profile{}, "", fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
	}

	tokenString, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return model.Profile{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user.ToProfile(), tokenString, nil
}

// GetProfile returns the profile for an authenticated user ID.
func (s *Auth) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.ToProfile(), nil
}

// UpdateProfilePic uploads an inline image to media storage, points
// the user's profile at the resulting URL and removes the previous
// avatar object. Cleanup is best effort: a failed delete leaves an
// orphan object but never fails the request.
func (s *Auth) UpdateProfilePic(ctx context.Context, userID uuid.UUID, dataURL string) (model.Profile, error) {
	contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	previous, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s", userID, uuid.New())
	url, err := s.storage.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	user, err := s.userStore.UpdateProfilePic(ctx, userID, url)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	if oldKey, ok := avatarKey(previous.ProfilePic); ok {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("failed to delete previous avatar", "user_id", userID, "key", oldKey, "error", err.Error())
		}
	}

	return user.ToProfile(), nil
}

// avatarKey recovers the object key from an avatar URL this service
// minted. External or empty URLs yield no key.
func avatarKey(url string) (string, bool) {
	i := strings.Index(url, "avatars/")
	if i < 0 {
		return "", false
	}
	return url[i:], true
}
