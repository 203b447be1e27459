package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetAllExcept(ctx context.Context, id uuid.UUID) ([]User, error)
	UpdateProfilePic(ctx context.Context, id uuid.UUID, url string) (User, error)
}

// User represents a stored user account.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash []byte
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the serializable subset of User returned by the API.
// The password hash never leaves the service layer.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"fullname"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profile_pic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToProfile converts a User to its API representation.
func (u User) ToProfile() Profile {
	return Profile{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}
