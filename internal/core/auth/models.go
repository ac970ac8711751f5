package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard account. A user manages at most one church; ChurchID
// stays nil until onboarding creates it.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email string    `gorm:"type:text;unique;not null" json:"email"`
	Name  string    `gorm:"type:text" json:"name"`

	PasswordHash string `gorm:"type:text;not null" json:"-"`
	// TokenVersion is embedded in every issued token; bumping it revokes them all.
	TokenVersion int `gorm:"not null;default:0" json:"-"`

	ChurchID            *uuid.UUID `gorm:"type:uuid" json:"churchId"`
	OnboardingCompleted bool       `gorm:"not null;default:false" json:"onboardingCompleted"`
	ProfilePicture      string     `gorm:"type:text" json:"profilePicture"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// HasChurch reports whether the user already owns a church.
func (u *User) HasChurch() bool {
	return u.ChurchID != nil && *u.ChurchID != uuid.Nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=120"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

// ProfileRequest updates the editable profile fields. Nil fields are left untouched.
type ProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	Picture *string `json:"picture" validate:"omitempty,max=2048"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Version int    `json:"ver"`
}
