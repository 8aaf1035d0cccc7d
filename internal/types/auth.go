package types

import (
	"time"

	"hseinspect/internal/models"

	"github.com/google/uuid"
)

type SignUpRequest struct {
	Name     string      `json:"name"     validate:"required,min=2,max=120"`
	Email    string      `json:"email"    validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role"     validate:"omitempty,oneof=inspector manager admin"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

type AuthResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserProfile `json:"user"`
}

type SignUpResponse struct {
	User    models.UserProfile `json:"user"`
	Message string             `json:"message"`
}

type RejectUserRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ChangeRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=inspector manager admin"`
}

// Session is what the session cache holds for a signed-in token.
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// TokenInfo is what a verified access token says about its bearer.
type TokenInfo struct {
	UserID    uuid.UUID
	Role      models.Role
	SessionID string
	ExpiresAt time.Time
}
