package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	IsPerformer  bool      `bun:"is_performer" json:"is_performer"`
	IsAdmin      bool      `bun:"is_admin" json:"is_admin"`
	Onboarded    bool      `bun:"onboarded" json:"onboarded"`
	Tags         []string  `bun:"tags,type:jsonb" json:"tags"`
	Description  string    `bun:"description" json:"description"`
	SampleMedia  string    `bun:"sample_media" json:"sample_media"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	// Password reset state. Only the bcrypt hash of the OTP is stored.
	ResetOTPHash       string    `bun:"reset_otp_hash,nullzero" json:"-"`
	ResetOTPExpiresAt  time.Time `bun:"reset_otp_expires_at,nullzero" json:"-"`
	ResetOTPAttempts   int       `bun:"reset_otp_attempts" json:"-"`
	ResetOTPLastSentAt time.Time `bun:"reset_otp_last_sent_at,nullzero" json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ProfileUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	SampleMedia *string   `json:"sample_media"`
}

// OnboardingRequest upgrades a user to a performer profile.
type OnboardingRequest struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	SampleMedia string   `json:"sample_media"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetVerify struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type PasswordResetConfirm struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}
