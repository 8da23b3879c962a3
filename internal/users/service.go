package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/users/db"
	"voice-of-rajkot/internal/utils"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidInput        = errors.New("name, email and password are required")
	ErrWeakPassword        = errors.New("password must be at least 6 characters")
	ErrOTPExpired          = errors.New("reset code has expired, request a new one")
	ErrOTPMismatch         = errors.New("reset code is incorrect")
	ErrOTPAttemptsExceeded = errors.New("too many failed attempts, request a new code")
	ErrOTPThrottled        = errors.New("reset code was sent recently, wait before retrying")
	ErrNoResetPending      = errors.New("no password reset was requested")
)

const (
	otpTTL         = 10 * time.Minute
	otpResendAfter = 60 * time.Second
	otpMaxAttempts = 5
)

type DBLayer interface {
	CreateUser(user models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateProfile(user models.User) error
	UpdatePassword(id, passwordHash string) error
	UpdateResetOTP(user models.User) error
	IncrementResetAttempts(id string) error
	ClearResetOTP(id string) error
	ListPerformers() ([]models.User, error)
	ListUsers() ([]models.User, error)
}

type ResetMailer interface {
	SendPasswordResetOTP(to, name, otp string) error
}

type TokenIssuer func(userID string, isPerformer, isAdmin bool) (string, error)

type UserService struct {
	DB         DBLayer
	Mailer     ResetMailer
	IssueToken TokenIssuer
}

func NewUserService(dbLayer DBLayer, mailer ResetMailer, issue TokenIssuer) *UserService {
	return &UserService{DB: dbLayer, Mailer: mailer, IssueToken: issue}
}

// Register creates a user with a bcrypt-hashed password.
func (s *UserService) Register(req models.RegisterRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}

	if _, err := s.DB.GetUserByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Tags:         []string{},
		CreatedAt:    time.Now(),
	}

	if err := s.DB.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Login checks credentials and issues a signed token.
func (s *UserService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.DB.GetUserByEmail(req.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID, user.IsPerformer, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.DB.GetUserByID(userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields only.
func (s *UserService) UpdateProfile(userID string, req models.ProfileUpdateRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Description != nil {
		user.Description = *req.Description
	}
	if req.Tags != nil {
		user.Tags = *req.Tags
	}
	if req.SampleMedia != nil {
		user.SampleMedia = *req.SampleMedia
	}
	user.UpdatedAt = time.Now()

	if err := s.DB.UpdateProfile(*user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// Onboard upgrades a user to a performer with a public profile.
func (s *UserService) Onboard(userID string, req models.OnboardingRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	user.IsPerformer = true
	user.Onboarded = true
	user.Tags = req.Tags
	if user.Tags == nil {
		user.Tags = []string{}
	}
	user.Description = req.Description
	user.SampleMedia = req.SampleMedia
	user.UpdatedAt = time.Now()

	if err := s.DB.UpdateProfile(*user); err != nil {
		return nil, fmt.Errorf("failed to onboard user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListPerformers() ([]models.User, error) {
	return s.DB.ListPerformers()
}

func (s *UserService) ListUsers() ([]models.User, error) {
	return s.DB.ListUsers()
}

// RequestPasswordReset issues a 6-digit OTP, stores only its bcrypt hash and
// emails the plaintext. Lookups that miss return success to avoid leaking
// which emails are registered.
func (s *UserService) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.DB.GetUserByEmail(email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !user.ResetOTPLastSentAt.IsZero() && time.Since(user.ResetOTPLastSentAt) < otpResendAfter {
		return ErrOTPThrottled
	}

	otp := utils.GenerateOTP()
	otpHash, err := auth.HashPassword(otp)
	if err != nil {
		return fmt.Errorf("failed to hash reset code: %w", err)
	}

	user.ResetOTPHash = otpHash
	user.ResetOTPExpiresAt = time.Now().Add(otpTTL)
	user.ResetOTPAttempts = 0
	user.ResetOTPLastSentAt = time.Now()

	if err := s.DB.UpdateResetOTP(*user); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return s.Mailer.SendPasswordResetOTP(user.Email, user.Name, otp)
}

// checkOTP validates the pending reset code for a user.
func (s *UserService) checkOTP(user *models.User, otp string) error {
	if user.ResetOTPHash == "" {
		return ErrNoResetPending
	}
	if user.ResetOTPAttempts >= otpMaxAttempts {
		return ErrOTPAttemptsExceeded
	}
	if time.Now().After(user.ResetOTPExpiresAt) {
		return ErrOTPExpired
	}
	if !auth.VerifyPassword(user.ResetOTPHash, otp) {
		if err := s.DB.IncrementResetAttempts(user.ID); err != nil {
			return fmt.Errorf("failed to record attempt: %w", err)
		}
		return ErrOTPMismatch
	}
	return nil
}

// VerifyPasswordReset checks an OTP without consuming it.
func (s *UserService) VerifyPasswordReset(email, otp string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.DB.GetUserByEmail(email)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrOTPMismatch
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.checkOTP(user, otp)
}

// ConfirmPasswordReset sets the new password and clears the reset state.
func (s *UserService) ConfirmPasswordReset(req models.PasswordResetConfirm) error {
	if len(req.NewPassword) < 6 {
		return ErrWeakPassword
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.DB.GetUserByEmail(email)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrOTPMismatch
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.checkOTP(user, req.OTP); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.DB.UpdatePassword(user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.DB.ClearResetOTP(user.ID); err != nil {
		return fmt.Errorf("failed to clear reset state: %w", err)
	}
	return nil
}
