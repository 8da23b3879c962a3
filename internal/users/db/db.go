package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"voice-of-rajkot/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateUser → insert new user
func (d *DB) CreateUser(user models.User) error {
	_, err := d.Bun.NewInsert().Model(&user).Exec(context.Background())
	return err
}

// GetUserByID → fetch one user by ID
func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail → fetch one user by email
func (d *DB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile → update mutable profile fields
func (d *DB) UpdateProfile(user models.User) error {
	_, err := d.Bun.NewUpdate().
		Model(&user).
		Column("name", "description", "tags", "sample_media", "is_performer", "onboarded", "updated_at").
		Where("id = ?", user.ID).
		Exec(context.Background())
	return err
}

// UpdatePassword → replace the stored password hash
func (d *DB) UpdatePassword(id, passwordHash string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// UpdateResetOTP → store a fresh OTP hash and reset the attempt counter
func (d *DB) UpdateResetOTP(user models.User) error {
	_, err := d.Bun.NewUpdate().
		Model(&user).
		Column("reset_otp_hash", "reset_otp_expires_at", "reset_otp_attempts", "reset_otp_last_sent_at").
		Where("id = ?", user.ID).
		Exec(context.Background())
	return err
}

// IncrementResetAttempts → bump the failed-verification counter
func (d *DB) IncrementResetAttempts(id string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("reset_otp_attempts = reset_otp_attempts + 1").
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// ClearResetOTP → wipe all reset state after a completed or abandoned flow
func (d *DB) ClearResetOTP(id string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("reset_otp_hash = NULL").
		Set("reset_otp_expires_at = NULL").
		Set("reset_otp_attempts = 0").
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// ListPerformers → all performer users
func (d *DB) ListPerformers() ([]models.User, error) {
	var users []models.User
	err := d.Bun.NewSelect().
		Model(&users).
		Where("is_performer = ?", true).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// ListUsers → every registered user
func (d *DB) ListUsers() ([]models.User, error) {
	var users []models.User
	err := d.Bun.NewSelect().
		Model(&users).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// IsNotFound reports whether an error is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
