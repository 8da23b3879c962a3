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

// ---------------- BOOKINGS ----------------

// CreateBooking → insert new booking
func (d *DB) CreateBooking(booking models.EventBooking) error {
	_, err := d.Bun.NewInsert().Model(&booking).Exec(context.Background())
	return err
}

// GetBookingByID → fetch one booking by its ID
func (d *DB) GetBookingByID(id string) (*models.EventBooking, error) {
	var booking models.EventBooking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking → remove a booking by ID
func (d *DB) DeleteBooking(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.EventBooking)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// UpdatePaymentScreenshot stores the uploaded proof reference and resets the
// verification state to pending.
func (d *DB) UpdatePaymentScreenshot(id, screenshotPath string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.EventBooking)(nil)).
		Set("payment_screenshot = ?", screenshotPath).
		Set("payment_status = ?", models.PaymentPending).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// UpdatePaymentStatus transitions the payment state machine. Only pending
// bookings move; the WHERE clause makes the transition conditional.
func (d *DB) UpdatePaymentStatus(id, status string) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.EventBooking)(nil)).
		Set("payment_status = ?", status).
		Where("id = ?", id).
		Where("payment_status = ?", models.PaymentPending).
		Exec(context.Background())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ListBookings → all bookings, newest first
func (d *DB) ListBookings() ([]models.EventBooking, error) {
	var bookings []models.EventBooking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.EventBooking{}
	}
	return bookings, nil
}

// ListBookingsByUser → bookings owned by a user, newest first
func (d *DB) ListBookingsByUser(userID string) ([]models.EventBooking, error) {
	var bookings []models.EventBooking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.EventBooking{}
	}
	return bookings, nil
}

// ListBookingsByEvent → bookings against an event, newest first
func (d *DB) ListBookingsByEvent(eventID string) ([]models.EventBooking, error) {
	var bookings []models.EventBooking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.EventBooking{}
	}
	return bookings, nil
}

// ---------------- SEAT INVENTORY ----------------

// GetEventByID → fetch the parent event of a booking
func (d *DB) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ReserveSeats increments the booked-seat counter iff the event stays under
// capacity. The conditional UPDATE makes check and increment one statement,
// so concurrent bookings cannot both pass a stale capacity check.
func (d *DB) ReserveSeats(eventID string, seats int) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("booked_seats = booked_seats + ?", seats).
		Where("id = ?", eventID).
		Where("booked_seats + ? <= total_seats", seats).
		Exec(context.Background())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ReleaseSeats returns seats to the pool, clamped at zero.
func (d *DB) ReleaseSeats(eventID string, seats int) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("booked_seats = booked_seats - ?", seats).
		Where("id = ?", eventID).
		Where("booked_seats - ? >= 0", seats).
		Exec(context.Background())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// AddPerformerToEvent appends a performer to the event roster, deduplicated.
func (d *DB) AddPerformerToEvent(eventID, performerID string) error {
	event, err := d.GetEventByID(eventID)
	if err != nil {
		return err
	}
	for _, id := range event.PerformerIDs {
		if id == performerID {
			return nil
		}
	}
	event.PerformerIDs = append(event.PerformerIDs, performerID)
	_, err = d.Bun.NewUpdate().
		Model(event).
		Column("performer_ids").
		Where("id = ?", eventID).
		Exec(context.Background())
	return err
}

// IsNotFound reports whether an error is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
