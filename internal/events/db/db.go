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

// CreateEvent → insert new event
func (d *DB) CreateEvent(event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(context.Background())
	return err
}

// GetEventByID → fetch one event by its ID
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

// UpdateEvent → update editable fields, seat counters are owned by the
// booking flow and never written here.
func (d *DB) UpdateEvent(event models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(&event).
		Column("name", "description", "venue", "starts_at", "price", "total_seats", "performer_ids").
		Where("id = ?", event.ID).
		Exec(context.Background())
	return err
}

// DeleteEvent → remove an event by ID
func (d *DB) DeleteEvent(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// ListEvents → all events, earliest upcoming first
func (d *DB) ListEvents() ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Order("starts_at ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// CountBookingsForEvent → number of bookings held against an event
func (d *DB) CountBookingsForEvent(eventID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.EventBooking)(nil)).
		Where("event_id = ?", eventID).
		Count(context.Background())
}

// IsNotFound reports whether an error is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
