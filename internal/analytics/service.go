package analytics

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"voice-of-rajkot/internal/models"
)

// Service handles admin analytics over events and bookings.
type Service struct {
	db *bun.DB
}

// NewService creates a new analytics service
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// EventAnalytics represents aggregated booking data for a single event.
type EventAnalytics struct {
	EventID         string  `json:"event_id"`
	EventName       string  `json:"event_name"`
	TotalBookings   int     `json:"total_bookings"`
	SeatsSold       int     `json:"seats_sold"`
	TotalSeats      int     `json:"total_seats"`
	SeatFillRatio   float64 `json:"seat_fill_ratio"`
	PendingPayments int     `json:"pending_payments"`
	VerifiedRevenue float64 `json:"verified_revenue"`
}

// Overview aggregates across the whole platform.
type Overview struct {
	TotalEvents     int     `json:"total_events"`
	TotalBookings   int     `json:"total_bookings"`
	SeatsSold       int     `json:"seats_sold"`
	VerifiedRevenue float64 `json:"verified_revenue"`
	PendingPayments int     `json:"pending_payments"`
}

var ErrEventNotFound = errors.New("event not found")

// GetEventAnalytics returns booking counts, sold seats and verified revenue
// for one event.
func (s *Service) GetEventAnalytics(ctx context.Context, eventID string) (*EventAnalytics, error) {
	var event models.Event
	err := s.db.NewSelect().
		Model(&event).
		Where("id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	result := &EventAnalytics{
		EventID:    event.ID,
		EventName:  event.Name,
		TotalSeats: event.TotalSeats,
	}

	result.TotalBookings, err = s.db.NewSelect().
		Model((*models.EventBooking)(nil)).
		Where("event_id = ?", eventID).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	err = s.db.NewSelect().
		ColumnExpr("COALESCE(SUM(number_of_seats), 0)").
		Model((*models.EventBooking)(nil)).
		Where("event_id = ?", eventID).
		Scan(ctx, &result.SeatsSold)
	if err != nil {
		return nil, err
	}

	err = s.db.NewSelect().
		ColumnExpr("COALESCE(SUM(total_amount), 0)").
		Model((*models.EventBooking)(nil)).
		Where("event_id = ?", eventID).
		Where("payment_status = ?", models.PaymentVerified).
		Scan(ctx, &result.VerifiedRevenue)
	if err != nil {
		return nil, err
	}

	result.PendingPayments, err = s.db.NewSelect().
		Model((*models.EventBooking)(nil)).
		Where("event_id = ?", eventID).
		Where("payment_status = ?", models.PaymentPending).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	if event.TotalSeats > 0 {
		result.SeatFillRatio = float64(result.SeatsSold) / float64(event.TotalSeats)
	}
	return result, nil
}

// GetOverview returns platform-wide booking totals.
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	var overview Overview
	var err error

	overview.TotalEvents, err = s.db.NewSelect().
		Model((*models.Event)(nil)).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	overview.TotalBookings, err = s.db.NewSelect().
		Model((*models.EventBooking)(nil)).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	err = s.db.NewSelect().
		ColumnExpr("COALESCE(SUM(number_of_seats), 0)").
		Model((*models.EventBooking)(nil)).
		Scan(ctx, &overview.SeatsSold)
	if err != nil {
		return nil, err
	}

	err = s.db.NewSelect().
		ColumnExpr("COALESCE(SUM(total_amount), 0)").
		Model((*models.EventBooking)(nil)).
		Where("payment_status = ?", models.PaymentVerified).
		Scan(ctx, &overview.VerifiedRevenue)
	if err != nil {
		return nil, err
	}

	overview.PendingPayments, err = s.db.NewSelect().
		Model((*models.EventBooking)(nil)).
		Where("payment_status = ?", models.PaymentPending).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	return &overview, nil
}
