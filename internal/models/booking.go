package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment screenshot verification states.
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

type EventBooking struct {
	bun.BaseModel `bun:"table:event_bookings"`

	ID       string `bun:"id,pk" json:"id"`
	TicketID string `bun:"ticket_id,unique,notnull" json:"ticket_id"`
	EventID  string `bun:"event_id,notnull" json:"event_id"`
	UserID   string `bun:"user_id,notnull" json:"user_id"`

	NumberOfSeats int     `bun:"number_of_seats,notnull" json:"number_of_seats"`
	TotalAmount   float64 `bun:"total_amount,notnull" json:"total_amount"`

	// Performer-only fields, empty for audience bookings.
	ArtType         string `bun:"art_type,nullzero" json:"art_type,omitempty"`
	DurationMinutes int    `bun:"duration_minutes,nullzero" json:"duration_minutes,omitempty"`

	PaymentScreenshot string `bun:"payment_screenshot,nullzero" json:"payment_screenshot,omitempty"`
	PaymentStatus     string `bun:"payment_status,notnull,default:'pending'" json:"payment_status"`
	QRCodePath        string `bun:"qr_code_path,nullzero" json:"qr_code_path,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type BookingRequest struct {
	EventID         string `json:"event_id"`
	NumberOfSeats   int    `json:"number_of_seats"`
	ArtType         string `json:"art_type,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type PaymentStatusRequest struct {
	Status string `json:"status"`
}
