package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	Venue       string    `bun:"venue" json:"venue"`
	StartsAt    time.Time `bun:"starts_at,notnull" json:"starts_at"`
	Price       float64   `bun:"price,notnull" json:"price"`
	TotalSeats  int       `bun:"total_seats,notnull" json:"total_seats"`
	BookedSeats int       `bun:"booked_seats,notnull,default:0" json:"booked_seats"`

	// Performers listed on the event. Appended (deduplicated) when a
	// performer books a slot or an admin attaches one explicitly.
	PerformerIDs []string `bun:"performer_ids,type:jsonb" json:"performer_ids"`

	CreatedBy string    `bun:"created_by,notnull" json:"created_by"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// AvailableSeats is derived, never stored.
func (e *Event) AvailableSeats() int {
	return e.TotalSeats - e.BookedSeats
}

type EventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	Price       float64   `json:"price"`
	TotalSeats  int       `json:"total_seats"`
}

type AttachPerformerRequest struct {
	PerformerID string `json:"performer_id"`
}
