package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/events/db"
	"voice-of-rajkot/internal/models"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrNotCreator     = errors.New("event does not belong to requester")
	ErrNotPerformer   = errors.New("only performers and admins can create events")
	ErrHasBookings    = errors.New("event has bookings and cannot be deleted")
	ErrInvalidEvent   = errors.New("event name, venue and a future date are required")
	ErrInvalidSeating = errors.New("total seats must be at least 1")
	ErrSeatShrink     = errors.New("total seats cannot drop below booked seats")
)

type DBLayer interface {
	CreateEvent(event models.Event) error
	GetEventByID(id string) (*models.Event, error)
	UpdateEvent(event models.Event) error
	DeleteEvent(id string) error
	ListEvents() ([]models.Event, error)
	CountBookingsForEvent(eventID string) (int, error)
}

type EventService struct {
	DB DBLayer
}

func NewEventService(dbLayer DBLayer) *EventService {
	return &EventService{DB: dbLayer}
}

func validate(req models.EventRequest) error {
	if req.Name == "" || req.Venue == "" || req.StartsAt.IsZero() {
		return ErrInvalidEvent
	}
	if req.TotalSeats < 1 {
		return ErrInvalidSeating
	}
	return nil
}

func (s *EventService) CreateEvent(claims *auth.Claims, req models.EventRequest) (*models.Event, error) {
	if !claims.IsPerformer && !claims.IsAdmin {
		return nil, ErrNotPerformer
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	event := models.Event{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Venue:        req.Venue,
		StartsAt:     req.StartsAt,
		Price:        req.Price,
		TotalSeats:   req.TotalSeats,
		BookedSeats:  0,
		PerformerIDs: []string{},
		CreatedBy:    claims.UserID,
		CreatedAt:    time.Now(),
	}

	if err := s.DB.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &event, nil
}

func (s *EventService) GetEvent(id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %s: %w", id, err)
	}
	return event, nil
}

func (s *EventService) ListEvents() ([]models.Event, error) {
	return s.DB.ListEvents()
}

// ListEventsByPerformer filters the roster in memory; the roster is a small
// JSON list per event, not worth a dialect-specific containment query.
func (s *EventService) ListEventsByPerformer(performerID string) ([]models.Event, error) {
	all, err := s.DB.ListEvents()
	if err != nil {
		return nil, err
	}
	matched := []models.Event{}
	for _, event := range all {
		for _, id := range event.PerformerIDs {
			if id == performerID {
				matched = append(matched, event)
				break
			}
		}
	}
	return matched, nil
}

func (s *EventService) UpdateEvent(claims *auth.Claims, id string, req models.EventRequest) (*models.Event, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != claims.UserID && !claims.IsAdmin {
		return nil, ErrNotCreator
	}
	if req.TotalSeats < event.BookedSeats {
		return nil, ErrSeatShrink
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Venue = req.Venue
	event.StartsAt = req.StartsAt
	event.Price = req.Price
	event.TotalSeats = req.TotalSeats

	if err := s.DB.UpdateEvent(*event); err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}
	return event, nil
}

// DeleteEvent refuses to remove events that still carry bookings.
func (s *EventService) DeleteEvent(claims *auth.Claims, id string) error {
	event, err := s.GetEvent(id)
	if err != nil {
		return err
	}
	if event.CreatedBy != claims.UserID && !claims.IsAdmin {
		return ErrNotCreator
	}

	count, err := s.DB.CountBookingsForEvent(id)
	if err != nil {
		return fmt.Errorf("failed to count bookings for event %s: %w", id, err)
	}
	if count > 0 {
		return ErrHasBookings
	}

	if err := s.DB.DeleteEvent(id); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

// AttachPerformer adds a performer to the event roster, deduplicated.
func (s *EventService) AttachPerformer(id, performerID string) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	for _, existing := range event.PerformerIDs {
		if existing == performerID {
			return event, nil
		}
	}
	event.PerformerIDs = append(event.PerformerIDs, performerID)

	if err := s.DB.UpdateEvent(*event); err != nil {
		return nil, fmt.Errorf("failed to attach performer to event %s: %w", id, err)
	}
	return event, nil
}
