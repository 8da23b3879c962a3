package bookings

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/bookings/db"
	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/utils"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking does not belong to requester")
	ErrCapacityExceeded = errors.New("not enough seats available")
	ErrInvalidSeats     = errors.New("number of seats must be at least 1")
	ErrEventBusy        = errors.New("event is being booked by someone else, try again")
	ErrNotPending       = errors.New("payment status can only change while pending")
	ErrInvalidStatus    = errors.New("payment status must be verified or rejected")
)

type DBLayer interface {
	CreateBooking(booking models.EventBooking) error
	GetBookingByID(id string) (*models.EventBooking, error)
	DeleteBooking(id string) error
	UpdatePaymentScreenshot(id, screenshotPath string) error
	UpdatePaymentStatus(id, status string) (bool, error)
	ListBookings() ([]models.EventBooking, error)
	ListBookingsByUser(userID string) ([]models.EventBooking, error)
	ListBookingsByEvent(eventID string) ([]models.EventBooking, error)
	GetEventByID(id string) (*models.Event, error)
	ReserveSeats(eventID string, seats int) (bool, error)
	ReleaseSeats(eventID string, seats int) (bool, error)
	AddPerformerToEvent(eventID, performerID string) error
}

type EventHold interface {
	AcquireEventHold(eventID, bookingID string) (bool, error)
	ReleaseEventHold(eventID, bookingID string) error
}

type BookingPublisher interface {
	PublishBookingCreated(booking models.EventBooking) error
	PublishBookingCancelled(booking models.EventBooking) error
	PublishPaymentStatus(booking models.EventBooking) error
}

type TicketRenderer interface {
	Generate(ticketID, eventID, userID string, seats int, amount float64) (string, error)
}

type BookingService struct {
	DB      DBLayer
	Hold    EventHold
	Kafka   BookingPublisher
	Tickets TicketRenderer
}

func NewBookingService(dbLayer DBLayer, hold EventHold, kafka BookingPublisher, tickets TicketRenderer) *BookingService {
	return &BookingService{DB: dbLayer, Hold: hold, Kafka: kafka, Tickets: tickets}
}

// CreateBooking reserves seats and persists the booking. The seat counter is
// moved with a single conditional UPDATE, so a capacity violation mutates
// nothing; if the booking insert fails afterwards the counter is compensated.
func (s *BookingService) CreateBooking(claims *auth.Claims, req models.BookingRequest) (*models.EventBooking, error) {
	if req.NumberOfSeats < 1 {
		return nil, ErrInvalidSeats
	}

	event, err := s.DB.GetEventByID(req.EventID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %s: %w", req.EventID, err)
	}

	bookingID := uuid.NewString()

	// Serialize bursts against one event. Capacity is still decided by the
	// conditional UPDATE below, not by this hold.
	ok, err := s.Hold.AcquireEventHold(event.ID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("redis hold error: %w", err)
	}
	if !ok {
		return nil, ErrEventBusy
	}
	defer func() {
		_ = s.Hold.ReleaseEventHold(event.ID, bookingID)
	}()

	reserved, err := s.DB.ReserveSeats(event.ID, req.NumberOfSeats)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}
	if !reserved {
		return nil, ErrCapacityExceeded
	}

	booking := models.EventBooking{
		ID:            bookingID,
		TicketID:      utils.GenerateTicketID(),
		EventID:       event.ID,
		UserID:        claims.UserID,
		NumberOfSeats: req.NumberOfSeats,
		TotalAmount:   float64(req.NumberOfSeats) * event.Price,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now(),
	}
	if claims.IsPerformer {
		booking.ArtType = req.ArtType
		booking.DurationMinutes = req.DurationMinutes
	}

	if qrPath, err := s.Tickets.Generate(booking.TicketID, booking.EventID, booking.UserID, booking.NumberOfSeats, booking.TotalAmount); err != nil {
		fmt.Printf("Failed to render ticket QR for %s: %v\n", booking.TicketID, err)
	} else {
		booking.QRCodePath = qrPath
	}

	if err := s.DB.CreateBooking(booking); err != nil {
		fmt.Printf("Failed to create booking: %v. Rolling back seat reservation.\n", err)
		if _, rbErr := s.DB.ReleaseSeats(event.ID, req.NumberOfSeats); rbErr != nil {
			fmt.Printf("Seat rollback failed for event %s: %v\n", event.ID, rbErr)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if claims.IsPerformer {
		if err := s.DB.AddPerformerToEvent(event.ID, claims.UserID); err != nil {
			fmt.Printf("Failed to add performer %s to event %s: %v\n", claims.UserID, event.ID, err)
		}
	}

	if err := s.Kafka.PublishBookingCreated(booking); err != nil {
		fmt.Printf("Kafka publish error (booking created): %v\n", err)
	}

	return &booking, nil
}

// GetBooking returns the booking to its owner or an admin.
func (s *BookingService) GetBooking(claims *auth.Claims, id string) (*models.EventBooking, error) {
	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if booking.UserID != claims.UserID && !claims.IsAdmin {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *BookingService) ListBookings() ([]models.EventBooking, error) {
	return s.DB.ListBookings()
}

func (s *BookingService) ListMyBookings(userID string) ([]models.EventBooking, error) {
	return s.DB.ListBookingsByUser(userID)
}

// ListBookingsByEvent is restricted to admins and the event creator.
func (s *BookingService) ListBookingsByEvent(claims *auth.Claims, eventID string) ([]models.EventBooking, error) {
	event, err := s.DB.GetEventByID(eventID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	if event.CreatedBy != claims.UserID && !claims.IsAdmin {
		return nil, ErrNotOwner
	}
	return s.DB.ListBookingsByEvent(eventID)
}

// CancelBooking removes the booking and returns its seats to the event.
// Seats are released first; a failed release aborts the cancellation rather
// than silently leaving the counter inflated.
func (s *BookingService) CancelBooking(claims *auth.Claims, id string) error {
	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if booking.UserID != claims.UserID && !claims.IsAdmin {
		return ErrNotOwner
	}

	released, err := s.DB.ReleaseSeats(booking.EventID, booking.NumberOfSeats)
	if err != nil {
		return fmt.Errorf("failed to release seats for event %s: %w", booking.EventID, err)
	}
	if !released {
		return fmt.Errorf("seat counter for event %s could not be adjusted", booking.EventID)
	}

	if err := s.DB.DeleteBooking(id); err != nil {
		// Put the seats back so the counter stays consistent with bookings.
		if _, rbErr := s.DB.ReserveSeats(booking.EventID, booking.NumberOfSeats); rbErr != nil {
			fmt.Printf("Seat re-reserve failed for event %s: %v\n", booking.EventID, rbErr)
		}
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}

	if err := s.Kafka.PublishBookingCancelled(*booking); err != nil {
		fmt.Printf("Kafka publish error (booking cancelled): %v\n", err)
	}

	return nil
}

// AttachPaymentScreenshot stores the uploaded proof path and moves the
// booking back to pending verification.
func (s *BookingService) AttachPaymentScreenshot(claims *auth.Claims, id, screenshotPath string) (*models.EventBooking, error) {
	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if booking.UserID != claims.UserID {
		return nil, ErrNotOwner
	}

	if err := s.DB.UpdatePaymentScreenshot(id, screenshotPath); err != nil {
		return nil, fmt.Errorf("failed to store payment screenshot: %w", err)
	}

	booking.PaymentScreenshot = screenshotPath
	booking.PaymentStatus = models.PaymentPending
	return booking, nil
}

// SetPaymentStatus verifies or rejects a pending payment. Admin-only; the
// route guard enforces the role, the conditional UPDATE enforces the
// pending-only transition.
func (s *BookingService) SetPaymentStatus(id, status string) (*models.EventBooking, error) {
	if status != models.PaymentVerified && status != models.PaymentRejected {
		return nil, ErrInvalidStatus
	}

	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}

	moved, err := s.DB.UpdatePaymentStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if !moved {
		return nil, ErrNotPending
	}

	booking.PaymentStatus = status
	if err := s.Kafka.PublishPaymentStatus(*booking); err != nil {
		fmt.Printf("Kafka publish error (payment status): %v\n", err)
	}
	return booking, nil
}
