package db_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"voice-of-rajkot/internal/bookings/db"
	"voice-of-rajkot/internal/models"
)

func setupTestDB() (*db.DB, error) {
	// Create a new SQLite in-memory database
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		return nil, err
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	// Create tables
	err = bunDB.ResetModel(context.Background(),
		(*models.Event)(nil),
		(*models.EventBooking)(nil),
	)
	if err != nil {
		return nil, err
	}

	return &db.DB{Bun: bunDB}, nil
}

func seedEvent(t *testing.T, d *db.DB, id string, total, booked int) {
	t.Helper()
	event := models.Event{
		ID:          id,
		Name:        "Garba Night",
		Venue:       "Race Course Ground",
		StartsAt:    time.Now().Add(48 * time.Hour),
		Price:       250.0,
		TotalSeats:  total,
		BookedSeats: booked,
		CreatedBy:   "organizer-1",
		CreatedAt:   time.Now(),
	}
	if _, err := d.Bun.NewInsert().Model(&event).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}

	seedEvent(t, d, "event-1", 100, 0)

	booking := models.EventBooking{
		ID:            "booking-1",
		TicketID:      "VOR-ABC123-0001",
		EventID:       "event-1",
		UserID:        "user-1",
		NumberOfSeats: 2,
		TotalAmount:   500.0,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now(),
	}

	if err := d.CreateBooking(booking); err != nil {
		t.Fatalf("Failed to create booking: %v", err)
	}

	got, err := d.GetBookingByID("booking-1")
	if err != nil {
		t.Fatalf("Failed to get booking: %v", err)
	}
	if got.TicketID != booking.TicketID {
		t.Errorf("Expected ticket ID %s, got %s", booking.TicketID, got.TicketID)
	}
	if got.NumberOfSeats != 2 {
		t.Errorf("Expected 2 seats, got %d", got.NumberOfSeats)
	}

	_, err = d.GetBookingByID("missing")
	if !db.IsNotFound(err) {
		t.Errorf("Expected a not-found error, got %v", err)
	}
}

func TestReserveAndReleaseSeats(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}

	seedEvent(t, d, "event-1", 10, 0)

	ok, err := d.ReserveSeats("event-1", 6)
	if err != nil {
		t.Fatalf("ReserveSeats failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected reservation to succeed")
	}

	event, err := d.GetEventByID("event-1")
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	if event.BookedSeats != 6 {
		t.Errorf("Expected 6 booked seats, got %d", event.BookedSeats)
	}

	// Over capacity: the conditional update must refuse and mutate nothing.
	ok, err = d.ReserveSeats("event-1", 5)
	if err != nil {
		t.Fatalf("ReserveSeats failed: %v", err)
	}
	if ok {
		t.Error("Expected over-capacity reservation to be refused")
	}
	event, _ = d.GetEventByID("event-1")
	if event.BookedSeats != 6 {
		t.Errorf("Expected counter unchanged at 6, got %d", event.BookedSeats)
	}

	// Filling exactly to capacity is allowed.
	ok, err = d.ReserveSeats("event-1", 4)
	if err != nil || !ok {
		t.Fatalf("Expected exact-fill reservation to succeed, ok=%v err=%v", ok, err)
	}

	ok, err = d.ReleaseSeats("event-1", 4)
	if err != nil || !ok {
		t.Fatalf("Expected release to succeed, ok=%v err=%v", ok, err)
	}
	event, _ = d.GetEventByID("event-1")
	if event.BookedSeats != 6 {
		t.Errorf("Expected 6 booked seats after release, got %d", event.BookedSeats)
	}

	// Releasing more than is booked must be refused, never go negative.
	ok, err = d.ReleaseSeats("event-1", 7)
	if err != nil {
		t.Fatalf("ReleaseSeats failed: %v", err)
	}
	if ok {
		t.Error("Expected release below zero to be refused")
	}
	event, _ = d.GetEventByID("event-1")
	if event.BookedSeats != 6 {
		t.Errorf("Expected counter unchanged at 6, got %d", event.BookedSeats)
	}

	// Unknown event matches no row.
	ok, err = d.ReserveSeats("missing", 1)
	if err != nil {
		t.Fatalf("ReserveSeats failed: %v", err)
	}
	if ok {
		t.Error("Expected reservation against unknown event to be refused")
	}
}

func TestConcurrentReservationsNeverOverbook(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}
	// A single pooled connection keeps sqlite from returning busy errors
	// under writer contention; the races between callers are real.
	d.Bun.SetMaxOpenConns(1)

	seedEvent(t, d, "event-1", 5, 0)

	// 50 callers fight for 5 seats.
	attempts := 50
	var successCount int32
	var refusedCount int32

	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			ok, err := d.ReserveSeats("event-1", 1)
			if err != nil {
				t.Errorf("ReserveSeats failed: %v", err)
				return
			}
			if ok {
				atomic.AddInt32(&successCount, 1)
			} else {
				atomic.AddInt32(&refusedCount, 1)
			}
		}()
	}
	wg.Wait()

	if successCount != 5 {
		t.Errorf("Expected exactly 5 successful reservations, got %d", successCount)
	}
	if refusedCount != int32(attempts-5) {
		t.Errorf("Expected %d refused reservations, got %d", attempts-5, refusedCount)
	}

	event, err := d.GetEventByID("event-1")
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	if event.BookedSeats != 5 {
		t.Errorf("Expected counter settled at 5, got %d", event.BookedSeats)
	}
	if event.BookedSeats > event.TotalSeats {
		t.Errorf("Counter overbooked: %d of %d", event.BookedSeats, event.TotalSeats)
	}
}

func TestUpdatePaymentStatusPendingOnly(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}

	seedEvent(t, d, "event-1", 10, 0)
	booking := models.EventBooking{
		ID:            "booking-1",
		TicketID:      "VOR-XYZ789-0002",
		EventID:       "event-1",
		UserID:        "user-1",
		NumberOfSeats: 1,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now(),
	}
	if err := d.CreateBooking(booking); err != nil {
		t.Fatalf("Failed to create booking: %v", err)
	}

	moved, err := d.UpdatePaymentStatus("booking-1", models.PaymentVerified)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus failed: %v", err)
	}
	if !moved {
		t.Fatal("Expected pending booking to move to verified")
	}

	// Already settled: the conditional update must not fire again.
	moved, err = d.UpdatePaymentStatus("booking-1", models.PaymentRejected)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus failed: %v", err)
	}
	if moved {
		t.Error("Expected settled booking to stay verified")
	}

	got, err := d.GetBookingByID("booking-1")
	if err != nil {
		t.Fatalf("Failed to get booking: %v", err)
	}
	if got.PaymentStatus != models.PaymentVerified {
		t.Errorf("Expected verified status, got %s", got.PaymentStatus)
	}
}

func TestUpdatePaymentScreenshotResetsStatus(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}

	seedEvent(t, d, "event-1", 10, 0)
	booking := models.EventBooking{
		ID:            "booking-1",
		TicketID:      "VOR-QWE456-0003",
		EventID:       "event-1",
		UserID:        "user-1",
		NumberOfSeats: 1,
		PaymentStatus: models.PaymentRejected,
		CreatedAt:     time.Now(),
	}
	if err := d.CreateBooking(booking); err != nil {
		t.Fatalf("Failed to create booking: %v", err)
	}

	if err := d.UpdatePaymentScreenshot("booking-1", "public/uploads/booking-1.png"); err != nil {
		t.Fatalf("UpdatePaymentScreenshot failed: %v", err)
	}

	got, err := d.GetBookingByID("booking-1")
	if err != nil {
		t.Fatalf("Failed to get booking: %v", err)
	}
	if got.PaymentScreenshot != "public/uploads/booking-1.png" {
		t.Errorf("Unexpected screenshot path %s", got.PaymentScreenshot)
	}
	if got.PaymentStatus != models.PaymentPending {
		t.Errorf("Expected status reset to pending, got %s", got.PaymentStatus)
	}
}

func TestListBookingsByUserAndEvent(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}

	seedEvent(t, d, "event-1", 10, 0)
	seedEvent(t, d, "event-2", 10, 0)

	now := time.Now()
	seed := []models.EventBooking{
		{ID: "b1", TicketID: "VOR-AAA111-0001", EventID: "event-1", UserID: "user-1", NumberOfSeats: 1, PaymentStatus: models.PaymentPending, CreatedAt: now},
		{ID: "b2", TicketID: "VOR-BBB222-0002", EventID: "event-1", UserID: "user-2", NumberOfSeats: 2, PaymentStatus: models.PaymentPending, CreatedAt: now.Add(time.Minute)},
		{ID: "b3", TicketID: "VOR-CCC333-0003", EventID: "event-2", UserID: "user-1", NumberOfSeats: 3, PaymentStatus: models.PaymentPending, CreatedAt: now.Add(2 * time.Minute)},
	}
	for _, b := range seed {
		if err := d.CreateBooking(b); err != nil {
			t.Fatalf("Failed to create booking %s: %v", b.ID, err)
		}
	}

	byUser, err := d.ListBookingsByUser("user-1")
	if err != nil {
		t.Fatalf("ListBookingsByUser failed: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("Expected 2 bookings for user-1, got %d", len(byUser))
	}

	byEvent, err := d.ListBookingsByEvent("event-1")
	if err != nil {
		t.Fatalf("ListBookingsByEvent failed: %v", err)
	}
	if len(byEvent) != 2 {
		t.Errorf("Expected 2 bookings for event-1, got %d", len(byEvent))
	}

	empty, err := d.ListBookingsByUser("nobody")
	if err != nil {
		t.Fatalf("ListBookingsByUser failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", empty)
	}
}

func TestAddPerformerToEventDeduplicates(t *testing.T) {
	d, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}

	seedEvent(t, d, "event-1", 10, 0)

	if err := d.AddPerformerToEvent("event-1", "performer-1"); err != nil {
		t.Fatalf("AddPerformerToEvent failed: %v", err)
	}
	if err := d.AddPerformerToEvent("event-1", "performer-1"); err != nil {
		t.Fatalf("AddPerformerToEvent failed on repeat: %v", err)
	}
	if err := d.AddPerformerToEvent("event-1", "performer-2"); err != nil {
		t.Fatalf("AddPerformerToEvent failed: %v", err)
	}

	event, err := d.GetEventByID("event-1")
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	if len(event.PerformerIDs) != 2 {
		t.Errorf("Expected 2 performers on roster, got %v", event.PerformerIDs)
	}
}
