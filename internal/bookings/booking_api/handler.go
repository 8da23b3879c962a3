package booking_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/bookings"
	"voice-of-rajkot/internal/logger"
	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/utils"
)

type Handler struct {
	BookingService *bookings.BookingService
	Logger         *logger.Logger
	ScreenshotsDir string
	MaxUploadBytes int64
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, bookings.ErrEventNotFound), errors.Is(err, bookings.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, bookings.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, bookings.ErrCapacityExceeded), errors.Is(err, bookings.ErrInvalidSeats),
		errors.Is(err, bookings.ErrNotPending), errors.Is(err, bookings.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, bookings.ErrEventBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateBooking: received request")

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	claims := auth.FromContext(r.Context())
	booking, err := h.BookingService.CreateBooking(claims, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not create booking", err.Error()))
		return
	}

	h.Logger.LogBooking("CREATE", booking.TicketID, fmt.Sprintf("event=%s seats=%d", booking.EventID, booking.NumberOfSeats))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Booking created", booking))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("GetBooking: bookingId=%s", bookingID))

	claims := auth.FromContext(r.Context())
	booking, err := h.BookingService.GetBooking(claims, bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBooking: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not fetch booking", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Booking found", booking))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "ListBookings: received request")

	list, err := h.BookingService.ListBookings()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListBookings: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list bookings", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Bookings listed", list))
}

func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("ListMyBookings: userId=%s", userID))

	list, err := h.BookingService.ListMyBookings(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyBookings: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list bookings", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Bookings listed", list))
}

func (h *Handler) ListBookingsByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("ListBookingsByEvent: eventId=%s", eventID))

	claims := auth.FromContext(r.Context())
	list, err := h.BookingService.ListBookingsByEvent(claims, eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListBookingsByEvent: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not list bookings", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Bookings listed", list))
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("CancelBooking: bookingId=%s", bookingID))

	claims := auth.FromContext(r.Context())
	if err := h.BookingService.CancelBooking(claims, bookingID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CancelBooking: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not cancel booking", err.Error()))
		return
	}

	h.Logger.LogBooking("CANCEL", bookingID, "booking cancelled, seats released")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Booking cancelled", nil))
}

// UploadPaymentScreenshot accepts a multipart image and stores it under the
// public uploads directory.
func (h *Handler) UploadPaymentScreenshot(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("UploadPaymentScreenshot: bookingId=%s", bookingID))

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UploadPaymentScreenshot: failed to parse form: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid multipart form", err.Error()))
		return
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UploadPaymentScreenshot: missing screenshot file: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Screenshot file is required", err.Error()))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".webp" {
		h.Logger.Warn("API", fmt.Sprintf("UploadPaymentScreenshot: rejected extension %q", ext))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Unsupported file type", "screenshot must be png, jpg or webp"))
		return
	}

	if err := os.MkdirAll(h.ScreenshotsDir, 0755); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UploadPaymentScreenshot: failed to create uploads dir: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not store screenshot", err.Error()))
		return
	}

	storedPath := filepath.Join(h.ScreenshotsDir, fmt.Sprintf("%s-%s%s", bookingID, uuid.NewString()[:8], ext))
	out, err := os.Create(storedPath)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UploadPaymentScreenshot: failed to create file: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not store screenshot", err.Error()))
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UploadPaymentScreenshot: failed to write file: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not store screenshot", err.Error()))
		return
	}

	claims := auth.FromContext(r.Context())
	booking, err := h.BookingService.AttachPaymentScreenshot(claims, bookingID, storedPath)
	if err != nil {
		// The service refused the attachment, remove the orphaned file.
		_ = os.Remove(storedPath)
		h.Logger.Error("API", fmt.Sprintf("UploadPaymentScreenshot: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not attach screenshot", err.Error()))
		return
	}

	h.Logger.LogBooking("PAYMENT", booking.TicketID, "screenshot attached, verification pending")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Screenshot uploaded", booking))
}

// SetPaymentStatus is the admin verification step for uploaded screenshots.
func (h *Handler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("SetPaymentStatus: bookingId=%s", bookingID))

	var req models.PaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SetPaymentStatus: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	booking, err := h.BookingService.SetPaymentStatus(bookingID, req.Status)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SetPaymentStatus: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not update payment status", err.Error()))
		return
	}

	h.Logger.LogBooking("PAYMENT", booking.TicketID, fmt.Sprintf("payment %s", booking.PaymentStatus))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment status updated", booking))
}
