package event_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/events"
	"voice-of-rajkot/internal/logger"
	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/utils"
)

type Handler struct {
	EventService *events.EventService
	Logger       *logger.Logger
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, events.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, events.ErrNotCreator), errors.Is(err, events.ErrNotPerformer):
		return http.StatusForbidden
	case errors.Is(err, events.ErrHasBookings), errors.Is(err, events.ErrInvalidEvent),
		errors.Is(err, events.ErrInvalidSeating), errors.Is(err, events.ErrSeatShrink):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateEvent: received request")

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	claims := auth.FromContext(r.Context())
	event, err := h.EventService.CreateEvent(claims, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not create event", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", event))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("GetEvent: eventId=%s", eventID))

	event, err := h.EventService.GetEvent(eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not fetch event", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event found", event))
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.EventService.ListEvents()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list events", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events listed", list))
}

func (h *Handler) ListEventsByPerformer(w http.ResponseWriter, r *http.Request) {
	performerID := chi.URLParam(r, "performerId")
	h.Logger.Info("API", fmt.Sprintf("ListEventsByPerformer: performerId=%s", performerID))

	list, err := h.EventService.ListEventsByPerformer(performerID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEventsByPerformer: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list events", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events listed", list))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("UpdateEvent: eventId=%s", eventID))

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	claims := auth.FromContext(r.Context())
	event, err := h.EventService.UpdateEvent(claims, eventID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not update event", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event updated", event))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("DeleteEvent: eventId=%s", eventID))

	claims := auth.FromContext(r.Context())
	if err := h.EventService.DeleteEvent(claims, eventID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteEvent: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not delete event", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event deleted", nil))
}

func (h *Handler) AttachPerformer(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("AttachPerformer: eventId=%s", eventID))

	var req models.AttachPerformerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PerformerID == "" {
		h.Logger.Error("API", "AttachPerformer: performer_id is required")
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", "performer_id is required"))
		return
	}

	event, err := h.EventService.AttachPerformer(eventID, req.PerformerID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("AttachPerformer: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not attach performer", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Performer attached", event))
}
