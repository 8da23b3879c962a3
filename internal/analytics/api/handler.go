package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voice-of-rajkot/internal/analytics"
	"voice-of-rajkot/internal/logger"
	"voice-of-rajkot/internal/utils"
)

type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// RegisterRoutes wires the analytics endpoints onto an admin-gated router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/overview", h.GetOverview)
		r.Get("/events/{eventId}", h.GetEventAnalytics)
	})
}

func (h *Handler) GetEventAnalytics(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("GetEventAnalytics: eventId=%s", eventID))

	data, err := h.Service.GetEventAnalytics(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, analytics.ErrEventNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetEventAnalytics: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not load analytics", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event analytics", data))
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "GetOverview: received request")

	data, err := h.Service.GetOverview(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOverview: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not load analytics", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Platform overview", data))
}
