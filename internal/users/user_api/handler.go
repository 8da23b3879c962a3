package user_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/logger"
	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/users"
	"voice-of-rajkot/internal/utils"
)

type Handler struct {
	UserService *users.UserService
	Logger      *logger.Logger
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, users.ErrEmailTaken), errors.Is(err, users.ErrInvalidInput),
		errors.Is(err, users.ErrWeakPassword), errors.Is(err, users.ErrOTPExpired),
		errors.Is(err, users.ErrOTPMismatch), errors.Is(err, users.ErrNoResetPending):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrOTPThrottled), errors.Is(err, users.ErrOTPAttemptsExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "Register: received request")

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.UserService.Register(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not register", err.Error()))
		return
	}

	h.Logger.Info("API", fmt.Sprintf("Register: user %s created", user.ID))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Registered successfully", user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "Login: received request")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	resp, err := h.UserService.Login(req)
	if err != nil {
		h.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("email=%s: %v", req.Email, err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not log in", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged in", resp))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("GetProfile: userId=%s", userID))

	user, err := h.UserService.GetProfile(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetProfile: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not fetch profile", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Profile found", user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("UpdateProfile: userId=%s", userID))

	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.UserService.UpdateProfile(userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not update profile", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Profile updated", user))
}

// Onboard turns the requester into a performer with a public profile.
func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("Onboard: userId=%s", userID))

	var req models.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Onboard: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.UserService.Onboard(userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Onboard: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not onboard", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Onboarding complete", user))
}

func (h *Handler) ListPerformers(w http.ResponseWriter, r *http.Request) {
	list, err := h.UserService.ListPerformers()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListPerformers: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list performers", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Performers listed", list))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.UserService.ListUsers()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListUsers: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list users", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Users listed", list))
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.UserService.RequestPasswordReset(req.Email); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RequestPasswordReset: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not request reset", err.Error()))
		return
	}

	// Same response whether or not the email exists.
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("If the email is registered, a reset code was sent", nil))
}

func (h *Handler) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetVerify
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.UserService.VerifyPasswordReset(req.Email, req.OTP); err != nil {
		h.Logger.LogSecurity("OTP_VERIFY_FAILED", fmt.Sprintf("email=%s: %v", req.Email, err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not verify reset code", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Reset code verified", nil))
}

func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.UserService.ConfirmPasswordReset(req); err != nil {
		h.Logger.LogSecurity("PASSWORD_RESET_FAILED", fmt.Sprintf("email=%s: %v", req.Email, err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not reset password", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Password updated", nil))
}
