package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/validation"
)

type tokenRequest struct {
	Email string `json:"email"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// IssueToken выпускает сессионный токен для email и устанавливает его в cookie.
// Email считается уже подтверждённым внешним провайдером идентификации.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	if !validation.IsValidEmail(email) {
		writeMessage(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, email); err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout удаляет сессионный cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
