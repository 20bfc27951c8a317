package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/service"
)

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type insertResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type updateResponse struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// RegisterUser сохраняет учётную запись при первой регистрации.
// Повторная регистрация того же email не является ошибкой и ничего не меняет.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	account, created, err := h.service.RegisterAccount(r.Context(), req.Email, req.Name, req.Role)
	if err != nil {
		h.writeError(w, err, "User not found", "register user error", zap.String("email", req.Email))
		return
	}

	if !created {
		writeMessage(w, http.StatusOK, "User already exists")
		return
	}

	writeJSON(w, http.StatusCreated, insertResponse{Acknowledged: true, InsertedID: account.ID})
}

// GetUser возвращает учётную запись по email.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	account, err := h.service.GetAccount(r.Context(), email)
	if err != nil {
		h.writeError(w, err, "User not found", "get user error", zap.String("email", email))
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// ListUsers возвращает все учётные записи, начиная с самых новых.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, err, "User not found", "list users error")
		return
	}

	writeJSON(w, http.StatusOK, nonNil(accounts))
}

type updateUserRequest struct {
	Role            *string `json:"role"`
	Status          *string `json:"status"`
	SuspendReason   string  `json:"suspendReason"`
	SuspendFeedback string  `json:"suspendFeedback"`
}

// UpdateUser меняет роль и/или статус учётной записи.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	_, err := h.service.UpdateAccount(r.Context(), id, service.AccountChange{
		Role:            req.Role,
		Status:          req.Status,
		SuspendReason:   req.SuspendReason,
		SuspendFeedback: req.SuspendFeedback,
	})
	if err != nil {
		h.writeError(w, err, "User not found", "update user error", zap.String("id", id))
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1})
}
