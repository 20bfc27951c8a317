// Package handler содержит HTTP-обработчики API учёта заказов одежды.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/middleware"
	"github.com/mmeshcher/garmenttrack/internal/model"
	"github.com/mmeshcher/garmenttrack/internal/repository"
	"github.com/mmeshcher/garmenttrack/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Ping(ctx context.Context) error

	RegisterAccount(ctx context.Context, email, name, role string) (*model.Account, bool, error)
	GetAccount(ctx context.Context, email string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	UpdateAccount(ctx context.Context, id string, ch service.AccountChange) (*model.Account, error)

	ListProducts(ctx context.Context) ([]model.Product, error)
	ListFeaturedProducts(ctx context.Context) ([]model.Product, error)
	ListManagerProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (string, error)
	UpdateProduct(ctx context.Context, id string, ch model.ProductChanges) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
	SetShowOnHome(ctx context.Context, id string, show bool) (int64, int64, error)

	CreateOrder(ctx context.Context, caller *model.Account, o model.Order) (string, error)
	OrdersForEmail(ctx context.Context, caller *model.Account, email string) ([]model.Order, error)
	ListOrders(ctx context.Context, status string) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

const (
	msgBadRequest   = "Invalid request body"
	msgUnauthorized = "Unauthorized access"
	msgForbidden    = "Forbidden access"
	msgInternal     = "Internal server error"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError переводит ошибку сервиса в HTTP-ответ. Подробности внутренних ошибок
// уходят только в журнал.
func (h *Handler) writeError(w http.ResponseWriter, err error, notFound string, logMsg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrConstraintViolation):
		writeMessage(w, http.StatusBadRequest, "Invalid data")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	default:
		h.logger.Error(logMsg, append(fields, zap.Error(err))...)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// nonNil гарантирует, что пустой список кодируется как [], а не null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (h *Handler) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return middleware.RequireRole(h.service, h.logger, roles...)
}

// Root отвечает простым текстом для проверки живости.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello this is a server"))
}

// Healthz проверяет доступность хранилища.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("storage ping failed", zap.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
