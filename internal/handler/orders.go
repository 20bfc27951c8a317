package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/middleware"
	"github.com/mmeshcher/garmenttrack/internal/model"
)

const msgOrderNotFound = "Order not found"

// quantity принимает число или строку с числом: формы оформления заказа присылают оба варианта.
type quantity int

func (q *quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = 0
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*q = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("quantity %q is not a number", s)
		}
		*q = quantity(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = quantity(n)
	return nil
}

type orderRequest struct {
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	Email         string           `json:"email"`
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	Quantity      quantity         `json:"quantity"`
	Status        string           `json:"status"`
	Address       string           `json:"address"`
	Phone         string           `json:"phone"`
	Notes         string           `json:"notes"`
	PaymentMethod string           `json:"paymentMethod"`
}

type orderCreatedResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	InsertedID string `json:"insertedId"`
}

// CreateOrder оформляет заказ от имени проверенного пользователя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	id, err := h.service.CreateOrder(r.Context(), caller, model.Order{
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		UnitPrice:     req.UnitPrice,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Quantity:      int(req.Quantity),
		Status:        model.OrderStatus(req.Status),
		Address:       req.Address,
		Phone:         req.Phone,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.writeError(w, err, msgOrderNotFound, "create order error", zap.String("email", req.Email))
		return
	}

	writeJSON(w, http.StatusCreated, orderCreatedResponse{
		Success:    true,
		Message:    "Order placed successfully",
		InsertedID: id,
	})
}

// ListOrders возвращает все заказы с необязательным фильтром ?status=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	orders, err := h.service.ListOrders(r.Context(), status)
	if err != nil {
		h.writeError(w, err, msgOrderNotFound, "list orders error", zap.String("status", status))
		return
	}

	writeJSON(w, http.StatusOK, nonNil(orders))
}

// OrderByKey обслуживает /orders/{key}. Ключ с "@" считается email покупателя, иначе это идентификатор заказа.
func (h *Handler) OrderByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if strings.Contains(key, "@") {
		h.ordersForEmail(w, r, key)
		return
	}

	h.getOrder(w, r, key)
}

func (h *Handler) ordersForEmail(w http.ResponseWriter, r *http.Request, email string) {
	caller, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	orders, err := h.service.OrdersForEmail(r.Context(), caller, email)
	if err != nil {
		h.writeError(w, err, msgOrderNotFound, "get orders error", zap.String("email", email))
		return
	}

	writeJSON(w, http.StatusOK, nonNil(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	if !middleware.RoleAllowed(caller.Role, []model.Role{model.RoleAdmin}) {
		writeMessage(w, http.StatusForbidden, msgForbidden)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, err, msgOrderNotFound, "get order error", zap.String("id", id))
		return
	}

	writeJSON(w, http.StatusOK, order)
}
