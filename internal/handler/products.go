package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

const msgProductNotFound = "Product not found"

// paymentOptions принимает как массив строк, так и одиночную строку.
type paymentOptions []string

func (p *paymentOptions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var single string
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		*p = paymentOptions{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*p = many
	return nil
}

type productRequest struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	Category          string           `json:"category"`
	PaymentOptions    paymentOptions   `json:"paymentOptions"`
	Images            []string         `json:"images"`
	AvailableQuantity int              `json:"availableQuantity"`
	MinimumOrder      int              `json:"minimumOrder"`
	ShowOnHome        bool             `json:"showOnHome"`
	CreatedBy         string           `json:"createdBy"`
}

type deleteResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

// ListProducts возвращает весь каталог.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "list products error")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(products))
}

// ListFeaturedProducts возвращает товары для главной страницы.
func (h *Handler) ListFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListFeaturedProducts(r.Context())
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "list featured products error")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(products))
}

// ListManagerProducts возвращает товары, добавленные менеджерами.
func (h *Handler) ListManagerProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListManagerProducts(r.Context())
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "list manager products error")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(products))
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "get product error", zap.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct добавляет товар в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if req.Price == nil {
		writeMessage(w, http.StatusBadRequest, "price is required")
		return
	}

	id, err := h.service.CreateProduct(r.Context(), model.Product{
		Name:              req.Name,
		Description:       req.Description,
		Price:             *req.Price,
		Category:          req.Category,
		PaymentOptions:    req.PaymentOptions,
		Images:            req.Images,
		AvailableQuantity: req.AvailableQuantity,
		MinimumOrder:      req.MinimumOrder,
		ShowOnHome:        req.ShowOnHome,
		CreatedBy:         req.CreatedBy,
	})
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "create product error", zap.String("name", req.Name))
		return
	}

	writeJSON(w, http.StatusCreated, insertResponse{Acknowledged: true, InsertedID: id})
}

// UpdateProduct заменяет название, цену, категорию и способы оплаты товара.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if req.Price == nil {
		writeMessage(w, http.StatusBadRequest, "price is required")
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, model.ProductChanges{
		Name:           req.Name,
		Price:          *req.Price,
		Category:       req.Category,
		PaymentOptions: req.PaymentOptions,
	})
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "update product error", zap.String("id", id))
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct удаляет товар.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "delete product error", zap.String("id", id))
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Success: true, DeletedCount: n})
}

type showOnHomeRequest struct {
	ShowOnHome *bool `json:"showOnHome"`
}

// SetShowOnHome включает или выключает показ товара на главной странице.
func (h *Handler) SetShowOnHome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req showOnHomeRequest
	if err := decodeJSON(r, &req); err != nil || req.ShowOnHome == nil {
		writeMessage(w, http.StatusBadRequest, "showOnHome flag is required")
		return
	}

	matched, modified, err := h.service.SetShowOnHome(r.Context(), id, *req.ShowOnHome)
	if err != nil {
		h.writeError(w, err, msgProductNotFound, "set show on home error", zap.String("id", id))
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified})
}
