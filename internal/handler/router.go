package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	custommiddleware "github.com/mmeshcher/garmenttrack/internal/middleware"
	"github.com/mmeshcher/garmenttrack/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса.
// allowedOrigins — адреса фронтенда, которым разрешены запросы с cookie.
func (h *Handler) SetupRouter(allowedOrigins ...string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/", h.Root)
	r.Get("/healthz", h.Healthz)

	r.Post("/jwt", h.IssueToken)
	r.Post("/logout", h.Logout)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.RegisterUser)
		r.Get("/{email}", h.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Use(h.requireRole(model.RoleAdmin))

			r.Get("/", h.ListUsers)
			r.Patch("/{id}", h.UpdateUser)
		})
	})

	r.Route("/productsData", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/limit", h.ListFeaturedProducts)
		r.Get("/manager", h.ListManagerProducts)
		r.Get("/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.With(h.requireRole(model.RoleManager)).Post("/", h.CreateProduct)
			r.With(h.requireRole(model.RoleAdmin, model.RoleManager)).Patch("/{id}", h.UpdateProduct)
			r.With(h.requireRole(model.RoleAdmin, model.RoleManager)).Delete("/{id}", h.DeleteProduct)
			r.With(h.requireRole(model.RoleAdmin)).Patch("/showHome/{id}", h.SetShowOnHome)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		// Любая известная роль; права на конкретные данные проверяет сервис.
		r.With(h.requireRole()).Post("/", h.CreateOrder)
		r.With(h.requireRole()).Get("/{key}", h.OrderByKey)

		r.With(h.requireRole(model.RoleAdmin)).Get("/", h.ListOrders)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
