package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/devabrarkhan/improve-together/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(h.sessions.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.GetProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/ui-config", h.GetUIConfig)

		r.Post("/select", h.SelectProduct)
		r.Post("/coupon/apply", h.ApplyCoupon)
		r.Post("/checkout", h.Checkout)

		r.Get("/modal/state", h.GetModalState)
		r.Post("/modal/close", h.CloseModal)
		r.Post("/modal/escape", h.EscapeModal)
		r.Post("/verification/close", h.CloseVerification)
	})

	r.Route("/fragments", func(r chi.Router) {
		r.Get("/cards", h.GetCardsFragment)
		r.Get("/featured", h.GetFeaturedFragment)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
