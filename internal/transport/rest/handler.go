// Package rest provides the HTTP handlers of the storefront API.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	cart     service.CartService
	products service.ProductService
	coupons  service.CouponService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler with the provided services.
func NewHandler(cart service.CartService, products service.ProductService, coupons service.CouponService, logger *slog.Logger) *Handler {
	return &Handler{
		cart:     cart,
		products: products,
		coupons:  coupons,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the API routes. Every route runs behind authn.
func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(authn)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/", h.AddToCart)
			r.Delete("/", h.RemoveAll)
			r.Put("/", h.UpdateQuantity)
			r.Get("/summary", h.CartSummary)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.FindAllProducts)
			r.Get("/featured", h.FindFeaturedProducts)
			r.Get("/category/{category}", h.FindProductsByCategory)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(h.logger))
				r.Post("/", h.CreateProduct)
				r.Delete("/{id}", h.DeleteProduct)
				r.Patch("/{id}/featured", h.ToggleFeatured)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", h.GetMyCoupon)
			r.Post("/validate", h.ValidateCoupon)
		})
	})
}

// respondServiceError maps a service error to its status code. Store failures are
// reported as a generic server error; the details only go to the log.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	msg, _ := apperrors.Message(err)
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		h.logger.WarnContext(ctx, "Rejected invalid request", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, msg)
	case errors.Is(err, apperrors.ErrNotFound):
		h.logger.WarnContext(ctx, "Requested resource not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, msg)
	case errors.Is(err, apperrors.ErrForbidden):
		web.RespondError(w, h.logger, http.StatusForbidden, msg)
	default:
		h.logger.ErrorContext(ctx, "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Server error")
	}
}
