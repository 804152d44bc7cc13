package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
}

type updateQuantityRequest struct {
	ID       string `json:"id"`
	Quantity any    `json:"quantity"`
}

// GetCart returns the cart view of the authenticated user.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.GetCartView(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, view)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := web.DecodeJSON(r, &req, true); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	view, err := h.cart.AddToCart(r.Context(), UserFromContext(r.Context()), req.ProductID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Product added to cart", "product_id", req.ProductID)
	web.RespondJSON(w, h.logger, http.StatusOK, view)
}

// RemoveAll empties the cart. The optional productId in the body does not narrow the removal.
func (h *Handler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := web.DecodeJSON(r, &req, true); err != nil {
		h.logger.DebugContext(r.Context(), "Ignoring undecodable remove-all body", "error", err)
	}
	view, err := h.cart.RemoveAll(r.Context(), UserFromContext(r.Context()), req.ProductID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, view)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := web.DecodeJSON(r, &req, true); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := service.ParseProductID(req.ID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	quantity, err := service.ParseQuantity(req.Quantity)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	view, err := h.cart.UpdateQuantity(r.Context(), UserFromContext(r.Context()), req.ID, quantity)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, view)
}

// CartSummary returns the cart totals, discounted by the coupon query parameter when present.
func (h *Handler) CartSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cart.Summary(r.Context(), UserFromContext(r.Context()), r.URL.Query().Get("coupon"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, summary)
}
