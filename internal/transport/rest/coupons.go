package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/web"
)

type validateCouponRequest struct {
	Code string `json:"code"`
}

type validateCouponResponse struct {
	Message            string `json:"message"`
	Code               string `json:"code"`
	DiscountPercentage int32  `json:"discountPercentage"`
}

// GetMyCoupon returns the active coupon of the user, or null when there is none.
func (h *Handler) GetMyCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.coupons.GetMyCoupon(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, apperrors.ErrCouponNotFound) {
			web.RespondJSON(w, h.logger, http.StatusOK, json.RawMessage("null"))
			return
		}
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, coupon)
}

func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := web.DecodeJSON(r, &req, true); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	coupon, err := h.coupons.Validate(r.Context(), UserFromContext(r.Context()), req.Code)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, validateCouponResponse{
		Message:            "Coupon is valid",
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
	})
}
