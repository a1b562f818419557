package handler

import (
	"encoding/json"
	"net/http"

	"surq/internal/service"
	"surq/internal/transport/rest/middleware"
)

// CouponHandler handles coupon redemption endpoints.
type CouponHandler struct {
	couponSvc *service.CouponService
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(couponSvc *service.CouponService) *CouponHandler {
	return &CouponHandler{couponSvc: couponSvc}
}

// RedeemRequest is the request body for redeeming a coupon.
type RedeemRequest struct {
	Code string `json:"code"`
}

// Redeem handles POST /v1/coupons. The redemption always targets the
// authenticated caller's own account; the email comes from the verified
// token, never from the request body.
func (h *CouponHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "coupon code is required")
		return
	}

	ident := middleware.GetIdentity(r.Context())
	result, err := h.couponSvc.Redeem(r.Context(), ident, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History handles GET /v1/coupons.
func (h *CouponHandler) History(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	history, err := h.couponSvc.History(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}
