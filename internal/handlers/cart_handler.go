package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/grubhouse/storefront-api/internal/cart"
	"github.com/grubhouse/storefront-api/internal/pricing"
)

// CartHandler prices a client-persisted cart on the server.
type CartHandler struct {
	validator dealValidator
	log       *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(validator dealValidator, log *slog.Logger) *CartHandler {
	return &CartHandler{
		validator: validator,
		log:       log,
	}
}

type cartQuoteRequest struct {
	cart.State
	CouponCode string `json:"couponCode,omitempty"`
}

// QuoteCart handles POST /api/cart/quote
// The posted cart state is migrated (legacy lines get their identity keys
// backfilled), optionally checked against a coupon, and priced. Like the
// deal preview, this never consumes coupon usage.
func (h *CartHandler) QuoteCart(w http.ResponseWriter, r *http.Request) {
	var req cartQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if len(req.Lines) == 0 {
		WriteError(w, http.StatusBadRequest, "Cart is empty", h.log)
		return
	}

	state := cart.Migrate(req.State)

	var discount float64
	var coupon map[string]interface{}
	if req.CouponCode != "" {
		result, err := h.validator.Validate(r.Context(), req.CouponCode, state.Subtotal())
		if err != nil {
			writeDealError(w, err, h.log)
			return
		}
		discount = result.Discount
		coupon = map[string]interface{}{
			"code":     result.Deal.Code,
			"discount": result.Discount,
		}
	}

	breakdown := pricing.Quote(state.Lines, discount)

	response := map[string]interface{}{
		"version":  state.Version,
		"items":    state.Lines,
		"subtotal": breakdown.Subtotal,
		"discount": breakdown.Discount,
		"tax":      breakdown.Tax,
		"total":    breakdown.Total,
	}
	if coupon != nil {
		response["coupon"] = coupon
	}

	WriteJSON(w, http.StatusOK, response, h.log)
}
