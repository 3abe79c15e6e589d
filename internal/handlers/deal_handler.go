package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/grubhouse/storefront-api/internal/deals"
	"github.com/grubhouse/storefront-api/internal/models"
)

// dealLister lists currently valid deals.
type dealLister interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Deal, error)
}

// dealValidator previews a coupon against an order amount.
type dealValidator interface {
	Validate(ctx context.Context, code string, orderAmount float64) (*deals.Result, error)
}

// DealHandler handles HTTP requests for deals and coupon validation.
type DealHandler struct {
	repo      dealLister
	validator dealValidator
	log       *slog.Logger
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(repo dealLister, validator dealValidator, log *slog.Logger) *DealHandler {
	return &DealHandler{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

// ListDeals handles GET /api/deals
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	active, err := h.repo.ListActive(r.Context(), time.Now())
	if err != nil {
		h.log.Error("failed to list deals", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"deals": active}, h.log)
}

type validateDealRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"orderAmount"`
}

// ValidateDeal handles POST /api/deals/validate
// This is the preview path used by the cart page "Apply" button: it never
// increments the coupon's usage count.
func (h *DealHandler) ValidateDeal(w http.ResponseWriter, r *http.Request) {
	var req validateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.Code == "" {
		WriteError(w, http.StatusBadRequest, "Coupon code is required", h.log)
		return
	}

	result, err := h.validator.Validate(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		writeDealError(w, err, h.log)
		return
	}

	deal := result.Deal
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"deal": map[string]interface{}{
			"code":          deal.Code,
			"name":          deal.Name,
			"description":   deal.Description,
			"discountType":  deal.DiscountType,
			"discountValue": deal.DiscountValue,
			"discount":      result.Discount,
		},
	}, h.log)
}

// writeDealError maps coupon validation failures onto the API taxonomy:
// unknown/expired codes are 404, business-rule rejections 400.
func writeDealError(w http.ResponseWriter, err error, log *slog.Logger) {
	var minOrderErr *deals.MinOrderError
	switch {
	case errors.Is(err, deals.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Invalid or expired coupon code", log)
	case errors.Is(err, deals.ErrUsageLimitReached):
		WriteError(w, http.StatusBadRequest, "Coupon usage limit reached", log)
	case errors.As(err, &minOrderErr):
		WriteError(w, http.StatusBadRequest, minOrderErr.Error(), log)
	default:
		log.Error("coupon validation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", log)
	}
}
