package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grubhouse/storefront-api/internal/cart"
	"github.com/grubhouse/storefront-api/internal/deals"
	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/pricing"
	"github.com/grubhouse/storefront-api/internal/repository"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidOrderType = errors.New("order type must be delivery or takeaway")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrMissingAddress   = errors.New("delivery address is required for delivery orders")
	ErrInvalidUser      = errors.New("invalid user")
)

// CheckoutItem is one cart line submitted at checkout. Price is the
// size-adjusted unit price the client displayed; the server recomputes all
// totals from these per-line prices and never trusts a client-side discount.
type CheckoutItem struct {
	ProductID     string                `json:"productId"`
	Quantity      int                   `json:"quantity"`
	Price         float64               `json:"price"`
	Customization *models.Customization `json:"customization,omitempty"`
}

// CheckoutRequest is an incoming order placement request.
type CheckoutRequest struct {
	Items           []CheckoutItem  `json:"items"`
	OrderType       string          `json:"orderType"`
	DeliveryAddress *models.Address `json:"deliveryAddress,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	CouponCode      string          `json:"couponCode,omitempty"`
}

// DealValidator validates and redeems coupon codes.
type DealValidator interface {
	Validate(ctx context.Context, code string, orderAmount float64) (*deals.Result, error)
	Redeem(ctx context.Context, code string) error
	Release(ctx context.Context, code string) error
}

// OrderService handles order business logic
type OrderService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	validator   DealValidator
	log         *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, validator DealValidator, log *slog.Logger) *OrderService {
	return &OrderService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		validator:   validator,
		log:         log,
	}
}

// Checkout validates the request, re-validates the coupon server-side,
// redeems it, and persists an immutable order snapshot. The coupon is
// redeemed before the insert so its usage limit cannot be overshot; a
// failed insert releases the redemption again.
func (s *OrderService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUser
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.OrderType != models.OrderTypeDelivery && req.OrderType != models.OrderTypeTakeaway {
		return nil, ErrInvalidOrderType
	}
	if req.OrderType == models.OrderTypeDelivery && req.DeliveryAddress == nil {
		return nil, ErrMissingAddress
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodCash, models.PaymentMethodUPI:
	default:
		return nil, ErrInvalidPayment
	}

	// Validate items against the catalog and freeze the snapshot lines.
	items := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]cart.Line, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.Price < 0 {
			return nil, ErrInvalidPrice
		}

		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrInvalidProduct
			}
			return nil, err
		}
		if !product.Available {
			return nil, ErrInvalidProduct
		}

		items = append(items, models.OrderItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Quantity:      item.Quantity,
			Price:         item.Price,
			Customization: item.Customization,
		})
		lines = append(lines, cart.Line{
			ProductID: item.ProductID,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}

	subtotal := pricing.Quote(lines, 0).Subtotal

	// Re-validate and redeem the coupon. The redemption is the atomic
	// check-and-increment; validation alone never touches the usage count.
	// A coupon that fails a business rule does not fail the order: it is
	// simply not applied, as on the original checkout.
	var discount float64
	var appliedCoupon string
	if req.CouponCode != "" {
		result, err := s.validator.Validate(ctx, req.CouponCode, subtotal)
		switch {
		case err == nil:
			// Redemption can still lose a race for the last use; the
			// order then goes through without the discount.
			if redeemErr := s.validator.Redeem(ctx, result.Deal.Code); redeemErr == nil {
				discount = result.Discount
				appliedCoupon = result.Deal.Code
			} else if !isCouponRejection(redeemErr) {
				return nil, redeemErr
			}
		case isCouponRejection(err):
			// Not applied.
		default:
			return nil, err
		}
	}

	breakdown := pricing.Quote(lines, discount)

	var address *models.Address
	if req.OrderType == models.OrderTypeDelivery {
		address = req.DeliveryAddress
	}

	// Orders are confirmed and paid immediately: payment is mocked.
	order := &models.Order{
		Number:          uuid.New().String(),
		UserID:          uid,
		Items:           items,
		OrderType:       req.OrderType,
		DeliveryAddress: address,
		Subtotal:        breakdown.Subtotal,
		Tax:             breakdown.Tax,
		Discount:        breakdown.Discount,
		Total:           breakdown.Total,
		Status:          models.StatusConfirmed,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentCompleted,
		CouponCode:      strings.ToUpper(appliedCoupon),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if appliedCoupon != "" {
			if relErr := s.validator.Release(ctx, appliedCoupon); relErr != nil {
				s.log.Error("failed to release coupon after insert failure",
					"coupon", appliedCoupon, "error", relErr)
			}
		}
		return nil, err
	}

	return order, nil
}

// isCouponRejection reports whether the error is a business-rule rejection
// rather than an infrastructure failure.
func isCouponRejection(err error) bool {
	var minOrderErr *deals.MinOrderError
	return errors.Is(err, deals.ErrNotFound) ||
		errors.Is(err, deals.ErrUsageLimitReached) ||
		errors.As(err, &minOrderErr)
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUser
	}
	return s.orderRepo.ListByUser(ctx, uid, 0)
}

// GetOrder returns one of the user's orders by ID.
func (s *OrderService) GetOrder(ctx context.Context, id, userID string) (*models.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUser
	}
	return s.orderRepo.GetByIDForUser(ctx, id, uid)
}
