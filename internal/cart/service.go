package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backend/internal/catalog"
	"backend/internal/store"
)

var (
	// ErrEmptyCart is returned by checkout paths that need at least one
	// line item.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIndexOutOfRange is returned when a spoken item number does not
	// refer to an existing line item.
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Repository is the slice of the user-record store the cart flow needs.
type Repository interface {
	GetCart(ctx context.Context, userID string) (store.Cart, error)
	SaveCart(ctx context.Context, userID string, cart store.Cart) error
	SaveOrder(ctx context.Context, userID string, order store.Order) error
}

// AlertPublisher notifies the user about a confirmed order. Publishing
// is best-effort; the checkout flow never fails on it.
type AlertPublisher interface {
	PublishOrder(ctx context.Context, userID string, order store.Order) error
}

// Service owns every cart mutation and the checkout flow. All state
// beyond the voice session lives in the repository; the service itself
// is stateless and safe to reuse across invocations.
type Service struct {
	repo   Repository
	alerts AlertPublisher
	logger *zap.Logger
}

func NewService(repo Repository, alerts AlertPublisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, alerts: alerts, logger: logger}
}

// AddToCart appends the product unless a line item with the same URL
// already exists. Returns the resulting cart and whether the product
// was actually added.
func (s *Service) AddToCart(ctx context.Context, userID string, product catalog.Product) (store.Cart, bool, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return store.Cart{}, false, err
	}

	if cart.Contains(product.URL) {
		s.logger.Info("product already in cart",
			zap.String("userId", userID), zap.String("product", product.Name))
		return cart, false, nil
	}

	cart.Items = append(cart.Items, product)
	cart.Recalculate()

	if err := s.repo.SaveCart(ctx, userID, cart); err != nil {
		return store.Cart{}, false, err
	}
	return cart, true, nil
}

// RemoveFromCart drops the line item at index (0-based, validated
// against the cart length, not the last search). Returns the removed
// product.
func (s *Service) RemoveFromCart(ctx context.Context, userID string, index int) (store.Cart, catalog.Product, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return store.Cart{}, catalog.Product{}, err
	}
	if index < 0 || index >= len(cart.Items) {
		return cart, catalog.Product{}, ErrIndexOutOfRange
	}

	removed := cart.Items[index]
	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	cart.Recalculate()

	if err := s.repo.SaveCart(ctx, userID, cart); err != nil {
		return store.Cart{}, catalog.Product{}, err
	}
	return cart, removed, nil
}

// ViewCart is read-only.
func (s *Service) ViewCart(ctx context.Context, userID string) (store.Cart, error) {
	return s.repo.GetCart(ctx, userID)
}

// ClearCart resets the cart unconditionally.
func (s *Service) ClearCart(ctx context.Context, userID string) (store.Cart, error) {
	cart := store.Cart{Items: nil, Total: 0}
	if err := s.repo.SaveCart(ctx, userID, cart); err != nil {
		return store.Cart{}, err
	}
	return cart, nil
}

// Checkout is the confirmation gate: it validates the cart is non-empty
// and returns it for the spoken summary. No order exists yet; the
// caller marks the session as pending confirmation.
func (s *Service) Checkout(ctx context.Context, userID string) (store.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return store.Cart{}, err
	}
	if len(cart.Items) == 0 {
		return cart, ErrEmptyCart
	}
	return cart, nil
}

// ConfirmPurchase turns the current cart into an order. The cart is
// re-read here: it may have been cleared between checkout and confirm,
// in which case no order is created and ErrEmptyCart is returned.
func (s *Service) ConfirmPurchase(ctx context.Context, userID string) (store.Order, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return store.Order{}, err
	}
	if len(cart.Items) == 0 {
		return store.Order{}, ErrEmptyCart
	}

	order := newOrder(userID, cart)
	if err := s.repo.SaveOrder(ctx, userID, order); err != nil {
		return store.Order{}, err
	}

	// Clearing the cart after the order write is best-effort in the
	// same way the record itself is last-writer-wins.
	if _, err := s.ClearCart(ctx, userID); err != nil {
		s.logger.Warn("cart clear after order failed",
			zap.String("userId", userID), zap.String("orderId", order.OrderID), zap.Error(err))
	}

	if s.alerts != nil {
		if err := s.alerts.PublishOrder(ctx, userID, order); err != nil {
			s.logger.Warn("order alert publish failed",
				zap.String("orderId", order.OrderID), zap.Error(err))
		}
	}

	s.logger.Info("order confirmed",
		zap.String("userId", userID),
		zap.String("orderId", order.OrderID),
		zap.Float64("total", order.Total))
	return order, nil
}

func newOrder(userID string, cart store.Cart) store.Order {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	items := make([]catalog.Product, len(cart.Items))
	copy(items, cart.Items)

	return store.Order{
		OrderID:           id,
		UserID:            userID,
		Items:             items,
		Total:             cart.Total,
		Status:            "pending",
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		TrackingNumber:    fmt.Sprintf("AIPRO-%s", id),
		EstimatedDelivery: "3-5 business days",
	}
}
