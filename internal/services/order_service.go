package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"styleshop/internal/apperror"
	"styleshop/internal/cart"
	"styleshop/internal/checkout"
	"styleshop/internal/identity"
	"styleshop/internal/models"
	"styleshop/internal/pricing"
	"styleshop/internal/repositories"
	"styleshop/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxOrderNumberAttempts = 3

// OrderEventPublisher announces committed orders.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt rabbitmq.OrderPlacedEvent) error
}

// OrderNumber formats a human-facing order reference: ORD-<date>-<8 hex>.
func OrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders     repositories.OrderRepository
	events     OrderEventPublisher
	nextNumber func() string
	log        logrus.FieldLogger
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(orders repositories.OrderRepository, events OrderEventPublisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		orders:     orders,
		events:     events,
		nextNumber: func() string { return OrderNumber(time.Now()) },
		log:        log,
	}
}

// Checkout turns the user's cart into an order. The order insert and the
// cart reset commit together; the order.placed event is sent afterwards.
func (s *OrderService) Checkout(ctx context.Context, who identity.Identity, addr models.ShippingAddress, payment checkout.PaymentOption) (*models.Order, error) {
	if err := checkout.ValidateAddress(addr); err != nil {
		return nil, apperror.Validation("Invalid shipping address: " + err.Error())
	}
	label, ok := payment.Label()
	if !ok {
		return nil, apperror.Validation("Payment method must be one of card, upi, cod")
	}
	addr = trimAddress(addr)

	var (
		order *models.Order
		err   error
	)
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order, err = s.orders.PlaceOrder(ctx, who.UserID, s.builder(who.UserID, s.nextNumber(), addr, label))
		if err == nil || !errors.Is(err, repositories.ErrDuplicate) {
			break
		}
		s.log.WithField("attempt", attempt).Warn("order number collision, retrying")
	}
	if err != nil {
		if errors.Is(err, repositories.ErrCartEmpty) {
			return nil, apperror.Validation("Cart is empty")
		}
		return nil, apperror.Internal("failed to place order", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"user_id":      who.UserID,
		"total":        order.Total,
	}).Info("order placed")
	s.publish(ctx, who, order)
	return order, nil
}

func (s *OrderService) builder(userID, number string, addr models.ShippingAddress, payment string) repositories.OrderBuilder {
	return func(items []models.CartItem) (*models.Order, error) {
		quote := pricing.Quote(cart.Lines(items).Subtotal())
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			orderItems = append(orderItems, models.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				Image:     it.Image,
				Size:      it.Size,
				Color:     it.Color,
				Quantity:  it.Quantity,
			})
		}
		return &models.Order{
			ID:              uuid.New().String(),
			UserID:          userID,
			OrderNumber:     number,
			Items:           orderItems,
			Subtotal:        pricing.Float(quote.Subtotal),
			Tax:             pricing.Float(quote.Tax),
			Total:           pricing.Float(quote.Total),
			Status:          models.OrderStatusProcessing,
			ShippingAddress: addr,
			PaymentMethod:   payment,
		}, nil
	}
}

func (s *OrderService) publish(ctx context.Context, who identity.Identity, order *models.Order) {
	if s.events == nil {
		return
	}
	units := 0
	for _, it := range order.Items {
		units += it.Quantity
	}
	evt := rabbitmq.OrderPlacedEvent{
		Event:       "order.placed",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       who.Email,
		Name:        who.Name,
		Items:       units,
		Total:       order.Total,
		Payment:     order.PaymentMethod,
		PlacedAt:    order.CreatedAt,
	}
	if err := s.events.PublishOrderPlaced(ctx, evt); err != nil {
		s.log.WithError(err).WithField("order_number", order.OrderNumber).Warn("failed to publish order event")
	}
}

func trimAddress(a models.ShippingAddress) models.ShippingAddress {
	return models.ShippingAddress{
		FirstName:     strings.TrimSpace(a.FirstName),
		LastName:      strings.TrimSpace(a.LastName),
		Phone:         strings.TrimSpace(a.Phone),
		StreetAddress: strings.TrimSpace(a.StreetAddress),
		City:          strings.TrimSpace(a.City),
		State:         strings.TrimSpace(a.State),
		PostalCode:    strings.TrimSpace(a.PostalCode),
	}
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list orders", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list orders", err)
	}
	return orders, nil
}

// Get resolves ref as an order id or order number. Orders of other users
// are reported as missing.
func (s *OrderService) Get(ctx context.Context, userID, ref string) (*models.Order, error) {
	order, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperror.NotFound("Order not found")
	}
	return order, nil
}

func (s *OrderService) lookup(ctx context.Context, ref string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, ref)
	if errors.Is(err, repositories.ErrNotFound) {
		order, err = s.orders.GetByNumber(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Internal("failed to load order", err)
	}
	return order, nil
}

// Cancel cancels the user's own order while it has not shipped.
func (s *OrderService) Cancel(ctx context.Context, userID, ref string) (*models.Order, error) {
	order, err := s.Get(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, models.OrderStatusCancelled) {
		return nil, apperror.Conflict(fmt.Sprintf("Order in status %q can no longer be cancelled", order.Status))
	}
	return s.setStatus(ctx, order, models.OrderStatusCancelled)
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, ref, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperror.Validation(fmt.Sprintf("invalid order status: %s", status))
	}
	order, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, status) {
		return nil, apperror.Conflict(fmt.Sprintf("Order cannot move from %q to %q", order.Status, status))
	}
	return s.setStatus(ctx, order, status)
}

func (s *OrderService) setStatus(ctx context.Context, order *models.Order, status string) (*models.Order, error) {
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Internal("failed to update order status", err)
	}
	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"from":         order.Status,
		"to":           status,
	}).Info("order status changed")
	order.Status = status
	return order, nil
}
