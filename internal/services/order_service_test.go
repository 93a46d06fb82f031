package services_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"styleshop/internal/apperror"
	"styleshop/internal/checkout"
	"styleshop/internal/identity"
	"styleshop/internal/logging"
	"styleshop/internal/models"
	"styleshop/internal/repositories"
	"styleshop/internal/services"
	"styleshop/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var shopper = identity.Identity{UserID: "user-1", Email: "asha@example.com", Name: "Asha"}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName:     "Asha",
		LastName:      "Rao",
		Phone:         "9876543210",
		StreetAddress: "12 MG Road",
		City:          "Bengaluru",
		State:         "KA",
		PostalCode:    "560001",
	}
}

func TestOrderNumberFormat(t *testing.T) {
	n := services.OrderNumber(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^ORD-20260309-[0-9A-F]{8}$`), n)
	assert.NotEqual(t, n, services.OrderNumber(time.Now()))
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	events := new(MockPublisher)
	svc := services.NewOrderService(orders, events, logging.Discard())

	lines := []models.CartItem{
		{ProductID: "p1", Name: "Tee", Price: 400, Size: "M", Color: "Red", Quantity: 2},
		{ProductID: "p2", Name: "Cap", Price: 200, Quantity: 1},
	}
	orders.On("PlaceOrder", ctx, "user-1", mock.Anything).Return(lines, nil).Once()
	events.On("PublishOrderPlaced", ctx, mock.MatchedBy(func(evt rabbitmq.OrderPlacedEvent) bool {
		return evt.Event == "order.placed" && evt.Email == "asha@example.com" && evt.Items == 3 && evt.Total == 1180
	})).Return(nil).Once()

	order, err := svc.Checkout(ctx, shopper, validAddress(), checkout.PaymentUPI)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, order.Subtotal)
	assert.Equal(t, 180.0, order.Tax)
	assert.Equal(t, 1180.0, order.Total)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "UPI (Mock)", order.PaymentMethod)
	assert.Len(t, order.Items, 2)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, order.OrderNumber)

	orders.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestOrderService_CheckoutRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, nil, logging.Discard())

	addr := validAddress()
	addr.PostalCode = "123"
	_, err := svc.Checkout(ctx, shopper, addr, checkout.PaymentCard)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "Postal code")

	_, err = svc.Checkout(ctx, shopper, validAddress(), checkout.PaymentOption("bitcoin"))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	orders.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	events := new(MockPublisher)
	svc := services.NewOrderService(orders, events, logging.Discard())

	orders.On("PlaceOrder", ctx, "user-1", mock.Anything).Return(nil, repositories.ErrCartEmpty).Once()

	_, err := svc.Checkout(ctx, shopper, validAddress(), checkout.PaymentCOD)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	events.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

func TestOrderService_CheckoutRetriesOrderNumberCollisions(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, nil, logging.Discard())

	dup := fmt.Errorf("insert order: %w", repositories.ErrDuplicate)
	orders.On("PlaceOrder", ctx, "user-1", mock.Anything).Return(nil, dup).Twice()
	orders.On("PlaceOrder", ctx, "user-1", mock.Anything).Return([]models.CartItem{{ProductID: "p1", Price: 10, Quantity: 1}}, nil).Once()

	order, err := svc.Checkout(ctx, shopper, validAddress(), checkout.PaymentCard)
	require.NoError(t, err)
	assert.Equal(t, "Credit Card (Mock)", order.PaymentMethod)
	orders.AssertNumberOfCalls(t, "PlaceOrder", 3)
}

func TestOrderService_CheckoutGivesUpAfterThreeCollisions(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, nil, logging.Discard())

	orders.On("PlaceOrder", ctx, "user-1", mock.Anything).Return(nil, repositories.ErrDuplicate)

	_, err := svc.Checkout(ctx, shopper, validAddress(), checkout.PaymentCard)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	orders.AssertNumberOfCalls(t, "PlaceOrder", 3)
}

func TestOrderService_PublishFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	events := new(MockPublisher)
	svc := services.NewOrderService(orders, events, logging.Discard())

	orders.On("PlaceOrder", ctx, "user-1", mock.Anything).Return([]models.CartItem{{ProductID: "p1", Price: 10, Quantity: 1}}, nil).Once()
	events.On("PublishOrderPlaced", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	order, err := svc.Checkout(ctx, shopper, validAddress(), checkout.PaymentCard)
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	events.AssertExpectations(t)
}

func TestOrderService_GetOwnOrdersOnly(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, nil, logging.Discard())

	mine := &models.Order{ID: "o1", UserID: "user-1", OrderNumber: "ORD-20260101-AAAAAAAA"}
	orders.On("GetByID", ctx, "o1").Return(mine, nil)
	orders.On("GetByID", ctx, "ORD-20260101-AAAAAAAA").Return(nil, notFoundErr("order"))
	orders.On("GetByNumber", ctx, "ORD-20260101-AAAAAAAA").Return(mine, nil)

	got, err := svc.Get(ctx, "user-1", "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", got.ID)

	got, err = svc.Get(ctx, "user-1", "ORD-20260101-AAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, "o1", got.ID)

	_, err = svc.Get(ctx, "user-2", "o1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	orders.On("GetByID", ctx, "missing").Return(nil, notFoundErr("order"))
	orders.On("GetByNumber", ctx, "missing").Return(nil, notFoundErr("order"))
	_, err = svc.Get(ctx, "user-1", "missing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, nil, logging.Discard())

	orders.On("GetByID", ctx, "o1").Return(&models.Order{ID: "o1", UserID: "user-1", Status: models.OrderStatusProcessing}, nil).Once()
	orders.On("UpdateStatus", ctx, "o1", models.OrderStatusCancelled).Return(nil).Once()
	order, err := svc.Cancel(ctx, "user-1", "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	orders.On("GetByID", ctx, "o2").Return(&models.Order{ID: "o2", UserID: "user-1", Status: models.OrderStatusInTransit}, nil).Once()
	_, err = svc.Cancel(ctx, "user-1", "o2")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	orders.AssertExpectations(t)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewOrderService(orders, nil, logging.Discard())

	_, err := svc.UpdateStatus(ctx, "o1", "shipped")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	orders.On("GetByID", ctx, "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusProcessing}, nil).Once()
	orders.On("UpdateStatus", ctx, "o1", models.OrderStatusInTransit).Return(nil).Once()
	order, err := svc.UpdateStatus(ctx, "o1", models.OrderStatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInTransit, order.Status)

	orders.On("GetByID", ctx, "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusDelivered}, nil).Once()
	_, err = svc.UpdateStatus(ctx, "o1", models.OrderStatusProcessing)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	orders.AssertExpectations(t)
}
