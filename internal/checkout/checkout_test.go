package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"styleshop/internal/models"
)

type MockPlacer struct {
	mock.Mock
}

func (m *MockPlacer) PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

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

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress(validAddress()))

	a := validAddress()
	a.City = "  "
	a.Phone = "12345"
	a.PostalCode = "5600"
	err := ValidateAddress(a)
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "City is required", fe["city"])
	assert.Equal(t, "Phone must have at least 10 digits", fe["phone"])
	assert.Equal(t, "Postal code must be 6 characters", fe["postalCode"])
	assert.Len(t, fe, 3)

	err = ValidateAddress(models.ShippingAddress{})
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 7)
	assert.Equal(t, "Phone is required", fe["phone"])
}

func TestValidateAddress_CountsCharacters(t *testing.T) {
	a := validAddress()
	a.PostalCode = "५६०००१"
	assert.NoError(t, ValidateAddress(a))

	a.PostalCode = "५६०"
	a.Phone = "९८७६५"
	var fe FieldErrors
	require.True(t, errors.As(ValidateAddress(a), &fe))
	assert.Contains(t, fe, "phone")
	assert.Contains(t, fe, "postalCode")
}

func TestPaymentOptionLabel(t *testing.T) {
	label, ok := PaymentCard.Label()
	assert.True(t, ok)
	assert.Equal(t, "Credit Card (Mock)", label)

	label, ok = PaymentCOD.Label()
	assert.True(t, ok)
	assert.Equal(t, "Cash on Delivery", label)

	_, ok = PaymentOption("cheque").Label()
	assert.False(t, ok)
}

func TestStart_Guards(t *testing.T) {
	_, err := Start(false, 2)
	assert.ErrorIs(t, err, ErrSignInRequired)

	_, err = Start(true, 0)
	assert.ErrorIs(t, err, ErrEmptyCart)

	f, err := Start(true, 1)
	require.NoError(t, err)
	assert.Equal(t, ShippingForm, f.State())
}

func TestFlow_InvalidShippingStaysOnShipping(t *testing.T) {
	f, _ := Start(true, 1)
	a := validAddress()
	a.PostalCode = "1"

	err := f.SubmitShipping(a)

	assert.Error(t, err)
	assert.Equal(t, ShippingForm, f.State())
	assert.Contains(t, f.FieldErrors(), "postalCode")
	assert.Equal(t, a, f.Address())
}

func TestFlow_EditKeepsAddress(t *testing.T) {
	f, _ := Start(true, 1)
	require.NoError(t, f.SubmitShipping(validAddress()))
	assert.Equal(t, PaymentForm, f.State())

	require.NoError(t, f.Edit())
	assert.Equal(t, ShippingForm, f.State())
	assert.Equal(t, validAddress(), f.Address())

	assert.ErrorIs(t, f.Edit(), ErrWrongState)
}

func TestFlow_PlaceOrderSuccess(t *testing.T) {
	ctx := context.Background()
	placer := new(MockPlacer)
	order := &models.Order{ID: "o-1", OrderNumber: "ORD-20260101-ABCDEF12", Total: 1180}
	placer.On("PlaceOrder", ctx, OrderRequest{ShippingAddress: validAddress(), PaymentMethod: PaymentUPI}).Return(order, nil).Once()

	f, _ := Start(true, 1)
	require.NoError(t, f.SubmitShipping(validAddress()))

	got, err := f.PlaceOrder(ctx, placer, PaymentUPI)

	require.NoError(t, err)
	assert.Equal(t, order, got)
	assert.Equal(t, Confirmed, f.State())
	assert.Equal(t, "ORD-20260101-ABCDEF12", f.Order().OrderNumber)
	placer.AssertExpectations(t)

	// Confirmed is terminal.
	assert.ErrorIs(t, f.Edit(), ErrWrongState)
	_, err = f.PlaceOrder(ctx, placer, PaymentUPI)
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestFlow_PlaceOrderFailureStaysOnPayment(t *testing.T) {
	ctx := context.Background()
	placer := new(MockPlacer)
	placer.On("PlaceOrder", ctx, mock.Anything).Return(nil, errors.New("network down")).Once()

	f, _ := Start(true, 1)
	require.NoError(t, f.SubmitShipping(validAddress()))

	_, err := f.PlaceOrder(ctx, placer, PaymentCard)

	assert.EqualError(t, err, "network down")
	assert.Equal(t, PaymentForm, f.State())
	assert.EqualError(t, f.Err(), "network down")
	assert.Nil(t, f.Order())
	placer.AssertExpectations(t)
}

func TestFlow_PlaceOrderRequiresPaymentStep(t *testing.T) {
	f, _ := Start(true, 1)
	_, err := f.PlaceOrder(context.Background(), new(MockPlacer), PaymentCard)
	assert.ErrorIs(t, err, ErrWrongState)
}
