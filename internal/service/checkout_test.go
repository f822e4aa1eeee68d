package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

const testReturnURL = "https://shop.example/orders"

type checkoutFixture struct {
	*cartFixture
	api *mockCheckoutAPI
	svc *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	cf := newCartFixture()
	api := &mockCheckoutAPI{}
	svc := NewCheckoutService(api, cf.svc, cf.sessions, cf.events, testLogger(), testReturnURL)
	return &checkoutFixture{cartFixture: cf, api: api, svc: svc}
}

func validAddress() CheckoutInput {
	return CheckoutInput{
		Details: "12 Nile St, Apt 4",
		Phone:   "01012345678",
		City:    "Cairo",
	}
}

func TestCheckoutCreatesPaymentSession(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	f.cartFixture.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(line("line-1", "prod-42", 2)), nil)
	f.api.On("CreateCheckoutSession", mock.Anything, "tok-abc", "cart-1", testReturnURL,
		domain.Address{Details: "12 Nile St, Apt 4", Phone: "01012345678", City: "Cairo"}).
		Return(&domain.CheckoutSession{PaymentURL: "https://pay.example/s/1"}, nil).Once()

	payment, err := f.svc.Checkout(ctx, f.sess, validAddress())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/1", payment.PaymentURL)
	assert.Contains(t, f.events.recorded(), "checkout.initiated")
}

func TestCheckoutRejectsInvalidPhone(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	for _, phone := range []string{"", "0123", "01912345678", "1012345678", "010123456789"} {
		input := validAddress()
		input.Phone = phone

		_, err := f.svc.Checkout(ctx, f.sess, input)
		require.Error(t, err, "phone %q must be rejected", phone)
	}

	f.api.AssertNotCalled(t, "CreateCheckoutSession",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutRejectsMissingFields(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Checkout(context.Background(), f.sess, CheckoutInput{Phone: "01012345678"})
	require.Error(t, err)

	var verr *validator.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := verr.Fields()
	assert.Contains(t, fields, "Details")
	assert.Contains(t, fields, "City")
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	f.cartFixture.api.On("GetCart", mock.Anything, "tok-abc").Return(cartWith(), nil)

	_, err := f.svc.Checkout(ctx, f.sess, validAddress())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	f.api.AssertNotCalled(t, "CreateCheckoutSession",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrdersWithKnownOwner(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	require.NoError(t, f.sessions.SetCartOwner(ctx, f.sess.ID, "owner-9"))
	sess, err := f.sessions.Get(ctx, f.sess.ID)
	require.NoError(t, err)

	f.api.On("ListOrders", mock.Anything, "owner-9").
		Return([]domain.Order{{ID: "ord-1", OrderNumber: 1042}}, nil).Once()

	orders, err := f.svc.Orders(ctx, sess)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1042, orders[0].OrderNumber)

	// Owner was known, so no cart read happened.
	f.cartFixture.api.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
}

func TestOrdersCapturesOwnerViaCartRead(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	// Session starts without an owner; Orders must force one cart read.
	f.cartFixture.api.On("GetCart", mock.Anything, "tok-abc").
		Return(cartWith(), nil).Once()
	f.api.On("ListOrders", mock.Anything, "owner-9").
		Return([]domain.Order{}, nil).Once()

	orders, err := f.svc.Orders(ctx, f.sess)
	require.NoError(t, err)
	assert.Empty(t, orders)

	f.cartFixture.api.AssertExpectations(t)
	f.api.AssertExpectations(t)
}

func TestOrdersFailsWhenOwnerUnresolvable(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	// Cart read succeeds but carries no owner.
	empty := cartWith()
	empty.OwnerID = ""
	f.cartFixture.api.On("GetCart", mock.Anything, "tok-abc").Return(empty, nil).Once()

	_, err := f.svc.Orders(ctx, f.sess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
