package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-backend/internal/cache"
	"tienda-backend/internal/dto"
	"tienda-backend/internal/model"
)

func validForm() dto.CustomerForm {
	return dto.CustomerForm{
		FirstName:    "Juan",
		LastName:     "Pérez",
		DNI:          "12345678",
		Email:        "juan@example.com",
		Phone:        "+54 11 4567-8901",
		Street:       "Av. Corrientes",
		StreetNumber: "1234",
		ZipCode:      "1406",
	}
}

type checkoutFixture struct {
	service   *CheckoutService
	carts     *fakeCartRepo
	customers *fakeCustomerRepo
	orders    *fakeOrderRepo
	gateway   *fakeGateway
	publisher *fakePublisher
	cartID    string
}

// newCheckoutFixture deja un carrito activo con dos líneas, listo para
// arrancar el flujo de compra.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	carts := newFakeCartRepo()
	customers := newFakeCustomerRepo()
	orders := newFakeOrderRepo()
	gateway := &fakeGateway{}
	publisher := &fakePublisher{}

	cart := &model.Cart{
		ID:     "cart_1700000000000_abc1234",
		Status: model.CartStatusActive,
		Items: []model.CartItem{
			{
				ProductID:       "prod-1",
				Quantity:        2,
				AddedAt:         time.Now(),
				PriceAtPurchase: 1500.50,
				Product:         model.ProductSnapshot{Name: "Auriculares", Slug: "auriculares"},
			},
			{
				ProductID:       "prod-2",
				Quantity:        1,
				AddedAt:         time.Now(),
				PriceAtPurchase: 999,
				Product:         model.ProductSnapshot{Name: "Teclado", Slug: "teclado"},
			},
		},
	}
	require.NoError(t, carts.Save(context.Background(), cart))

	recorder := NewOrderService(orders, customers, publisher)
	service := NewCheckoutService(
		carts, customers, orders, recorder, gateway,
		cache.New(time.Minute),
		"https://tienda.test", "Tienda Test",
	)

	return &checkoutFixture{
		service:   service,
		carts:     carts,
		customers: customers,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		cartID:    cart.ID,
	}
}

func TestValidateCustomerForm(t *testing.T) {
	assert.Empty(t, ValidateCustomerForm(validForm()))

	t.Run("campos obligatorios", func(t *testing.T) {
		errs := ValidateCustomerForm(dto.CustomerForm{})
		for _, field := range []string{"firstName", "lastName", "dni", "email", "phone", "street", "streetNumber", "zipCode"} {
			assert.Contains(t, errs, field)
		}
	})

	t.Run("dni", func(t *testing.T) {
		form := validForm()
		form.DNI = "1234567"
		assert.NotContains(t, ValidateCustomerForm(form), "dni")

		form.DNI = "12"
		assert.Contains(t, ValidateCustomerForm(form), "dni")

		form.DNI = "123456789"
		assert.Contains(t, ValidateCustomerForm(form), "dni")
	})

	t.Run("email", func(t *testing.T) {
		form := validForm()
		form.Email = "a@b.com"
		assert.NotContains(t, ValidateCustomerForm(form), "email")

		form.Email = "abc"
		assert.Contains(t, ValidateCustomerForm(form), "email")
	})

	t.Run("codigo postal", func(t *testing.T) {
		form := validForm()
		form.ZipCode = "1406"
		assert.NotContains(t, ValidateCustomerForm(form), "zipCode")

		form.ZipCode = "140"
		assert.Contains(t, ValidateCustomerForm(form), "zipCode")
	})

	t.Run("telefono", func(t *testing.T) {
		form := validForm()
		form.Phone = "1145678901"
		assert.NotContains(t, ValidateCustomerForm(form), "phone")

		form.Phone = "123"
		assert.Contains(t, ValidateCustomerForm(form), "phone")
	})
}

func TestSubmitCustomerInfo(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	session, fieldErrs, err := fx.service.SubmitCustomerInfo(ctx, fx.cartID, validForm())
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, StepPayment, session.Step)
	assert.Equal(t, "pref_123", session.PreferenceID)
	assert.Equal(t, "https://mercadopago.test/init/pref_123", session.InitPoint)
	require.NotEmpty(t, session.OrderID)

	order, err := fx.orders.FindByID(ctx, session.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRegistered, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	// 2×1500.50 + 1×999 = 4000.00
	assert.Equal(t, 4000.0, order.TotalAmount)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, "Orden registrada", order.StatusHistory[0].Note)

	customer, err := fx.customers.FindByID(ctx, session.CustomerID)
	require.NoError(t, err)
	assert.Contains(t, customer.OrderIDs, session.OrderID)

	// La preferencia lleva el ID de la orden como referencia externa
	require.NotNil(t, fx.gateway.lastPreference)
	assert.Equal(t, session.OrderID, fx.gateway.lastPreference.ExternalReference)
	assert.Len(t, fx.gateway.lastPreference.Items, 2)
}

func TestSubmitCustomerInfoInvalido(t *testing.T) {
	fx := newCheckoutFixture(t)

	form := validForm()
	form.DNI = "12"
	session, fieldErrs, err := fx.service.SubmitCustomerInfo(context.Background(), fx.cartID, form)
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "dni")

	// Un formulario inválido no genera ningún efecto
	assert.Equal(t, StepCustomerInfo, session.Step)
	assert.Empty(t, fx.orders.orders)
	assert.Empty(t, fx.customers.customers)
}

func TestSubmitCustomerInfoCarritoVacio(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	cart, err := fx.carts.FindByID(ctx, fx.cartID)
	require.NoError(t, err)
	cart.Items = []model.CartItem{}
	require.NoError(t, fx.carts.Save(ctx, cart))

	session, _, err := fx.service.SubmitCustomerInfo(ctx, fx.cartID, validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
	require.NotNil(t, session.Err)
	assert.Equal(t, StepCustomerInfo, session.Err.Step)
}

func TestUpsertCustomerPorEmail(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	first, err := fx.service.upsertCustomer(ctx, validForm())
	require.NoError(t, err)

	form := validForm()
	form.Phone = "+54 11 9999-0000"
	second, err := fx.service.upsertCustomer(ctx, form)
	require.NoError(t, err)

	assert.Equal(t, first, second, "mismo email, mismo cliente")
	assert.Len(t, fx.customers.customers, 1)

	customer, err := fx.customers.FindByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "+54 11 9999-0000", customer.Phone)
}

func TestCreateOrderCompensaVinculoFallido(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	customerID, err := fx.service.upsertCustomer(ctx, validForm())
	require.NoError(t, err)

	fx.customers.addFails = true
	cart, err := fx.carts.FindByID(ctx, fx.cartID)
	require.NoError(t, err)

	_, err = fx.service.createOrder(ctx, customerID, cart)
	require.Error(t, err)
	assert.Empty(t, fx.orders.orders, "la orden huérfana se borra como compensación")
}

func TestHandlePaymentResultApproved(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	session, _, err := fx.service.SubmitCustomerInfo(ctx, fx.cartID, validForm())
	require.NoError(t, err)
	orderID := session.OrderID

	session, err = fx.service.HandlePaymentResult(ctx, fx.cartID, "pay_777", model.PaymentApproved)
	require.NoError(t, err)

	assert.Equal(t, StepConfirmation, session.Step)
	assert.Nil(t, session.Err)

	order, err := fx.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaymentConfirmed, order.Status)
	assert.Equal(t, model.PaymentApproved, order.PaymentStatus)
	assert.Equal(t, "pay_777", order.PaymentID)
	require.Len(t, order.StatusHistory, 2)
	assert.Contains(t, order.StatusHistory[1].Note, "pay_777")

	cart, err := fx.carts.FindByID(ctx, fx.cartID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "el pago aprobado vacía el carrito")
}

func TestHandlePaymentResultRejected(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	session, _, err := fx.service.SubmitCustomerInfo(ctx, fx.cartID, validForm())
	require.NoError(t, err)
	orderID := session.OrderID

	session, err = fx.service.HandlePaymentResult(ctx, fx.cartID, "pay_778", model.PaymentRejected)
	require.NoError(t, err)

	// El comprador puede reintentar: sigue en payment, con aviso
	assert.Equal(t, StepPayment, session.Step)
	require.NotNil(t, session.Err)
	assert.Equal(t, StepPayment, session.Err.Step)

	order, err := fx.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRegistered, order.Status)
	assert.Equal(t, model.PaymentRejected, order.PaymentStatus)

	cart, err := fx.carts.FindByID(ctx, fx.cartID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2, "el carrito queda intacto")
}

func TestHandlePaymentResultPending(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	_, _, err := fx.service.SubmitCustomerInfo(ctx, fx.cartID, validForm())
	require.NoError(t, err)

	session, err := fx.service.HandlePaymentResult(ctx, fx.cartID, "pay_779", model.PaymentPending)
	require.NoError(t, err)

	assert.Equal(t, StepPayment, session.Step)
	require.NotNil(t, session.Err)
	assert.Contains(t, session.Err.Message, "pendiente")
}

func TestHandlePaymentResultFueraDePaso(t *testing.T) {
	fx := newCheckoutFixture(t)

	_, err := fx.service.HandlePaymentResult(context.Background(), fx.cartID, "pay_1", model.PaymentApproved)
	assert.ErrorIs(t, err, ErrCheckoutState)
}

func TestReset(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	_, _, err := fx.service.SubmitCustomerInfo(ctx, fx.cartID, validForm())
	require.NoError(t, err)

	session := fx.service.Reset(fx.cartID)
	assert.Equal(t, StepCustomerInfo, session.Step)
	assert.Empty(t, session.OrderID)
	assert.Nil(t, session.Err)

	assert.Equal(t, StepCustomerInfo, fx.service.Session(fx.cartID).Step)
}

func TestFormatPhone(t *testing.T) {
	// 10 dígitos: área de 2
	phone := formatPhone("1145678901")
	assert.Equal(t, "11", phone.AreaCode)
	assert.Equal(t, "45678901", phone.Number)

	// 11 dígitos: área de 3
	phone = formatPhone("+54 351 456-7890")
	assert.Equal(t, "543", phone.AreaCode)
	assert.Equal(t, "514567890", phone.Number)
}
