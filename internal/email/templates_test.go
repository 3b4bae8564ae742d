package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-backend/internal/model"
)

func TestStatusMessage(t *testing.T) {
	title, _ := StatusMessage(model.StatusDispatched)
	assert.Equal(t, "¡Tu pedido está en camino!", title)

	title, message := StatusMessage(model.StatusPaymentConfirmed)
	assert.Equal(t, "¡Tu pago ha sido confirmado!", title)
	assert.Contains(t, message, "Gracias por tu compra")

	// Estados sin copy propio caen en el genérico
	title, _ = StatusMessage(model.StatusRegistered)
	assert.Equal(t, "Actualización de tu pedido", title)
	title, _ = StatusMessage(model.StatusCancelled)
	assert.Equal(t, "Actualización de tu pedido", title)
}

func TestComposeOrderStatus(t *testing.T) {
	order := &model.Order{
		ID:     "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		Status: model.StatusDelivered,
		Items: []model.OrderItem{
			{ProductID: "p1", Quantity: 2, PriceAtPurchase: 1500.50},
			{ProductID: "p2", Quantity: 1, PriceAtPurchase: 999},
		},
		TotalAmount: 4000,
	}
	customer := &model.Customer{FirstName: "Ana", Email: "ana@example.com"}

	subject, html, err := ComposeOrderStatus(order, customer)
	require.NoError(t, err)

	// El asunto lleva solo los primeros 8 caracteres del ID
	assert.Equal(t, "Actualización de tu orden #a1b2c3d4", subject)

	assert.Contains(t, html, "¡Tu pedido ha sido entregado!")
	assert.Contains(t, html, "Hola Ana,")
	assert.Contains(t, html, order.ID)
	assert.Contains(t, html, "2x - $ 3.001,00")
	assert.Contains(t, html, "1x - $ 999,00")
	assert.Contains(t, html, "Total: $ 4.000,00")
}
