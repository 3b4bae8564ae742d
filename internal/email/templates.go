package email

import (
	"fmt"
	"html/template"
	"strings"

	"tienda-backend/internal/cartutil"
	"tienda-backend/internal/model"
)

type statusCopy struct {
	Title   string
	Message string
}

// Copy explícito por estado; cualquier otro cae en el genérico.
var statusMessages = map[model.OrderStatus]statusCopy{
	model.StatusPaymentConfirmed: {
		Title:   "¡Tu pago ha sido confirmado!",
		Message: "Gracias por tu compra. Estamos preparando tu pedido.",
	},
	model.StatusDispatched: {
		Title:   "¡Tu pedido está en camino!",
		Message: "Tu pedido ha sido despachado y está en camino.",
	},
	model.StatusInTransit: {
		Title:   "Tu pedido está en tránsito",
		Message: "Tu pedido está siendo transportado hacia tu dirección.",
	},
	model.StatusDelivered: {
		Title:   "¡Tu pedido ha sido entregado!",
		Message: "Tu pedido ha sido entregado con éxito.",
	},
}

var genericMessage = statusCopy{
	Title:   "Actualización de tu pedido",
	Message: "El estado de tu pedido ha sido actualizado.",
}

// StatusMessage devuelve título y mensaje para un estado dado.
func StatusMessage(status model.OrderStatus) (string, string) {
	if c, ok := statusMessages[status]; ok {
		return c.Title, c.Message
	}
	return genericMessage.Title, genericMessage.Message
}

var orderTemplate = template.Must(template.New("order-status").Parse(`
<h1>{{.Title}}</h1>
<p>Hola {{.FirstName}},</p>
<p>{{.Message}}</p>
<p><strong>Número de orden:</strong> {{.OrderID}}</p>
<p><strong>Estado actual:</strong> {{.Status}}</p>
<p><strong>Resumen de tu pedido:</strong></p>
{{range .Lines}}<p>{{.}}</p>
{{end}}<p><strong>Total: {{.Total}}</strong></p>
<p>Si tienes alguna pregunta, no dudes en contactarnos.</p>
<p>Gracias por tu compra!</p>
`))

// ComposeOrderStatus arma asunto y cuerpo HTML del correo de
// actualización de estado.
func ComposeOrderStatus(order *model.Order, customer *model.Customer) (subject, html string, err error) {
	title, message := StatusMessage(order.Status)

	shortID := order.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	subject = fmt.Sprintf("Actualización de tu orden #%s", shortID)

	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%dx - %s", item.Quantity, cartutil.FormatPrice(item.PriceAtPurchase*float64(item.Quantity))))
	}

	data := struct {
		Title     string
		Message   string
		FirstName string
		OrderID   string
		Status    model.OrderStatus
		Lines     []string
		Total     string
	}{
		Title:     title,
		Message:   message,
		FirstName: customer.FirstName,
		OrderID:   order.ID,
		Status:    order.Status,
		Lines:     lines,
		Total:     cartutil.FormatPrice(order.TotalAmount),
	}

	var b strings.Builder
	if err := orderTemplate.Execute(&b, data); err != nil {
		return "", "", err
	}
	return subject, b.String(), nil
}
