package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/mercadopago"
	"tienda-backend/internal/service"
)

type WebhookController struct {
	Gateway *mercadopago.Client
	Orders  *service.OrderService
}

func NewWebhookController(gateway *mercadopago.Client, orders *service.OrderService) *WebhookController {
	return &WebhookController{Gateway: gateway, Orders: orders}
}

// POST /api/webhook/mercadopago — notificación entrante del gateway.
// Solo se procesan notificaciones de pago: se consulta el pago completo
// y se aplica el resultado sobre la orden referenciada.
func (ctl *WebhookController) HandleMercadoPago(c *gin.Context) {
	var notification dto.PaymentNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signature := c.GetHeader("x-signature")
	requestID := c.GetHeader("x-notification-id")

	if !ctl.Gateway.VerifyWebhookSignature(signature, notification.Data.ID, requestID) {
		log.Println("❌ Firma de webhook inválida")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if notification.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"message": "notification received but not processed"})
		return
	}

	payment, err := ctl.Gateway.GetPayment(c.Request.Context(), notification.Data.ID)
	if err != nil {
		log.Println("❌ Error consultando el pago del webhook:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting payment details"})
		return
	}

	err = ctl.Orders.UpdateOrderPayment(c.Request.Context(), payment.ExternalReference, notification.Data.ID, payment.Status)
	if err != nil {
		log.Println("❌ Error aplicando el pago a la orden:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook processed successfully"})
}
