package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
)

type EmailController struct {
	Notifications *service.NotificationService
}

func NewEmailController(n *service.NotificationService) *EmailController {
	return &EmailController{Notifications: n}
}

// POST /api/email — ruta interna para reenviar el correo de estado de
// una orden a mano. El camino normal es el consumer de Rabbit.
func (ctl *EmailController) SendOrderStatusEmail(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Println("📧 Pedido de email recibido para orden:", req.OrderID)

	if err := ctl.Notifications.SendOrderStatusEmail(c.Request.Context(), req.OrderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order or customer not found"})
			return
		}
		log.Println("📧 Error enviando email:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
