package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
)

type CheckoutController struct {
	Service *service.CheckoutService
}

func NewCheckoutController(s *service.CheckoutService) *CheckoutController {
	return &CheckoutController{Service: s}
}

// GET /v1/checkout/:cartId
func (ctl *CheckoutController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Service.Session(c.Param("cartId")))
}

// POST /v1/checkout/:cartId/customer — transición customer-info → payment.
// Si la validación falla vuelve el mapa de errores por campo y no hay
// ningún efecto secundario.
func (ctl *CheckoutController) SubmitCustomerInfo(c *gin.Context) {
	var form dto.CustomerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, fieldErrs, err := ctl.Service.SubmitCustomerInfo(c.Request.Context(), c.Param("cartId"), form)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs, "session": session})
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found", "session": session})
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "session": session})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed", "session": session})
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// POST /v1/checkout/:cartId/payment — resultado del gateway (callback de
// retorno). approved pasa a confirmation; pending y rejected dejan la
// sesión en payment con su aviso.
func (ctl *CheckoutController) HandlePaymentResult(c *gin.Context) {
	var req dto.PaymentResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := ctl.Service.HandlePaymentResult(c.Request.Context(), c.Param("cartId"), req.PaymentID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "session": session})
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "session": session})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found", "session": session})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment handling failed", "session": session})
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// POST /v1/checkout/:cartId/reset — el comprador vuelve atrás desde el pago
func (ctl *CheckoutController) Reset(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Service.Reset(c.Param("cartId")))
}
