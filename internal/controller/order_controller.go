package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
)

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// GET /admin/orders — página fija, más nuevas primero. "Cargar más"
// repite el request con afterCreatedAt/afterId de la última orden;
// cambiar un filtro implica pedir de nuevo sin cursor.
func (ctl *OrderController) ListOrders(c *gin.Context) {
	var filters dto.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cursor *dto.OrderCursor
	var cur dto.OrderCursor
	if err := c.ShouldBindQuery(&cur); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cur.ID != "" {
		cursor = &cur
	}

	orders, hasMore, err := ctl.Service.ListOrders(c.Request.Context(), filters, cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"orders": orders, "hasMore": hasMore}
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		response["nextCursor"] = gin.H{
			"afterCreatedAt": last.CreatedAt,
			"afterId":        last.ID,
		}
	}

	c.JSON(http.StatusOK, response)
}

// GET /admin/orders/:orderId — orden + cliente; que falte cualquiera de
// los dos es 404 para la vista de detalle.
func (ctl *OrderController) GetOrderDetail(c *gin.Context) {
	order, customer, err := ctl.Service.OrderDetail(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order or customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "customer": customer})
}

// PATCH /admin/orders/:orderId/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ctl.Service.UpdateStatus(c.Request.Context(), c.Param("orderId"), req.Status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
