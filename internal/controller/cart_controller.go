package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/cartutil"
	"tienda-backend/internal/dto"
	"tienda-backend/internal/model"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
)

type CartController struct {
	Service *service.CartService
}

func NewCartController(s *service.CartService) *CartController {
	return &CartController{Service: s}
}

func cartResponse(cart *model.Cart, notice string) gin.H {
	resp := gin.H{
		"cart":        cart,
		"totalItems":  cartutil.TotalItems(cart.Items),
		"totalAmount": cartutil.TotalAmount(cart.Items),
	}
	if notice != "" {
		resp["notice"] = notice
	}
	return resp
}

// POST /v1/carts — el cliente manda el ID que tenía guardado (si tenía)
// y recibe el carrito vigente, que puede ser uno nuevo.
func (ctl *CartController) InitCart(c *gin.Context) {
	var req dto.InitCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := ctl.Service.InitCart(c.Request.Context(), req.CartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo inicializar el carrito"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, ""))
}

// GET /v1/carts/:id
func (ctl *CartController) GetCart(c *gin.Context) {
	cart, err := ctl.Service.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart, ""))
}

// POST /v1/carts/:id/items
func (ctl *CartController) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, notice, err := ctl.Service.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart or product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo agregar el producto al carrito"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, notice))
}

// PATCH /v1/carts/:id/items/:productId
func (ctl *CartController) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, notice, err := ctl.Service.UpdateQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "cart or item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la cantidad"})
		}
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, notice))
}

// DELETE /v1/carts/:id/items/:productId
func (ctl *CartController) RemoveItem(c *gin.Context) {
	cart, err := ctl.Service.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el producto del carrito"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, ""))
}

// DELETE /v1/carts/:id/items
func (ctl *CartController) ClearCart(c *gin.Context) {
	cart, err := ctl.Service.ClearCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo vaciar el carrito"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, ""))
}
