// dto.go
package dto

import (
	"time"

	"tienda-backend/internal/model"
)

// ProductForm son los datos del formulario de alta/edición del admin.
// Las imágenes llegan aparte (multipart) y se suben a storage.
type ProductForm struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Price        float64  `json:"price" binding:"required"`
	ComparePrice *float64 `json:"comparePrice"`
	Stock        *int     `json:"stock" binding:"required"`
	CategoryID   string   `json:"categoryId" binding:"required"`
	Brand        string   `json:"brand"`
	Active       bool     `json:"active"`
	Featured     bool     `json:"featured"`
	// URLs ya subidas que se conservan al editar
	ExistingImages []string `json:"existingImages"`
}

type CategoryForm struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ProductFilters se aplican todos en AND; un campo ausente no restringe.
type ProductFilters struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Brand    string `form:"brand"`
	Active   *bool  `form:"active"`
	InStock  *bool  `form:"inStock"`
	Featured *bool  `form:"featured"`
}

type OrderFilters struct {
	Status        model.OrderStatus `form:"status"`
	PaymentStatus string            `form:"paymentStatus"`
	DateFrom      *time.Time        `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time        `form:"dateTo" time_format:"2006-01-02"`
}

// OrderCursor marca la última orden de la página anterior.
type OrderCursor struct {
	CreatedAt time.Time `form:"afterCreatedAt" time_format:"2006-01-02T15:04:05Z07:00"`
	ID        string    `form:"afterId"`
}

type InitCartRequest struct {
	// ID guardado en el localStorage del cliente, si existe
	CartID string `json:"cartId"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CustomerForm son los datos que el comprador completa en el checkout.
// La validación de formato se hace en el servicio y devuelve un mapa
// de errores por campo, no aquí.
type CustomerForm struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DNI          string `json:"dni"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	ZipCode      string `json:"zipCode"`
}

type PaymentResultRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	Status    string `json:"status" binding:"required"` // approved | pending | rejected
}

type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
	Note   string            `json:"note"`
}

type SendEmailRequest struct {
	OrderID string            `json:"orderId" binding:"required"`
	Status  model.OrderStatus `json:"status"`
}

// PaymentNotification es el cuerpo que manda Mercado Pago al webhook.
type PaymentNotification struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
