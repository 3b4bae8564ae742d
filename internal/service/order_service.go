package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/model"
	"tienda-backend/internal/rabbit"
)

type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	Delete(ctx context.Context, id string) error
	AppendStatus(ctx context.Context, orderID string, status model.OrderStatus, record model.StatusRecord) error
	UpdatePayment(ctx context.Context, orderID, paymentID, paymentStatus string, status model.OrderStatus, record model.StatusRecord) error
	FindPage(ctx context.Context, filters dto.OrderFilters, cursor *dto.OrderCursor, limit int) ([]*model.Order, error)
}

type CustomerRepository interface {
	Insert(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	Update(ctx context.Context, id string, update bson.M) error
	AddOrder(ctx context.Context, customerID, orderID string) error
}

// EventPublisher manda el evento de cambio de estado a la cola.
type EventPublisher interface {
	Publish(ctx context.Context, event rabbit.StatusChangedEvent) error
}

var (
	ErrInvalidStatus        = errors.New("estado de orden inválido")
	ErrInvalidPaymentStatus = errors.New("estado de pago inválido")
)

// Tamaño fijo de página del listado del back office.
const OrdersPageSize = 20

type OrderService struct {
	orders    OrderRepository
	customers CustomerRepository
	events    EventPublisher
}

func NewOrderService(orders OrderRepository, customers CustomerRepository, events EventPublisher) *OrderService {
	return &OrderService{orders: orders, customers: customers, events: events}
}

// ListOrders devuelve una página (creación descendente) y si hay más.
// Pide un registro de más para saber si queda otra página.
func (s *OrderService) ListOrders(ctx context.Context, filters dto.OrderFilters, cursor *dto.OrderCursor) ([]*model.Order, bool, error) {
	orders, err := s.orders.FindPage(ctx, filters, cursor, OrdersPageSize+1)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(orders) > OrdersPageSize
	if hasMore {
		orders = orders[:OrdersPageSize]
	}
	return orders, hasMore, nil
}

// OrderDetail trae la orden y su cliente. Que falte cualquiera de los
// dos es un error duro para la vista de detalle.
func (s *OrderService) OrderDetail(ctx context.Context, orderID string) (*model.Order, *model.Customer, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	customer, err := s.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	return order, customer, nil
}

// UpdateStatus es la escritura directa del admin: valida solo que el
// estado exista, appendea al historial y actualiza el campo
// desnormalizado. No hay grafo de transiciones. El evento de
// notificación sale fuera del camino crítico.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, note string) error {
	if !model.IsValidStatus(status) {
		return ErrInvalidStatus
	}

	if note == "" {
		note = fmt.Sprintf("Estado actualizado a %s", status)
	}

	record := model.StatusRecord{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Note:      note,
	}

	if err := s.orders.AppendStatus(ctx, orderID, status, record); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, rabbit.StatusChangedEvent{OrderID: orderID, Status: status}); err != nil {
			// Fire-and-forget: el cambio de estado ya quedó grabado
			log.Println("⚠️ No se pudo publicar la notificación de estado:", err)
		}
	}
	return nil
}

// UpdateOrderPayment aplica el resultado del pago sobre la orden:
// approved confirma, pending deja la orden esperando el pago y
// rejected la devuelve a REGISTERED para reintentar.
func (s *OrderService) UpdateOrderPayment(ctx context.Context, orderID, paymentID, paymentStatus string) error {
	var status model.OrderStatus
	var note string

	switch paymentStatus {
	case model.PaymentApproved:
		status = model.StatusPaymentConfirmed
		note = fmt.Sprintf("Pago confirmado (ID: %s)", paymentID)
	case model.PaymentPending:
		status = model.StatusPendingPayment
		note = fmt.Sprintf("Pago pendiente (ID: %s)", paymentID)
	case model.PaymentRejected:
		status = model.StatusRegistered
		note = fmt.Sprintf("Pago rechazado (ID: %s)", paymentID)
	default:
		return ErrInvalidPaymentStatus
	}

	record := model.StatusRecord{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Note:      note,
	}

	return s.orders.UpdatePayment(ctx, orderID, paymentID, paymentStatus, status, record)
}
