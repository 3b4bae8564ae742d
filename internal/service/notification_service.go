package service

import (
	"context"

	"tienda-backend/internal/email"
)

// EmailSender despacha un correo ya compuesto.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NotificationService compone y envía el correo de actualización de una
// orden. Lo dispara el consumer de Rabbit y la ruta interna /api/email.
type NotificationService struct {
	orders    OrderRepository
	customers CustomerRepository
	sender    EmailSender
}

func NewNotificationService(orders OrderRepository, customers CustomerRepository, sender EmailSender) *NotificationService {
	return &NotificationService{orders: orders, customers: customers, sender: sender}
}

func (s *NotificationService) SendOrderStatusEmail(ctx context.Context, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	customer, err := s.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	subject, html, err := email.ComposeOrderStatus(order, customer)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, customer.Email, subject, html)
}
