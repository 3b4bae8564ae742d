// Package rabbit conecta el servicio con RabbitMQ: publica los cambios
// de estado de órdenes y consume esos eventos para despachar emails.
package rabbit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/rabbitmq/amqp091-go"

	"tienda-backend/internal/model"
)

const StatusExchange = "order_status_changed"

// StatusChangedEvent viaja por el exchange fanout cuando una orden
// cambia de estado.
type StatusChangedEvent struct {
	OrderID string            `json:"orderId"`
	Status  model.OrderStatus `json:"status"`
}

type StatusPublisher struct {
	ch *amqp091.Channel
}

func NewStatusPublisher(ch *amqp091.Channel) (*StatusPublisher, error) {
	err := ch.ExchangeDeclare(
		StatusExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &StatusPublisher{ch: ch}, nil
}

// Publish manda el evento fuera del camino crítico: si falla solo se
// loguea, la actualización de estado ya se hizo.
func (p *StatusPublisher) Publish(ctx context.Context, event StatusChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx,
		StatusExchange,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Println("❌ Error publicando evento de estado:", err)
	}
	return err
}
