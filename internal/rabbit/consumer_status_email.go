package rabbit

import (
	"context"
	"encoding/json"
	"log"
)

// Mailer compone y envía el correo de una orden. Lo implementa
// service.NotificationService.
type Mailer interface {
	SendOrderStatusEmail(ctx context.Context, orderID string) error
}

type StatusEmailConsumer struct {
	mailer Mailer
}

func NewStatusEmailConsumer(m Mailer) *StatusEmailConsumer {
	return &StatusEmailConsumer{mailer: m}
}

func (c *StatusEmailConsumer) Handle(msg []byte) error {
	var event StatusChangedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("Error parseando evento de estado:", err)
		return err
	}

	log.Println("[Rabbit] Evento recibido: cambio de estado de orden", event.OrderID, "→", event.Status)

	if err := c.mailer.SendOrderStatusEmail(context.Background(), event.OrderID); err != nil {
		log.Println("❌ Error enviando email de estado:", err)
		return err
	}

	log.Println("✔ Email de estado enviado para orden:", event.OrderID)
	return nil
}
