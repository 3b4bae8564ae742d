// setup.go
package rabbit

import (
	"log"

	"github.com/rabbitmq/amqp091-go"
)

// SetupConsumers declara la cola del worker de emails, la bindea al
// exchange de cambios de estado y arranca el consumo.
func SetupConsumers(ch *amqp091.Channel, mailer Mailer) {
	consumer := NewStatusEmailConsumer(mailer)

	q, err := ch.QueueDeclare(
		"tienda_status_emails",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error declarando queue:", err)
		return
	}

	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		StatusExchange,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error binding exchange:", err)
		return
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error al consumir queue:", err)
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	log.Println("🐰 Suscrito a exchange", StatusExchange, "(fanout)")
}
