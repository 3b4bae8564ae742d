package model

import "time"

type OrderStatus string

const (
	StatusRegistered       OrderStatus = "REGISTERED"
	StatusPendingPayment   OrderStatus = "PENDING_PAYMENT"
	StatusPaymentConfirmed OrderStatus = "PAYMENT_CONFIRMED"
	StatusDispatched       OrderStatus = "DISPATCHED"
	StatusInTransit        OrderStatus = "IN_TRANSIT"
	StatusDelivered        OrderStatus = "DELIVERED"
	StatusCancelled        OrderStatus = "CANCELLED"
)

// Estados válidos. No hay grafo de transiciones: el admin puede mover
// una orden a cualquier estado conocido.
var validStatuses = map[OrderStatus]bool{
	StatusRegistered:       true,
	StatusPendingPayment:   true,
	StatusPaymentConfirmed: true,
	StatusDispatched:       true,
	StatusInTransit:        true,
	StatusDelivered:        true,
	StatusCancelled:        true,
}

func IsValidStatus(s OrderStatus) bool {
	return validStatuses[s]
}

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

type Order struct {
	ID            string         `bson:"_id" json:"id"`
	CustomerID    string         `bson:"customer_id" json:"customerId"`
	Items         []OrderItem    `bson:"items" json:"items"`
	TotalAmount   float64        `bson:"total_amount" json:"totalAmount"` // fijado al crear, nunca se recalcula
	Status        OrderStatus    `bson:"status" json:"status"`
	PaymentID     string         `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	PaymentStatus string         `bson:"payment_status" json:"paymentStatus"`
	StatusHistory []StatusRecord `bson:"status_history" json:"statusHistory"`
	CreatedAt     time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updatedAt"`
}

type OrderItem struct {
	ProductID       string  `bson:"product_id" json:"productId"`
	Quantity        int     `bson:"quantity" json:"quantity"`
	PriceAtPurchase float64 `bson:"price_at_purchase" json:"priceAtPurchase"`
}

// StatusRecord es una entrada del historial. El historial solo crece,
// nunca se edita ni se trunca.
type StatusRecord struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
}
