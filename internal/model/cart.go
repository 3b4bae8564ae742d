package model

import "time"

const (
	CartStatusActive  = "active"
	CartStatusExpired = "expired"
)

// Cart persiste el carrito de un visitante. El ID lo genera el cliente
// (formato cart_<epoch-ms>_<random>) y se guarda en su localStorage.
type Cart struct {
	ID           string     `bson:"_id" json:"id"`
	Items        []CartItem `bson:"items" json:"items"`
	Status       string     `bson:"status" json:"status"`
	LastModified time.Time  `bson:"last_modified" json:"lastModified"`
}

type CartItem struct {
	ProductID       string          `bson:"product_id" json:"productId"`
	Quantity        int             `bson:"quantity" json:"quantity"`
	AddedAt         time.Time       `bson:"added_at" json:"addedAt"`
	PriceAtPurchase float64         `bson:"price_at_purchase" json:"priceAtPurchase"` // snapshot, nunca se recalcula
	Product         ProductSnapshot `bson:"product" json:"product"`
}

// ProductSnapshot es la copia desnormalizada del producto que el carrito
// necesita para mostrarse sin volver a consultar el catálogo.
type ProductSnapshot struct {
	Name        string `bson:"name" json:"name"`
	Slug        string `bson:"slug" json:"slug"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
}
