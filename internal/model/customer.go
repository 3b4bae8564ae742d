package model

import "time"

// Customer se identifica por email: guardar con un email existente
// actualiza ese registro (upsert).
type Customer struct {
	ID           string    `bson:"_id" json:"id"`
	FirstName    string    `bson:"first_name" json:"firstName"`
	LastName     string    `bson:"last_name" json:"lastName"`
	DNI          string    `bson:"dni" json:"dni"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	Street       string    `bson:"street" json:"street"`
	StreetNumber string    `bson:"street_number" json:"streetNumber"`
	ZipCode      string    `bson:"zip_code" json:"zipCode"`
	OrderIDs     []string  `bson:"order_ids" json:"orderIds"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
