package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tienda-backend/internal/model"
)

type MongoCustomerRepository struct {
	col *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{col: db.Collection("customers")}
}

func (r *MongoCustomerRepository) Insert(ctx context.Context, c *model.Customer) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.OrderIDs == nil {
		c.OrderIDs = []string{}
	}

	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *MongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *MongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &c, err
}

// Update pisa los datos de contacto/dirección. No toca order_ids.
func (r *MongoCustomerRepository) Update(ctx context.Context, id string, update bson.M) error {
	update["updated_at"] = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddOrder agrega la orden a la lista del cliente (append atómico).
func (r *MongoCustomerRepository) AddOrder(ctx context.Context, customerID, orderID string) error {
	update := bson.M{
		"$push": bson.M{"order_ids": orderID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": customerID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
