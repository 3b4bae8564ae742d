package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/model"
)

type MongoCartRepository struct {
	col *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{col: db.Collection("carts")}
}

// Save guarda el documento completo del carrito (upsert por _id).
func (r *MongoCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	cart.LastModified = time.Now().UTC()
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	if cart.Status == "" {
		cart.Status = model.CartStatusActive
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart, opts)
	return err
}

func (r *MongoCartRepository) FindByID(ctx context.Context, id string) (*model.Cart, error) {
	var cart model.Cart
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &cart, err
}

// MarkExpired deja el carrito marcado como expirado en vez de borrarlo.
func (r *MongoCartRepository) MarkExpired(ctx context.Context, id string) error {
	update := bson.M{
		"$set": bson.M{
			"status":        model.CartStatusExpired,
			"last_modified": time.Now().UTC(),
		},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCartRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
