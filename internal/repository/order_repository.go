package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/model"
)

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (r *MongoOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, o)
	return err
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &o, err
}

// Delete existe solo como compensación cuando falla el vínculo con el
// cliente justo después de crear la orden.
func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AppendStatus actualiza el estado desnormalizado y pushea el registro
// al historial en una sola escritura. El historial nunca se edita.
func (r *MongoOrderRepository) AppendStatus(ctx context.Context, orderID string, status model.OrderStatus, record model.StatusRecord) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
		"$push": bson.M{
			"status_history": record,
		},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": orderID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePayment registra el resultado del pago: paymentId, estado del
// pago, estado de la orden y la entrada de historial correspondiente.
func (r *MongoOrderRepository) UpdatePayment(ctx context.Context, orderID, paymentID, paymentStatus string, status model.OrderStatus, record model.StatusRecord) error {
	update := bson.M{
		"$set": bson.M{
			"payment_id":     paymentID,
			"payment_status": paymentStatus,
			"status":         status,
			"updated_at":     time.Now().UTC(),
		},
		"$push": bson.M{
			"status_history": record,
		},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": orderID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPage devuelve una página de órdenes, más nuevas primero. El cursor
// es la última orden de la página anterior; cambiar los filtros implica
// arrancar sin cursor.
func (r *MongoOrderRepository) FindPage(ctx context.Context, filters dto.OrderFilters, cursor *dto.OrderCursor, limit int) ([]*model.Order, error) {
	filter := bson.M{}

	if filters.Status != "" {
		filter["status"] = filters.Status
	}
	if filters.PaymentStatus != "" {
		filter["payment_status"] = filters.PaymentStatus
	}

	created := bson.M{}
	if filters.DateFrom != nil {
		created["$gte"] = *filters.DateFrom
	}
	if filters.DateTo != nil {
		created["$lte"] = *filters.DateTo
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	if cursor != nil {
		// Desempate por _id para cursores con el mismo created_at
		filter["$or"] = []bson.M{
			{"created_at": bson.M{"$lt": cursor.CreatedAt}},
			{"created_at": cursor.CreatedAt, "_id": bson.M{"$lt": cursor.ID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
