package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/model"
)

type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection("products")}
}

func (r *MongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Images == nil {
		p.Images = []string{}
	}

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var p model.Product
	err = r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *MongoProductRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &p, err
}

// Find trae los productos que matchean los filtros de igualdad, más
// nuevos primero. El filtro de búsqueda por texto se aplica después,
// en el servicio.
func (r *MongoProductRepository) Find(ctx context.Context, filters dto.ProductFilters) ([]*model.Product, error) {
	filter := bson.M{}
	if filters.Category != "" {
		filter["category_id"] = filters.Category
	}
	if filters.Brand != "" {
		filter["brand"] = filters.Brand
	}
	if filters.Active != nil {
		filter["active"] = *filters.Active
	}
	if filters.Featured != nil {
		filter["featured"] = *filters.Featured
	}
	if filters.InStock != nil {
		if *filters.InStock {
			filter["stock"] = bson.M{"$gt": 0}
		} else {
			filter["stock"] = bson.M{"$lte": 0}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update["updated_at"] = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendImages agrega URLs al final de la lista de imágenes.
func (r *MongoProductRepository) AppendImages(ctx context.Context, id string, urls []string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$push": bson.M{"images": bson.M{"$each": urls}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctBrands lista las marcas presentes en el catálogo, para el
// filtro de la tienda.
func (r *MongoProductRepository) DistinctBrands(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "brand", bson.M{"brand": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}

	brands := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			brands = append(brands, s)
		}
	}
	return brands, nil
}
