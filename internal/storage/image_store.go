// Package storage guarda las imágenes de productos en GridFS, sobre la
// misma base Mongo del resto del sistema. Las rutas siguen el esquema
// products/<productId>/<archivo> y se exponen como URLs /images/....
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/repository"
)

const urlPrefix = "/images/"

type ImageStore struct {
	bucket *gridfs.Bucket
}

func NewImageStore(db *mongo.Database) (*ImageStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("product_images"))
	if err != nil {
		return nil, err
	}
	return &ImageStore{bucket: bucket}, nil
}

// Upload sube una imagen bajo products/<productId>/<filename> y devuelve
// la URL con la que queda servida.
func (s *ImageStore) Upload(ctx context.Context, productID, filename string, src io.Reader) (string, error) {
	path := fmt.Sprintf("products/%s/%s", productID, filename)

	if _, err := s.bucket.UploadFromStream(path, src); err != nil {
		return "", fmt.Errorf("error subiendo imagen %s: %w", path, err)
	}
	return urlPrefix + path, nil
}

// Download escribe la imagen identificada por su path en w.
func (s *ImageStore) Download(ctx context.Context, path string, w io.Writer) error {
	if _, err := s.bucket.DownloadToStreamByName(path, w); err != nil {
		if err == gridfs.ErrFileNotFound {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteByURL elimina la imagen a partir de la URL guardada en el producto.
func (s *ImageStore) DeleteByURL(ctx context.Context, url string) error {
	path := strings.TrimPrefix(url, urlPrefix)

	cur, err := s.bucket.Find(bson.M{"filename": path})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	found := false
	for cur.Next(ctx) {
		var file struct {
			ID interface{} `bson:"_id"`
		}
		if err := cur.Decode(&file); err != nil {
			return err
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			return err
		}
		found = true
	}
	if !found {
		return repository.ErrNotFound
	}
	return nil
}
