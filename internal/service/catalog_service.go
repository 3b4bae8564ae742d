package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"tienda-backend/internal/dto"
	"tienda-backend/internal/model"
	"tienda-backend/internal/slug"
)

// Interfaces que debe implementar repository
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, s string) (*model.Product, error)
	Find(ctx context.Context, filters dto.ProductFilters) ([]*model.Product, error)
	Update(ctx context.Context, id string, update bson.M) error
	AppendImages(ctx context.Context, id string, urls []string) error
	Delete(ctx context.Context, id string) error
	DistinctBrands(ctx context.Context) ([]string, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindAll(ctx context.Context) ([]*model.Category, error)
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindBySlug(ctx context.Context, s string) (*model.Category, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

// ImageStore es el colaborador de object storage para las imágenes.
type ImageStore interface {
	Upload(ctx context.Context, productID, filename string, src io.Reader) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}

var ErrComparePrice = errors.New("el precio de comparación debe ser mayor al precio")

type CatalogService struct {
	products   ProductRepository
	categories CategoryRepository
	images     ImageStore
}

func NewCatalogService(p ProductRepository, c CategoryRepository, img ImageStore) *CatalogService {
	return &CatalogService{products: p, categories: c, images: img}
}

// ListProducts aplica todos los filtros en AND. Los de igualdad van a la
// base; la búsqueda por texto se evalúa acá, como substring sin
// distinguir mayúsculas sobre nombre O marca.
func (s *CatalogService) ListProducts(ctx context.Context, filters dto.ProductFilters) ([]*model.Product, error) {
	products, err := s.products.Find(ctx, filters)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(filters.Search))
	if term == "" {
		return products, nil
	}

	filtered := make([]*model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, productSlug string) (*model.Product, error) {
	return s.products.FindBySlug(ctx, slug.Make(productSlug))
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]string, error) {
	return s.products.DistinctBrands(ctx)
}

// CreateProduct da de alta el producto. Las imágenes se suben aparte con
// UploadProductImages una vez que existe el ID.
func (s *CatalogService) CreateProduct(ctx context.Context, form dto.ProductForm) (*model.Product, error) {
	if form.ComparePrice != nil && *form.ComparePrice <= form.Price {
		return nil, ErrComparePrice
	}

	p := &model.Product{
		Name:         form.Name,
		Slug:         slug.Make(form.Name),
		Description:  form.Description,
		Price:        form.Price,
		ComparePrice: form.ComparePrice,
		Stock:        *form.Stock,
		Images:       []string{},
		CategoryID:   form.CategoryID,
		Brand:        form.Brand,
		Active:       form.Active,
		Featured:     form.Featured,
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct pisa los campos del formulario. El slug siempre se
// recalcula desde el nombre; las imágenes quedan en las existentes que
// el admin conservó (las nuevas se agregan vía UploadProductImages).
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, form dto.ProductForm) error {
	if form.ComparePrice != nil && *form.ComparePrice <= form.Price {
		return ErrComparePrice
	}

	images := form.ExistingImages
	if images == nil {
		images = []string{}
	}

	update := bson.M{
		"name":          form.Name,
		"slug":          slug.Make(form.Name),
		"description":   form.Description,
		"price":         form.Price,
		"compare_price": form.ComparePrice, // queda null cuando no viene
		"stock":         *form.Stock,
		"category_id":   form.CategoryID,
		"brand":         form.Brand,
		"active":        form.Active,
		"featured":      form.Featured,
		"images":        images,
	}

	return s.products.Update(ctx, id, update)
}

type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// UploadProductImages sube cada archivo bajo products/<id>/ y agrega las
// URLs resultantes a la lista del producto.
func (s *CatalogService) UploadProductImages(ctx context.Context, productID string, uploads []ImageUpload) ([]string, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		url, err := s.images.Upload(ctx, productID, up.Filename, up.Data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	if len(urls) > 0 {
		if err := s.products.AppendImages(ctx, productID, urls); err != nil {
			return nil, err
		}
	}
	return urls, nil
}

// DeleteProduct borra primero las imágenes y recién después el registro.
// Si una imagen falla, el borrado completo se aborta: no se pierde el
// registro sin limpiar el storage (las ya borradas no se restauran).
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	for _, url := range p.Images {
		if err := s.images.DeleteByURL(ctx, url); err != nil {
			log.Println("❌ Error borrando imagen", url, ":", err)
			return fmt.Errorf("error borrando imagen %s: %w", url, err)
		}
	}

	return s.products.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categories.FindAll(ctx)
}

// GetCategoryBySlug normaliza el segmento de la ruta con la misma regla
// con la que se generan los slugs, así la búsqueda nunca desencaja.
func (s *CatalogService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*model.Category, error) {
	return s.categories.FindBySlug(ctx, slug.Make(categorySlug))
}

func (s *CatalogService) CreateCategory(ctx context.Context, form dto.CategoryForm) (*model.Category, error) {
	c := &model.Category{
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Description: form.Description,
		Active:      form.Active,
	}

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, form dto.CategoryForm) error {
	update := bson.M{
		"name":        form.Name,
		"slug":        slug.Make(form.Name),
		"description": form.Description,
		"active":      form.Active,
	}
	return s.categories.Update(ctx, id, update)
}

// DeleteCategory no cascadea: los productos de la categoría quedan con
// la referencia huérfana.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}
