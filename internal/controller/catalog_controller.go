package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/cache"
	"tienda-backend/internal/dto"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
)

type CatalogController struct {
	Service *service.CatalogService
	Cache   *cache.Cache
}

func NewCatalogController(s *service.CatalogService, c *cache.Cache) *CatalogController {
	return &CatalogController{Service: s, Cache: c}
}

// GET /v1/products
func (ctl *CatalogController) ListProducts(c *gin.Context) {
	var filters dto.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cacheKey := fmt.Sprintf("products:list:%s", c.Request.URL.RawQuery)
	if cached, found := ctl.Cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := ctl.Service.ListProducts(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"products": products, "total": len(products)}
	ctl.Cache.Set(cacheKey, response, 2*time.Minute)
	c.JSON(http.StatusOK, response)
}

// GET /v1/products/:id
func (ctl *CatalogController) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := "products:detail:" + productID

	if cached, found := ctl.Cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := ctl.Service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctl.Cache.Set(cacheKey, product, 5*time.Minute)
	c.JSON(http.StatusOK, product)
}

// GET /v1/products/slug/:slug — lookup para las rutas de la tienda
func (ctl *CatalogController) GetProductBySlug(c *gin.Context) {
	product, err := ctl.Service.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GET /v1/brands
func (ctl *CatalogController) ListBrands(c *gin.Context) {
	brands, err := ctl.Service.ListBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// POST /admin/products
func (ctl *CatalogController) CreateProduct(c *gin.Context) {
	var form dto.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctl.Service.CreateProduct(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, service.ErrComparePrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	ctl.Cache.DeleteByPrefix("products:")
	c.JSON(http.StatusCreated, product)
}

// PATCH /admin/products/:id
func (ctl *CatalogController) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var form dto.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.UpdateProduct(c.Request.Context(), productID, form); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrComparePrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		}
		return
	}

	ctl.Cache.DeleteByPrefix("products:")
	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

// POST /admin/products/:id/images — multipart con campo "images"
func (ctl *CatalogController) UploadProductImages(c *gin.Context) {
	productID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}

	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer f.Close()
		uploads = append(uploads, service.ImageUpload{Filename: fh.Filename, Data: f})
	}

	urls, err := ctl.Service.UploadProductImages(c.Request.Context(), productID, uploads)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload images"})
		return
	}

	ctl.Cache.DeleteByPrefix("products:")
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// DELETE /admin/products/:id
func (ctl *CatalogController) DeleteProduct(c *gin.Context) {
	if err := ctl.Service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	ctl.Cache.DeleteByPrefix("products:")
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
