package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/cache"
	"tienda-backend/internal/dto"
	"tienda-backend/internal/repository"
	"tienda-backend/internal/service"
)

type CategoryController struct {
	Service *service.CatalogService
	Cache   *cache.Cache
}

func NewCategoryController(s *service.CatalogService, c *cache.Cache) *CategoryController {
	return &CategoryController{Service: s, Cache: c}
}

// GET /v1/categories
func (ctl *CategoryController) ListCategories(c *gin.Context) {
	if cached, found := ctl.Cache.Get("categories:list"); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	categories, err := ctl.Service.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"categories": categories}
	ctl.Cache.Set("categories:list", response, 5*time.Minute)
	c.JSON(http.StatusOK, response)
}

// GET /v1/categories/:slug
func (ctl *CategoryController) GetCategoryBySlug(c *gin.Context) {
	category, err := ctl.Service.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

// POST /admin/categories
func (ctl *CategoryController) CreateCategory(c *gin.Context) {
	var form dto.CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := ctl.Service.CreateCategory(c.Request.Context(), form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}

	ctl.Cache.Delete("categories:list")
	c.JSON(http.StatusCreated, category)
}

// PATCH /admin/categories/:id
func (ctl *CategoryController) UpdateCategory(c *gin.Context) {
	var form dto.CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.UpdateCategory(c.Request.Context(), c.Param("id"), form); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		return
	}

	ctl.Cache.Delete("categories:list")
	c.JSON(http.StatusOK, gin.H{"message": "category updated"})
}

// DELETE /admin/categories/:id
func (ctl *CategoryController) DeleteCategory(c *gin.Context) {
	if err := ctl.Service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}

	ctl.Cache.Delete("categories:list")
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
