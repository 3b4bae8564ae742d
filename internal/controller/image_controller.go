package controller

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/repository"
	"tienda-backend/internal/storage"
)

type ImageController struct {
	Store *storage.ImageStore
}

func NewImageController(store *storage.ImageStore) *ImageController {
	return &ImageController{Store: store}
}

// GET /images/*path — sirve las imágenes de productos desde GridFS.
func (ctl *ImageController) ServeImage(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")

	var buf bytes.Buffer
	if err := ctl.Store.Download(c.Request.Context(), path, &buf); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load image"})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Data(http.StatusOK, contentType, buf.Bytes())
}
