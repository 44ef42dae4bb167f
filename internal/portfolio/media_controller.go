package portfolio

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio-api/internal/media"
	"portfolio-api/internal/util"
)

func validCollection(name string) bool {
	switch name {
	case media.CollectionBefore, media.CollectionAfter, media.CollectionGallery:
		return true
	}
	return false
}

// POST /api/portfolio/:id/media/:collection (multipart field "file")
func (pc *PortfolioController) UploadMedia(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
		return
	}

	collection := c.Param("collection")
	if !validCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown media collection"})
		return
	}

	if _, err := pc.PortfolioService.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeFromExt(filepath.Ext(fh.Filename))
	}

	m, err := pc.MediaService.Attach(c.Request.Context(), id, collection, filepath.Base(fh.Filename), contentType, src, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Media uploaded successfully",
		"data":    m,
		"url":     pc.MediaService.URL(m),
	})
}

// DELETE /api/portfolio/:id/media/:collection
func (pc *PortfolioController) ClearMedia(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
		return
	}

	collection := c.Param("collection")
	if !validCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown media collection"})
		return
	}

	if err := pc.MediaService.ClearCollection(c.Request.Context(), id, collection); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media cleared successfully"})
}
