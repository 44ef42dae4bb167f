package transfer

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio-api/internal/media"
)

type TransferController struct {
	TransferService TransferServiceAPI
	StagingDisk     media.Disk
}

// POST /api/transfer/export — body {"ids": [..]}, responds with the archive.
func (tc *TransferController) ExportCSV(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := tc.TransferService.ExportCSV(c.Request.Context(), req.IDs, c.Request.Host)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Export failed: %v", err)})
		return
	}

	c.FileAttachment(result.ArchivePath, result.ArchiveName)
}

// POST /api/transfer/export/migration
func (tc *TransferController) ExportMigration(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := tc.TransferService.ExportMigration(c.Request.Context(), req.IDs, c.Request.Host)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Export failed: %v", err)})
		return
	}

	c.FileAttachment(result.ArchivePath, result.ArchiveName)
}

// POST /api/transfer/import — multipart upload field "file" (one zip).
// The upload is staged on the configured disk, then the pipeline runs.
func (tc *TransferController) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".zip") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload must be a zip archive"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	stagedObject := fmt.Sprintf("staging/%s.zip", uuid.NewString())
	if err := tc.StagingDisk.Put(c.Request.Context(), stagedObject, src, "application/zip"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report, err := tc.TransferService.Import(c.Request.Context(), stagedObject)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Import failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Portfolios imported successfully",
		"report":  report,
	})
}
