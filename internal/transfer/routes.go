package transfer

import (
	"portfolio-api/internal/media"
	"portfolio-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, transferService TransferServiceAPI, stagingDisk media.Disk) {
	transferController := &TransferController{
		TransferService: transferService,
		StagingDisk:     stagingDisk,
	}

	transferGroup := r.Group("/api/transfer")
	transferGroup.Use(middlewares.AuthMiddleware())
	{
		transferGroup.POST("/export", transferController.ExportCSV)
		transferGroup.POST("/export/migration", transferController.ExportMigration)
		transferGroup.POST("/import", transferController.Import)
	}
}
