package logs

import (
	"portfolio-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, logService *LogService) {
	logController := &LogController{LogService: logService}

	logGroup := r.Group("/api/logs")
	logGroup.Use(middlewares.AuthMiddleware())
	{
		logGroup.POST("", logController.GetLogs)
	}
}
