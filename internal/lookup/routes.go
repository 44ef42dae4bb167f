package lookup

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, registry *TypeRegistry) {
	lookupController := &LookupController{Registry: registry}

	lookupGroup := r.Group("/api/lookup")
	{
		lookupGroup.GET("/types", lookupController.GetPortfolioTypes)
	}
}
